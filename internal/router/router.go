package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/order-service/api"
	"github.com/psds-microservice/order-service/internal/auth"
	"github.com/psds-microservice/order-service/internal/gateway"
	"github.com/psds-microservice/order-service/internal/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const pathSwagger = "/swagger"

func New(
	authHandler *handler.AuthHandler,
	orderHandler *handler.OrderHandler,
	chatHandler *handler.ChatHandler,
	gw *gateway.Gateway,
	tokens *auth.Tokens,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	r.POST("/auth/signup", authHandler.Signup)
	r.POST("/auth/login", authHandler.Login)

	// Гейтвей сам проверяет bearer-токен в хендшейке.
	r.GET("/ws", gin.WrapH(gw))

	authorized := r.Group("/", handler.AuthRequired(tokens))
	{
		order := authorized.Group("/order")
		{
			order.POST("", orderHandler.Create)
			order.GET("", orderHandler.List)
			order.GET("/:id", orderHandler.Get)
			order.PATCH("/:id", orderHandler.Update)
			order.DELETE("/:id", orderHandler.Delete)
			order.PATCH("/:id/cancel", orderHandler.Cancel)
			order.PATCH("/:id/process", orderHandler.Process)
			order.PATCH("/:id/complete", orderHandler.Complete)
		}
		chat := authorized.Group("/chat")
		{
			chat.POST("", chatHandler.Create)
			chat.GET("/:id", chatHandler.List)
		}
	}

	return r
}
