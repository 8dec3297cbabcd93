package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/order-service/internal/auth"
)

const identityKey = "identity"

// AuthRequired проверяет bearer-токен и кладёт неизменяемую Identity в контекст
// запроса. Без валидного токена запрос завершается 401.
func AuthRequired(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		ident, err := tokens.Verify(token)
		if err != nil {
			log.Printf("auth: token verification failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

func identityFrom(c *gin.Context) auth.Identity {
	v, _ := c.Get(identityKey)
	ident, _ := v.(auth.Identity)
	return ident
}
