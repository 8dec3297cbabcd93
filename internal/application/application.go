package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/psds-microservice/order-service/internal/auth"
	"github.com/psds-microservice/order-service/internal/config"
	"github.com/psds-microservice/order-service/internal/database"
	"github.com/psds-microservice/order-service/internal/gateway"
	"github.com/psds-microservice/order-service/internal/handler"
	"github.com/psds-microservice/order-service/internal/kafka"
	"github.com/psds-microservice/order-service/internal/router"
	"github.com/psds-microservice/order-service/internal/service"
)

// API приложение: HTTP-сервер с REST-эндпоинтами и websocket-гейтвеем (режим api).
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

// NewAPI создаёт приложение для режима api.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	orderSvc := service.NewOrderService(db)
	chatSvc := service.NewChatService(db)
	userSvc := service.NewUserService(db)
	producer := kafka.NewProducer(kafka.ParseBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)

	gw := gateway.New(orderSvc, chatSvc, tokens, cfg.WSAllowedOrigins)

	h := router.New(
		handler.NewAuthHandler(userSvc, tokens),
		handler.NewOrderHandler(orderSvc, producer),
		handler.NewChatHandler(orderSvc, chatSvc),
		gw,
		tokens,
	)

	// Write/Read таймауты не задаются: /ws держит соединение открытым
	// неограниченно долго, разрыв определяется закрытием транспорта.
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, httpSrv: httpSrv, producer: producer}, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Websocket:     %s/ws", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	return nil
}
