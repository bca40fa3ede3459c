package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"linkup-service/internal/auth"
	"linkup-service/internal/cache"
	"linkup-service/internal/config"
	"linkup-service/internal/db"
	"linkup-service/internal/handlers"
	"linkup-service/internal/middleware"
	"linkup-service/internal/observability"
	"linkup-service/internal/rabbitmq"
	"linkup-service/internal/repositories"
	"linkup-service/internal/telemetry"
)

func main() {
	cfg := config.Load()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	shutdownTracing, err := observability.InitTracing(context.Background(), cfg.OTLPEndpoint, "linkup-service")
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewEmitter(publisher, "linkup-service", cfg.Environment, observability.IncAMQPPublishError)

	userRepo := repositories.NewUserRepo(database)
	var connRepo repositories.ConnectionRepository = repositories.NewConnectionRepo(database)
	convRepo := repositories.NewConversationRepo(database)
	msgRepo := repositories.NewMessageRepo(database)

	if cfg.RedisAddr != "" {
		store, err := cache.NewRedisStore(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer store.Close()
		connRepo = cache.NewConnectionCache(connRepo, store, time.Minute)
		log.Printf("connection cache enabled addr=%s", cfg.RedisAddr)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, emitter, !cfg.IsDevelopment())
	userHandler := handlers.NewUserHandler(userRepo, connRepo)
	connHandler := handlers.NewConnectionHandler(connRepo, userRepo, emitter)
	msgHandler := handlers.NewMessageHandler(connRepo, convRepo, msgRepo, userRepo, emitter)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("linkup-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthMiddleware(tokens)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/logout", authRequired, authHandler.Logout)

	router.GET("/user/search", authRequired, userHandler.Search)
	router.GET("/user/profile", authRequired, userHandler.Profile)
	router.PUT("/user/profile", authRequired, userHandler.UpdateProfile)
	router.GET("/user/currentchatters", authRequired, userHandler.CurrentChatters)

	router.POST("/connection/send/:id", authRequired, connHandler.SendRequest)
	router.GET("/connection/requests", authRequired, connHandler.ListIncoming)
	router.GET("/connection/sent", authRequired, connHandler.ListOutgoing)
	router.PUT("/connection/respond/:id", authRequired, connHandler.Respond)
	router.GET("/connection/list", authRequired, connHandler.ListAccepted)
	router.DELETE("/connection/:id", authRequired, connHandler.Remove)
	router.GET("/connection/check/:userId1/:userId2", authRequired, connHandler.CheckStatus)

	router.POST("/message/send/:id", authRequired, msgHandler.Send)
	router.GET("/message/conversation/:id", authRequired, msgHandler.OpenConversation)
	router.GET("/message/:id", authRequired, msgHandler.History)

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
