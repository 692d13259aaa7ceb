package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/courierly/courierd/internal/server/http/handlers"
	"github.com/courierly/courierd/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CourierFacade, pinger handlers.Pinger, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	healthHandler := handlers.NewHealthHandler(pinger)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authProfile := auth.Group("")
	authProfile.Use(middleware.AuthRequired(facade))
	authProfile.GET("/profile", authHandler.Profile)
	authProfile.PUT("/profile", authHandler.UpdateProfile)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id", orderHandler.Update)
	orders.PATCH("/:id", orderHandler.Update)
	orders.DELETE("/:id", orderHandler.Delete)

	payments := api.Group("/payments")
	payments.POST("/webhook", webhookHandler.Receive)

	paymentAuth := payments.Group("")
	paymentAuth.Use(middleware.AuthRequired(facade))
	paymentAuth.POST("/checkout", paymentHandler.Checkout)
	paymentAuth.POST("/retry/:payment_id", paymentHandler.Retry)

	return engine
}
