// HTTP Server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bizsim/internal/handler"
	"bizsim/internal/middleware"
	"bizsim/internal/models"
	"bizsim/internal/service"
	"bizsim/internal/store"
	"bizsim/pkg/logger"
)

func main() {
	// Load configuration (.env is optional)
	godotenv.Load()
	cfg := loadConfig()

	// Initialize logger
	var log *zap.Logger
	if cfg.Environment == "development" {
		log = logger.NewDevelopmentLogger("bizsim")
	} else {
		log = logger.NewLogger("bizsim")
	}
	defer log.Sync()

	// Initialize stores
	customers := store.NewCollection[models.Customer]("customer")
	invoices := store.NewCollection[models.Invoice]("invoice")
	payments := store.NewCollection[models.LedgerPayment]("payment")
	transactions := store.NewCollection[models.Transaction]("transaction")
	refunds := store.NewCollection[models.Refund]("refund")

	// Initialize services
	ledgerService := service.NewLedgerService(customers, invoices, payments, log)
	processorService := service.NewProcessorService(transactions, refunds,
		service.NewRandomApproval(cfg.ApprovalRate), log)
	statsService := service.NewStatsService(ledgerService, processorService)
	mailboxService := service.NewMailboxService(log)

	// Initialize handlers
	erpHandler := handler.NewERPHandler(ledgerService, statsService, log)
	paymentHandler := handler.NewPaymentHandler(processorService, statsService, log)
	emailHandler := handler.NewEmailHandler(mailboxService, log)

	// Setup router
	router := setupRouter(erpHandler, paymentHandler, emailHandler, log)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(erp *handler.ERPHandler, payment *handler.PaymentHandler, email *handler.EmailHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Health checks
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ERP system
	erpGroup := router.Group("/erp")
	{
		customers := erpGroup.Group("/customers")
		{
			customers.POST("", erp.CreateCustomer)
			customers.GET("", erp.ListCustomers)
			customers.GET("/:id", erp.GetCustomer)
			customers.PUT("/:id", erp.UpdateCustomer)
			customers.DELETE("/:id", erp.DeleteCustomer)
		}

		invoices := erpGroup.Group("/invoices")
		{
			invoices.POST("", erp.CreateInvoice)
			invoices.GET("", erp.ListInvoices)
			invoices.GET("/:id", erp.GetInvoice)
			invoices.POST("/:id/cancel", erp.CancelInvoice)
			invoices.DELETE("/:id", erp.DeleteInvoice)
		}
		erpGroup.GET("/outstanding-invoices", erp.ListOutstanding)

		pay := erpGroup.Group("/payments")
		{
			pay.POST("", erp.RecordPayment)
			pay.GET("", erp.ListPayments)
			pay.GET("/:id", erp.GetPayment)
		}

		erpGroup.GET("/statistics", erp.Statistics)
	}

	// Payment gateway
	paymentGroup := router.Group("/payment")
	{
		paymentGroup.POST("/process", payment.Process)
		paymentGroup.POST("/validate", payment.Validate)
		paymentGroup.GET("/statistics", payment.Statistics)

		txns := paymentGroup.Group("/transactions")
		{
			txns.GET("", payment.ListTransactions)
			txns.DELETE("", payment.ClearAll)
			txns.GET("/:transaction_id", payment.GetTransaction)
			txns.GET("/:transaction_id/status", payment.GetStatus)
			txns.POST("/:transaction_id/refund", payment.Refund)
		}
	}

	// Email collaborator
	emailGroup := router.Group("/email")
	{
		emailGroup.POST("/send", email.Send)
		emailGroup.GET("/inbox", email.ListInbox)
		emailGroup.DELETE("/inbox", email.ClearInbox)
		emailGroup.GET("/inbox/:id", email.GetInbox)
		emailGroup.DELETE("/inbox/:id", email.DeleteInbox)
		emailGroup.POST("/mark-read/:id", email.MarkRead)
		emailGroup.GET("/outbox", email.ListOutbox)
		emailGroup.DELETE("/outbox", email.ClearOutbox)
		emailGroup.GET("/outbox/:id", email.GetOutbox)
		emailGroup.DELETE("/outbox/:id", email.DeleteOutbox)
	}

	return router
}

type Config struct {
	Port         string
	Environment  string
	ApprovalRate float64
}

func loadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "8000"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		ApprovalRate: getEnvFloat("APPROVAL_RATE", 0.90),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
