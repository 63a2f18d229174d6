package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bizsim/internal/models"
	"bizsim/internal/service"
)

// PaymentHandler exposes the simulated payment gateway.
type PaymentHandler struct {
	processor *service.ProcessorService
	stats     *service.StatsService
	logger    *zap.Logger
}

func NewPaymentHandler(processor *service.ProcessorService, stats *service.StatsService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{processor: processor, stats: stats, logger: logger}
}

// Process handles POST /payment/process. A declined or validation-failed
// payment is still a created transaction, so the response is 201 either
// way.
func (h *PaymentHandler) Process(c *gin.Context) {
	var req models.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.processor.Process(&req)
	if err != nil {
		h.logger.Error("failed to process payment", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// Validate handles POST /payment/validate
func (h *PaymentHandler) Validate(c *gin.Context) {
	var req models.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.processor.Validate(&req))
}

// GetTransaction handles GET /payment/transactions/:transaction_id
func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	txn, err := h.processor.GetTransaction(c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// GetStatus handles GET /payment/transactions/:transaction_id/status
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	info, err := h.processor.GetStatus(c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Refund handles POST /payment/transactions/:transaction_id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req models.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.processor.Refund(c.Param("transaction_id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListTransactions handles GET /payment/transactions with optional
// status, payment_method, customer_email, from and to query filters.
// Date bounds are RFC 3339 timestamps.
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	var filter models.TransactionFilter
	if v := c.Query("status"); v != "" {
		status := models.TransactionStatus(v)
		filter.Status = &status
	}
	if v := c.Query("payment_method"); v != "" {
		method := models.PaymentMethod(v)
		filter.Method = &method
	}
	filter.CustomerEmail = c.Query("customer_email")
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from timestamp"})
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to timestamp"})
			return
		}
		filter.To = &t
	}

	c.JSON(http.StatusOK, h.processor.ListTransactions(filter))
}

// ClearAll handles DELETE /payment/transactions
func (h *PaymentHandler) ClearAll(c *gin.Context) {
	count := h.processor.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "transactions cleared", "count": count})
}

// Statistics handles GET /payment/statistics
func (h *PaymentHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.PaymentStatistics())
}
