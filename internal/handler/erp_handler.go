package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bizsim/internal/models"
	"bizsim/internal/service"
)

// ERPHandler exposes the invoice ledger: customers, invoices, payments
// and the ERP statistics view.
type ERPHandler struct {
	ledger *service.LedgerService
	stats  *service.StatsService
	logger *zap.Logger
}

func NewERPHandler(ledger *service.LedgerService, stats *service.StatsService, logger *zap.Logger) *ERPHandler {
	return &ERPHandler{ledger: ledger, stats: stats, logger: logger}
}

// Customers

// CreateCustomer handles POST /erp/customers
func (h *ERPHandler) CreateCustomer(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.ledger.CreateCustomer(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /erp/customers/:id
func (h *ERPHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := h.ledger.GetCustomer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /erp/customers
func (h *ERPHandler) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.ListCustomers())
}

// UpdateCustomer handles PUT /erp/customers/:id
func (h *ERPHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.ledger.UpdateCustomer(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /erp/customers/:id
func (h *ERPHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteCustomer(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// Invoices

// CreateInvoice handles POST /erp/invoices
func (h *ERPHandler) CreateInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.ledger.CreateInvoice(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /erp/invoices/:id
func (h *ERPHandler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	invoice, err := h.ledger.GetInvoice(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// ListInvoices handles GET /erp/invoices with optional customer_id,
// status and invoice_type query filters.
func (h *ERPHandler) ListInvoices(c *gin.Context) {
	var filter models.InvoiceFilter
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		filter.CustomerID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.InvoiceStatus(v)
		filter.Status = &status
	}
	if v := c.Query("invoice_type"); v != "" {
		invType := models.InvoiceType(v)
		filter.Type = &invType
	}

	c.JSON(http.StatusOK, h.ledger.ListInvoices(filter))
}

// ListOutstanding handles GET /erp/outstanding-invoices
func (h *ERPHandler) ListOutstanding(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.ListOutstanding())
}

// CancelInvoice handles POST /erp/invoices/:id/cancel
func (h *ERPHandler) CancelInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	invoice, err := h.ledger.CancelInvoice(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /erp/invoices/:id
func (h *ERPHandler) DeleteInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteInvoice(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// Payments

// RecordPayment handles POST /erp/payments
func (h *ERPHandler) RecordPayment(c *gin.Context) {
	var req models.LedgerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ledger.RecordPayment(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetPayment handles GET /erp/payments/:id
func (h *ERPHandler) GetPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payment, err := h.ledger.GetPayment(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListPayments handles GET /erp/payments with an optional invoice_id
// filter.
func (h *ERPHandler) ListPayments(c *gin.Context) {
	var invoiceID *int
	if v := c.Query("invoice_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice_id"})
			return
		}
		invoiceID = &id
	}
	c.JSON(http.StatusOK, h.ledger.ListPayments(invoiceID))
}

// Statistics handles GET /erp/statistics
func (h *ERPHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.ERPStatistics())
}

// pathID parses the :id path segment, writing a 400 on failure.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
