package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string
type InvoiceType string
type LedgerPaymentStatus string

const (
	InvoiceStatusOutstanding   InvoiceStatus = "outstanding"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"

	InvoiceTypeVendor   InvoiceType = "vendor"
	InvoiceTypeSupplier InvoiceType = "supplier"

	// Ledger payments are recorded only after acceptance, so completed is
	// the only status they ever carry.
	LedgerPaymentCompleted LedgerPaymentStatus = "completed"
)

func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeVendor || t == InvoiceTypeSupplier
}

type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Customer) WithID(id int) Customer {
	c.ID = id
	return c
}

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

type Invoice struct {
	ID                 int             `json:"id"`
	CustomerID         int             `json:"customer_id"`
	InvoiceType        InvoiceType     `json:"invoice_type"`
	Amount             decimal.Decimal `json:"amount"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	AmountOutstanding  decimal.Decimal `json:"amount_outstanding"`
	DueDate            time.Time       `json:"due_date"`
	Description        string          `json:"description"`
	VendorSupplierName string          `json:"vendor_supplier_name"`
	Status             InvoiceStatus   `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (i Invoice) WithID(id int) Invoice {
	i.ID = id
	return i
}

type InvoiceRequest struct {
	CustomerID         int             `json:"customer_id" binding:"required"`
	InvoiceType        InvoiceType     `json:"invoice_type" binding:"required"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            time.Time       `json:"due_date" binding:"required"`
	Description        string          `json:"description"`
	VendorSupplierName string          `json:"vendor_supplier_name"`
}

// InvoiceFilter narrows ListInvoices. Nil fields match everything;
// set fields are AND-combined.
type InvoiceFilter struct {
	CustomerID *int
	Status     *InvoiceStatus
	Type       *InvoiceType
}

type LedgerPayment struct {
	ID            int                 `json:"id"`
	InvoiceID     int                 `json:"invoice_id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod string              `json:"payment_method"`
	Notes         string              `json:"notes,omitempty"`
	Status        LedgerPaymentStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}

func (p LedgerPayment) WithID(id int) LedgerPayment {
	p.ID = id
	return p
}

type LedgerPaymentRequest struct {
	InvoiceID     int             `json:"invoice_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Notes         string          `json:"notes"`
}

// RecordPaymentResult pairs the created payment with the invoice state
// it produced, so callers never observe one without the other.
type RecordPaymentResult struct {
	Payment LedgerPayment `json:"payment"`
	Invoice Invoice       `json:"invoice"`
}

type ERPStatistics struct {
	TotalCustomers          int                   `json:"total_customers"`
	TotalInvoices           int                   `json:"total_invoices"`
	TotalPayments           int                   `json:"total_payments"`
	OutstandingInvoiceCount int                   `json:"outstanding_invoices_count"`
	TotalOutstandingAmount  decimal.Decimal       `json:"total_outstanding_amount"`
	TotalPaidAmount         decimal.Decimal       `json:"total_paid_amount"`
	InvoicesByStatus        map[InvoiceStatus]int `json:"invoices_by_status"`
}
