package service

import (
	"regexp"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bizsim/internal/apperr"
	"bizsim/internal/metrics"
	"bizsim/internal/models"
	"bizsim/internal/store"
)

// erpScale is the decimal precision used for ERP amounts. The ledger is
// currency-agnostic and keeps two decimal places throughout.
const erpScale = 2

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LedgerService tracks customers, invoices and the payments recorded
// against them. All mutations on a single ledger are serialized so a
// payment insert and the invoice recompute it triggers appear atomic.
type LedgerService struct {
	mu        sync.Mutex
	customers *store.Collection[models.Customer]
	invoices  *store.Collection[models.Invoice]
	payments  *store.Collection[models.LedgerPayment]
	logger    *zap.Logger
}

func NewLedgerService(
	customers *store.Collection[models.Customer],
	invoices *store.Collection[models.Invoice],
	payments *store.Collection[models.LedgerPayment],
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		customers: customers,
		invoices:  invoices,
		payments:  payments,
		logger:    logger,
	}
}

// Customers

func (s *LedgerService) CreateCustomer(req *models.CustomerRequest) (models.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return models.Customer{}, err
	}

	customer := s.customers.Create(models.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Company:   req.Company,
		CreatedAt: time.Now(),
	})

	s.logger.Info("customer created",
		zap.Int("customer_id", customer.ID),
		zap.String("name", customer.Name))
	return customer, nil
}

func (s *LedgerService) GetCustomer(id int) (models.Customer, error) {
	return s.customers.Get(id)
}

func (s *LedgerService) ListCustomers() []models.Customer {
	return s.customers.List()
}

// UpdateCustomer replaces every mutable field; id and created_at are
// preserved.
func (s *LedgerService) UpdateCustomer(id int, req *models.CustomerRequest) (models.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return models.Customer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.customers.Get(id)
	if err != nil {
		return models.Customer{}, err
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.Company = req.Company

	if err := s.customers.Update(id, existing); err != nil {
		return models.Customer{}, err
	}
	return existing, nil
}

// DeleteCustomer removes the customer. Invoices referencing it are left
// in place with a dangling customer_id; the reference is reported when
// such an invoice is read.
func (s *LedgerService) DeleteCustomer(id int) error {
	return s.customers.Delete(id)
}

func validateCustomer(req *models.CustomerRequest) error {
	if req.Name == "" {
		return apperr.Validation("customer", "name", "name is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return apperr.Validation("customer", "email", "invalid email format")
	}
	return nil
}

// Invoices

func (s *LedgerService) CreateInvoice(req *models.InvoiceRequest) (models.Invoice, error) {
	if !req.InvoiceType.Valid() {
		return models.Invoice{}, apperr.Validation("invoice", "invoice_type",
			"must be vendor or supplier")
	}
	amount := req.Amount.Round(erpScale)
	if !amount.IsPositive() {
		return models.Invoice{}, apperr.Validation("invoice", "amount",
			"amount must be positive")
	}
	if _, err := s.customers.Get(req.CustomerID); err != nil {
		return models.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	invoice := models.Invoice{
		CustomerID:         req.CustomerID,
		InvoiceType:        req.InvoiceType,
		Amount:             amount,
		AmountPaid:         decimal.Zero,
		AmountOutstanding:  amount,
		DueDate:            req.DueDate,
		Description:        req.Description,
		VendorSupplierName: req.VendorSupplierName,
		CreatedAt:          time.Now(),
	}
	invoice.Status = deriveStatus(invoice, time.Now())
	invoice = s.invoices.Create(invoice)

	metrics.InvoicesCreated.Inc()
	s.logger.Info("invoice created",
		zap.Int("invoice_id", invoice.ID),
		zap.Int("customer_id", invoice.CustomerID),
		zap.String("amount", invoice.Amount.String()))
	return invoice, nil
}

func (s *LedgerService) GetInvoice(id int) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshInvoiceLocked(id, time.Now())
}

// ListInvoices returns invoices matching the filter, statuses refreshed
// against the current clock.
func (s *LedgerService) ListInvoices(filter models.InvoiceFilter) []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var out []models.Invoice
	for _, inv := range s.invoices.List() {
		inv = s.refreshStatusLocked(inv, now)
		if filter.CustomerID != nil && inv.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && inv.InvoiceType != *filter.Type {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// ListOutstanding returns invoices still awaiting money: outstanding,
// partially paid or overdue. Recomputed on every call.
func (s *LedgerService) ListOutstanding() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var out []models.Invoice
	for _, inv := range s.invoices.List() {
		inv = s.refreshStatusLocked(inv, now)
		switch inv.Status {
		case models.InvoiceStatusOutstanding, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusOverdue:
			out = append(out, inv)
		}
	}
	return out
}

// CancelInvoice marks the invoice cancelled. Paid invoices cannot be
// cancelled, and cancellation is final.
func (s *LedgerService) CancelInvoice(id int) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, err := s.refreshInvoiceLocked(id, time.Now())
	if err != nil {
		return models.Invoice{}, err
	}
	switch invoice.Status {
	case models.InvoiceStatusCancelled:
		return models.Invoice{}, apperr.InvalidState("invoice", "invoice %d is already cancelled", id)
	case models.InvoiceStatusPaid:
		return models.Invoice{}, apperr.InvalidState("invoice", "invoice %d is already paid", id)
	}

	invoice.Status = models.InvoiceStatusCancelled
	if err := s.invoices.Update(id, invoice); err != nil {
		return models.Invoice{}, err
	}

	s.logger.Info("invoice cancelled", zap.Int("invoice_id", id))
	return invoice, nil
}

// DeleteInvoice removes the invoice. Payments already recorded against
// it are kept and become orphaned references; the ledger does not
// repair them.
func (s *LedgerService) DeleteInvoice(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices.Delete(id)
}

// Payments

// RecordPayment records a payment against an invoice and recomputes the
// invoice's balance and status in the same step.
func (s *LedgerService) RecordPayment(req *models.LedgerPaymentRequest) (models.RecordPaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	invoice, err := s.refreshInvoiceLocked(req.InvoiceID, now)
	if err != nil {
		return models.RecordPaymentResult{}, err
	}
	if invoice.Status == models.InvoiceStatusCancelled {
		return models.RecordPaymentResult{}, apperr.InvalidState("invoice",
			"cannot record payment against cancelled invoice %d", req.InvoiceID)
	}

	amount := req.Amount.Round(erpScale)
	if !amount.IsPositive() {
		return models.RecordPaymentResult{}, apperr.Validation("payment", "amount",
			"payment amount must be positive")
	}
	if amount.GreaterThan(invoice.AmountOutstanding) {
		return models.RecordPaymentResult{}, apperr.Validation("payment", "amount",
			"payment amount exceeds outstanding amount of %s", invoice.AmountOutstanding.String())
	}

	payment := s.payments.Create(models.LedgerPayment{
		InvoiceID:     req.InvoiceID,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Status:        models.LedgerPaymentCompleted,
		CreatedAt:     now,
	})

	invoice.AmountPaid = invoice.AmountPaid.Add(amount)
	invoice.AmountOutstanding = invoice.Amount.Sub(invoice.AmountPaid)
	invoice.Status = deriveStatus(invoice, now)
	if err := s.invoices.Update(invoice.ID, invoice); err != nil {
		return models.RecordPaymentResult{}, err
	}

	metrics.LedgerPaymentsRecorded.Inc()
	s.logger.Info("payment recorded",
		zap.Int("payment_id", payment.ID),
		zap.Int("invoice_id", invoice.ID),
		zap.String("amount", amount.String()),
		zap.String("invoice_status", string(invoice.Status)))

	return models.RecordPaymentResult{Payment: payment, Invoice: invoice}, nil
}

func (s *LedgerService) GetPayment(id int) (models.LedgerPayment, error) {
	return s.payments.Get(id)
}

func (s *LedgerService) ListPayments(invoiceID *int) []models.LedgerPayment {
	all := s.payments.List()
	if invoiceID == nil {
		return all
	}
	var out []models.LedgerPayment
	for _, p := range all {
		if p.InvoiceID == *invoiceID {
			out = append(out, p)
		}
	}
	return out
}

// refreshInvoiceLocked reads an invoice and refreshes its derived
// status before returning it. Caller holds s.mu.
func (s *LedgerService) refreshInvoiceLocked(id int, now time.Time) (models.Invoice, error) {
	invoice, err := s.invoices.Get(id)
	if err != nil {
		return models.Invoice{}, err
	}
	invoice = s.refreshStatusLocked(invoice, now)

	if _, err := s.customers.Get(invoice.CustomerID); err != nil {
		// Deleted customers leave dangling references; tolerated, but
		// surfaced in the log on every lookup.
		s.logger.Warn("invoice references missing customer",
			zap.Int("invoice_id", invoice.ID),
			zap.Int("customer_id", invoice.CustomerID))
	}
	return invoice, nil
}

// refreshStatusLocked re-derives the status and writes it back when it
// drifted (an invoice turning overdue as time passes). Caller holds s.mu.
func (s *LedgerService) refreshStatusLocked(inv models.Invoice, now time.Time) models.Invoice {
	derived := deriveStatus(inv, now)
	if derived == inv.Status {
		return inv
	}
	inv.Status = derived
	if err := s.invoices.Update(inv.ID, inv); err != nil {
		s.logger.Error("failed to refresh invoice status", zap.Error(err),
			zap.Int("invoice_id", inv.ID))
	}
	return inv
}

// deriveStatus computes the invoice status from its balance, due date
// and cancellation flag. The stored status is a cache of this function.
func deriveStatus(inv models.Invoice, now time.Time) models.InvoiceStatus {
	if inv.Status == models.InvoiceStatusCancelled {
		return models.InvoiceStatusCancelled
	}
	if inv.AmountOutstanding.IsZero() {
		return models.InvoiceStatusPaid
	}
	if dueDatePassed(inv.DueDate, now) {
		return models.InvoiceStatusOverdue
	}
	if inv.AmountPaid.IsPositive() {
		return models.InvoiceStatusPartiallyPaid
	}
	return models.InvoiceStatusOutstanding
}

// dueDatePassed compares calendar days: an invoice due today is not yet
// overdue.
func dueDatePassed(due, now time.Time) bool {
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return dueDay.Before(today)
}
