package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bizsim/internal/apperr"
	"bizsim/internal/metrics"
	"bizsim/internal/models"
	"bizsim/internal/store"
)

const txnIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ProcessorService simulates a payment gateway: it authorizes or
// declines submitted payments and handles refunds against successful
// transactions. Declines are normal results, never call errors.
type ProcessorService struct {
	mu           sync.Mutex
	transactions *store.Collection[models.Transaction]
	refunds      *store.Collection[models.Refund]
	approval     ApprovalSource
	logger       *zap.Logger
}

func NewProcessorService(
	transactions *store.Collection[models.Transaction],
	refunds *store.Collection[models.Refund],
	approval ApprovalSource,
	logger *zap.Logger,
) *ProcessorService {
	return &ProcessorService{
		transactions: transactions,
		refunds:      refunds,
		approval:     approval,
		logger:       logger,
	}
}

// Process runs a payment through the simulated gateway. Validation
// failures produce a stored failed transaction, not an error; the state
// machine is pending -> processing -> success|failed within this call.
func (s *ProcessorService) Process(req *models.ChargeRequest) (models.Transaction, error) {
	now := time.Now()
	txn := models.Transaction{
		TransactionID:  generateTransactionID(),
		Amount:         quantize(req.Amount, req.Currency),
		Currency:       req.Currency,
		PaymentMethod:  req.PaymentMethod,
		Status:         models.TxnStatusPending,
		Description:    req.Description,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		CreatedAt:      now,
		UpdatedAt:      now,
		AmountRefunded: decimal.Zero,
	}

	if errs := validateCharge(req, now); len(errs) > 0 {
		txn.Status = models.TxnStatusFailed
		txn.FailureReason = strings.Join(errs, "; ")
		txn.UpdatedAt = time.Now()
		txn = s.transactions.Create(txn)

		metrics.TransactionsProcessed.WithLabelValues(string(txn.Status)).Inc()
		s.logger.Info("transaction rejected by validation",
			zap.String("transaction_id", txn.TransactionID),
			zap.String("failure_reason", txn.FailureReason))
		return txn, nil
	}

	txn.Status = models.TxnStatusProcessing

	decision := s.approval.Authorize(txn.Amount, txn.PaymentMethod)
	if decision.Approved {
		txn.Status = models.TxnStatusSuccess
	} else {
		txn.Status = models.TxnStatusFailed
		txn.FailureReason = decision.DeclineReason
	}
	txn.UpdatedAt = time.Now()
	txn = s.transactions.Create(txn)

	metrics.TransactionsProcessed.WithLabelValues(string(txn.Status)).Inc()
	s.logger.Info("transaction processed",
		zap.String("transaction_id", txn.TransactionID),
		zap.String("status", string(txn.Status)),
		zap.String("amount", txn.Amount.String()),
		zap.String("currency", string(txn.Currency)))
	return txn, nil
}

// Validate dry-runs the gateway validation without creating a
// transaction.
func (s *ProcessorService) Validate(req *models.ChargeRequest) models.ValidationResult {
	if errs := validateCharge(req, time.Now()); len(errs) > 0 {
		return models.ValidationResult{Valid: false, Errors: errs}
	}
	return models.ValidationResult{Valid: true, Message: "Payment details are valid"}
}

// Refund refunds part or all of a successful transaction. Successive
// partial refunds are allowed until the cumulative refunded amount
// reaches the original amount.
func (s *ProcessorService) Refund(transactionID string, req *models.RefundRequest) (models.RefundResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := s.findLocked(transactionID)
	if err != nil {
		return models.RefundResponse{}, err
	}

	if txn.Status != models.TxnStatusSuccess && txn.Status != models.TxnStatusRefunded {
		return models.RefundResponse{}, apperr.InvalidState("transaction",
			"cannot refund transaction with status: %s", txn.Status)
	}
	remaining := txn.RemainingRefundable()
	if !remaining.IsPositive() {
		return models.RefundResponse{}, apperr.InvalidState("transaction",
			"transaction %s is already fully refunded", transactionID)
	}

	amount := remaining
	if req.Amount != nil {
		amount = quantize(*req.Amount, txn.Currency)
		if !amount.IsPositive() {
			return models.RefundResponse{}, apperr.Validation("refund", "amount",
				"refund amount must be positive")
		}
		if amount.GreaterThan(remaining) {
			return models.RefundResponse{}, apperr.Validation("refund", "amount",
				"refund amount exceeds remaining refundable amount of %s", remaining.String())
		}
	}

	refund := s.refunds.Create(models.Refund{
		RefundID:      uuid.NewString(),
		TransactionID: transactionID,
		Amount:        amount,
		Reason:        req.Reason,
		CreatedAt:     time.Now(),
	})

	txn.AmountRefunded = txn.AmountRefunded.Add(amount)
	txn.Status = models.TxnStatusRefunded
	txn.UpdatedAt = time.Now()
	if err := s.transactions.Update(txn.ID, txn); err != nil {
		return models.RefundResponse{}, err
	}

	metrics.RefundsIssued.Inc()
	s.logger.Info("refund issued",
		zap.String("transaction_id", transactionID),
		zap.String("refund_id", refund.RefundID),
		zap.String("amount", amount.String()))

	return models.RefundResponse{
		TransactionID: transactionID,
		RefundID:      refund.RefundID,
		Amount:        amount,
		Status:        "completed",
		Message: fmt.Sprintf("Refund of %s %s processed successfully",
			amount.String(), txn.Currency),
	}, nil
}

func (s *ProcessorService) GetTransaction(transactionID string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(transactionID)
}

// GetStatus returns the current status view of a transaction. Pure
// read; repeated calls return identical results absent mutations.
func (s *ProcessorService) GetStatus(transactionID string) (models.TransactionStatusInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := s.findLocked(transactionID)
	if err != nil {
		return models.TransactionStatusInfo{}, err
	}
	return models.TransactionStatusInfo{
		TransactionID:  txn.TransactionID,
		Status:         txn.Status,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		FailureReason:  txn.FailureReason,
		AmountRefunded: txn.AmountRefunded,
		UpdatedAt:      txn.UpdatedAt,
	}, nil
}

// ListTransactions returns transactions matching the filter in
// creation order.
func (s *ProcessorService) ListTransactions(filter models.TransactionFilter) []models.Transaction {
	var out []models.Transaction
	for _, txn := range s.transactions.List() {
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		if filter.Method != nil && txn.PaymentMethod != *filter.Method {
			continue
		}
		if filter.CustomerEmail != "" && txn.CustomerEmail != filter.CustomerEmail {
			continue
		}
		if filter.From != nil && txn.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && txn.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

func (s *ProcessorService) ListRefunds() []models.Refund {
	return s.refunds.List()
}

// ClearAll empties the transaction and refund stores. ID sequences are
// not reset. Irreversible; intended for test resets.
func (s *ProcessorService) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.transactions.Clear()
	s.refunds.Clear()
	s.logger.Info("transaction store cleared", zap.Int("count", n))
	return n
}

// findLocked scans for a transaction by its external ID. Caller holds
// s.mu when the result will be mutated.
func (s *ProcessorService) findLocked(transactionID string) (models.Transaction, error) {
	for _, txn := range s.transactions.List() {
		if txn.TransactionID == transactionID {
			return txn, nil
		}
	}
	return models.Transaction{}, apperr.NotFound("transaction", transactionID)
}

// validateCharge applies the gateway's validation rules and returns the
// violated ones.
func validateCharge(req *models.ChargeRequest, now time.Time) []string {
	var errs []string

	if !req.Amount.IsPositive() {
		errs = append(errs, "Amount must be positive")
	}
	if !req.Currency.Valid() {
		errs = append(errs, "Unsupported currency")
	}
	if !req.PaymentMethod.Valid() {
		errs = append(errs, "Unsupported payment method")
	}

	if req.PaymentMethod.IsCard() {
		switch {
		case req.CardNumber == "":
			errs = append(errs, "Card number is required")
		case len(req.CardNumber) < 13 || len(req.CardNumber) > 19:
			errs = append(errs, "Invalid card number length")
		case !passesLuhn(req.CardNumber):
			errs = append(errs, "Card number failed checksum")
		}

		switch {
		case req.CVV == "":
			errs = append(errs, "CVV is required")
		case len(req.CVV) < 3 || len(req.CVV) > 4 || !allDigits(req.CVV):
			errs = append(errs, "Invalid CVV")
		}

		if req.CardHolderName == "" {
			errs = append(errs, "Card holder name is required")
		}

		if req.CardExpMonth != 0 || req.CardExpYear != 0 {
			if req.CardExpMonth < 1 || req.CardExpMonth > 12 {
				errs = append(errs, "Invalid card expiry month")
			} else if cardExpired(req.CardExpMonth, req.CardExpYear, now) {
				errs = append(errs, "Card has expired")
			}
		}
	}

	return errs
}

// quantize rounds an amount to the currency's precision. Unknown
// currencies fall back to two decimal places; validation rejects them
// separately.
func quantize(amount decimal.Decimal, currency models.Currency) decimal.Decimal {
	if !currency.Valid() {
		return amount.Round(2)
	}
	return amount.Round(currency.Exponent())
}

// generateTransactionID produces the externally visible 16-char
// uppercase alphanumeric transaction ID.
func generateTransactionID() string {
	b := make([]byte, 16)
	for i := range b {
		b[i] = txnIDCharset[rand.Intn(len(txnIDCharset))]
	}
	return string(b)
}
