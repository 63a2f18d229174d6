package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bizsim/internal/apperr"
	"bizsim/internal/models"
	"bizsim/internal/store"
)

func newTestProcessor(t *testing.T, approval ApprovalSource) *ProcessorService {
	t.Helper()
	return NewProcessorService(
		store.NewCollection[models.Transaction]("transaction"),
		store.NewCollection[models.Refund]("refund"),
		approval,
		zap.NewNop(),
	)
}

func validCharge() *models.ChargeRequest {
	return &models.ChargeRequest{
		Amount:         decimal.RequireFromString("100.00"),
		Currency:       models.CurrencyUSD,
		PaymentMethod:  models.MethodCreditCard,
		CardNumber:     "4242424242424242",
		CardHolderName: "Jane Doe",
		CVV:            "123",
		Description:    "test charge",
		CustomerEmail:  "jane@example.test",
		CustomerName:   "Jane Doe",
	}
}

func TestProcessApproved(t *testing.T) {
	p := newTestProcessor(t, Approve)

	txn, err := p.Process(validCharge())
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusSuccess, txn.Status)
	assert.Empty(t, txn.FailureReason)
	assert.Len(t, txn.TransactionID, 16)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("100.00")))
}

func TestProcessDeclinedIsNotAnError(t *testing.T) {
	p := newTestProcessor(t, Decline)

	txn, err := p.Process(validCharge())
	require.NoError(t, err, "a business decline is a normal result")
	assert.Equal(t, models.TxnStatusFailed, txn.Status)
	assert.NotEmpty(t, txn.FailureReason)
}

// An invalid card produces a stored failed transaction, not an error.
func TestProcessInvalidCardFailsTransaction(t *testing.T) {
	p := newTestProcessor(t, Approve)

	req := validCharge()
	req.CardNumber = "1234567890123456" // fails checksum

	txn, err := p.Process(req)
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusFailed, txn.Status)
	assert.Contains(t, txn.FailureReason, "checksum")

	// The failed attempt is kept.
	stored, err := p.GetTransaction(txn.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusFailed, stored.Status)
}

func TestProcessValidationRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ChargeRequest)
		reason string
	}{
		{
			name:   "non-positive amount",
			mutate: func(r *models.ChargeRequest) { r.Amount = decimal.Zero },
			reason: "Amount must be positive",
		},
		{
			name:   "unknown currency",
			mutate: func(r *models.ChargeRequest) { r.Currency = "XXX" },
			reason: "Unsupported currency",
		},
		{
			name:   "unknown method",
			mutate: func(r *models.ChargeRequest) { r.PaymentMethod = "cheque" },
			reason: "Unsupported payment method",
		},
		{
			name:   "missing card number",
			mutate: func(r *models.ChargeRequest) { r.CardNumber = "" },
			reason: "Card number is required",
		},
		{
			name:   "card number too short",
			mutate: func(r *models.ChargeRequest) { r.CardNumber = "424242424242" },
			reason: "Invalid card number length",
		},
		{
			name:   "bad cvv",
			mutate: func(r *models.ChargeRequest) { r.CVV = "12" },
			reason: "Invalid CVV",
		},
		{
			name:   "missing holder name",
			mutate: func(r *models.ChargeRequest) { r.CardHolderName = "" },
			reason: "Card holder name is required",
		},
		{
			name: "expired card",
			mutate: func(r *models.ChargeRequest) {
				r.CardExpMonth = 1
				r.CardExpYear = 2020
			},
			reason: "Card has expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t, Approve)
			req := validCharge()
			tt.mutate(req)

			txn, err := p.Process(req)
			require.NoError(t, err)
			assert.Equal(t, models.TxnStatusFailed, txn.Status)
			assert.Contains(t, txn.FailureReason, tt.reason)
		})
	}
}

func TestProcessNonCardMethodSkipsCardChecks(t *testing.T) {
	p := newTestProcessor(t, Approve)

	req := validCharge()
	req.PaymentMethod = models.MethodUPI
	req.CardNumber = ""
	req.CVV = ""
	req.CardHolderName = ""

	txn, err := p.Process(req)
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusSuccess, txn.Status)
}

func TestProcessQuantizesPerCurrency(t *testing.T) {
	p := newTestProcessor(t, Approve)

	req := validCharge()
	req.Currency = models.CurrencyJPY
	req.Amount = decimal.RequireFromString("1000.4")

	txn, err := p.Process(req)
	require.NoError(t, err)
	assert.Equal(t, "1000", txn.Amount.String(), "JPY carries no minor unit")
}

// Partial refunds accumulate; exceeding the remainder is a validation
// error.
func TestRefundPartialThenExceeding(t *testing.T) {
	p := newTestProcessor(t, Approve)
	txn, err := p.Process(validCharge())
	require.NoError(t, err)

	forty := decimal.RequireFromString("40.00")
	resp, err := p.Refund(txn.TransactionID, &models.RefundRequest{Amount: &forty, Reason: "damaged goods"})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(forty))
	assert.NotEmpty(t, resp.RefundID)

	status, err := p.GetStatus(txn.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusRefunded, status.Status)
	assert.True(t, status.AmountRefunded.Equal(forty))

	seventy := decimal.RequireFromString("70.00")
	_, err = p.Refund(txn.TransactionID, &models.RefundRequest{Amount: &seventy})
	assert.True(t, apperr.IsValidation(err), "70.00 exceeds the remaining 60.00")
}

func TestRefundFullByOmission(t *testing.T) {
	p := newTestProcessor(t, Approve)
	txn, err := p.Process(validCharge())
	require.NoError(t, err)

	resp, err := p.Refund(txn.TransactionID, &models.RefundRequest{Reason: "order cancelled"})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(txn.Amount))

	// Fully refunded: any further attempt is an invalid-state error.
	_, err = p.Refund(txn.TransactionID, &models.RefundRequest{})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestRefundSuccessivePartialsUntilExhausted(t *testing.T) {
	p := newTestProcessor(t, Approve)
	txn, err := p.Process(validCharge())
	require.NoError(t, err)

	thirty := decimal.RequireFromString("30.00")
	for i := 0; i < 3; i++ {
		_, err := p.Refund(txn.TransactionID, &models.RefundRequest{Amount: &thirty})
		require.NoError(t, err, "partial refund %d", i+1)
	}

	status, err := p.GetStatus(txn.TransactionID)
	require.NoError(t, err)
	assert.True(t, status.AmountRefunded.Equal(decimal.RequireFromString("90.00")))

	// Only 10.00 remains; omitted amount refunds exactly that.
	resp, err := p.Refund(txn.TransactionID, &models.RefundRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("10.00")))

	_, err = p.Refund(txn.TransactionID, &models.RefundRequest{})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestRefundErrors(t *testing.T) {
	p := newTestProcessor(t, Decline)

	_, err := p.Refund("NOSUCHTRANSACTION", &models.RefundRequest{})
	assert.True(t, apperr.IsNotFound(err))

	failed, err := p.Process(validCharge())
	require.NoError(t, err)
	require.Equal(t, models.TxnStatusFailed, failed.Status)

	_, err = p.Refund(failed.TransactionID, &models.RefundRequest{})
	assert.True(t, apperr.IsInvalidState(err), "failed transactions can never be refunded")
}

func TestGetStatusIsIdempotent(t *testing.T) {
	p := newTestProcessor(t, Approve)
	txn, err := p.Process(validCharge())
	require.NoError(t, err)

	first, err := p.GetStatus(txn.TransactionID)
	require.NoError(t, err)
	second, err := p.GetStatus(txn.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = p.GetStatus("MISSING0MISSING0")
	assert.True(t, apperr.IsNotFound(err))
}

func TestListTransactionsFilters(t *testing.T) {
	p := newTestProcessor(t, Approve)

	success, err := p.Process(validCharge())
	require.NoError(t, err)

	badCard := validCharge()
	badCard.CardNumber = "1234567890123456"
	failed, err := p.Process(badCard)
	require.NoError(t, err)

	upi := validCharge()
	upi.PaymentMethod = models.MethodUPI
	upi.CustomerEmail = "other@example.test"
	_, err = p.Process(upi)
	require.NoError(t, err)

	assert.Len(t, p.ListTransactions(models.TransactionFilter{}), 3)

	st := models.TxnStatusFailed
	byStatus := p.ListTransactions(models.TransactionFilter{Status: &st})
	require.Len(t, byStatus, 1)
	assert.Equal(t, failed.TransactionID, byStatus[0].TransactionID)

	method := models.MethodCreditCard
	assert.Len(t, p.ListTransactions(models.TransactionFilter{Method: &method}), 2)

	assert.Len(t, p.ListTransactions(models.TransactionFilter{CustomerEmail: "other@example.test"}), 1)

	// Filters are AND-combined.
	okStatus := models.TxnStatusSuccess
	both := p.ListTransactions(models.TransactionFilter{Status: &okStatus, Method: &method})
	require.Len(t, both, 1)
	assert.Equal(t, success.TransactionID, both[0].TransactionID)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	assert.Len(t, p.ListTransactions(models.TransactionFilter{From: &past, To: &future}), 3)
	assert.Empty(t, p.ListTransactions(models.TransactionFilter{To: &past}))
}

func TestValidateDryRun(t *testing.T) {
	p := newTestProcessor(t, Approve)

	result := p.Validate(validCharge())
	assert.True(t, result.Valid)

	bad := validCharge()
	bad.CVV = ""
	bad.Amount = decimal.Zero
	result = p.Validate(bad)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "CVV is required")
	assert.Contains(t, result.Errors, "Amount must be positive")

	// A dry run never creates transactions.
	assert.Empty(t, p.ListTransactions(models.TransactionFilter{}))
}

func TestClearAll(t *testing.T) {
	p := newTestProcessor(t, Approve)
	txn, err := p.Process(validCharge())
	require.NoError(t, err)
	_, err = p.Refund(txn.TransactionID, &models.RefundRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, p.ClearAll())
	assert.Empty(t, p.ListTransactions(models.TransactionFilter{}))
	assert.Empty(t, p.ListRefunds())

	_, err = p.GetStatus(txn.TransactionID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRandomApprovalRates(t *testing.T) {
	always := NewRandomApproval(1.0)
	for i := 0; i < 50; i++ {
		require.True(t, always.Authorize(decimal.New(1, 0), models.MethodUPI).Approved)
	}

	never := NewRandomApproval(0.0)
	for i := 0; i < 50; i++ {
		decision := never.Authorize(decimal.New(1, 0), models.MethodUPI)
		require.False(t, decision.Approved)
		require.NotEmpty(t, decision.DeclineReason)
	}
}
