package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string
type PaymentMethod string
type TransactionStatus string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyJPY Currency = "JPY"

	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodUPI          PaymentMethod = "upi"
	MethodWallet       PaymentMethod = "wallet"
	MethodPayPal       PaymentMethod = "paypal"

	TxnStatusPending    TransactionStatus = "pending"
	TxnStatusProcessing TransactionStatus = "processing"
	TxnStatusSuccess    TransactionStatus = "success"
	TxnStatusFailed     TransactionStatus = "failed"
	TxnStatusRefunded   TransactionStatus = "refunded"
)

// currencyExponents holds the number of decimal places each supported
// currency carries. JPY has no minor unit.
var currencyExponents = map[Currency]int32{
	CurrencyUSD: 2,
	CurrencyEUR: 2,
	CurrencyGBP: 2,
	CurrencyINR: 2,
	CurrencyJPY: 0,
}

func (c Currency) Valid() bool {
	_, ok := currencyExponents[c]
	return ok
}

// Exponent returns the currency's decimal precision.
func (c Currency) Exponent() int32 {
	return currencyExponents[c]
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer,
		MethodUPI, MethodWallet, MethodPayPal:
		return true
	}
	return false
}

// IsCard reports whether the method requires card details.
func (m PaymentMethod) IsCard() bool {
	return m == MethodCreditCard || m == MethodDebitCard
}

type Transaction struct {
	TransactionID  string            `json:"transaction_id"`
	ID             int               `json:"id"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       Currency          `json:"currency"`
	PaymentMethod  PaymentMethod     `json:"payment_method"`
	Status         TransactionStatus `json:"status"`
	Description    string            `json:"description"`
	CustomerEmail  string            `json:"customer_email"`
	CustomerName   string            `json:"customer_name"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	AmountRefunded decimal.Decimal   `json:"amount_refunded"`
}

func (t Transaction) WithID(id int) Transaction {
	t.ID = id
	return t
}

// RemainingRefundable is the portion of a transaction not yet refunded.
func (t Transaction) RemainingRefundable() decimal.Decimal {
	return t.Amount.Sub(t.AmountRefunded)
}

type ChargeRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency" binding:"required"`
	PaymentMethod  PaymentMethod   `json:"payment_method" binding:"required"`
	CardNumber     string          `json:"card_number,omitempty"`
	CardHolderName string          `json:"card_holder_name,omitempty"`
	CVV            string          `json:"cvv,omitempty"`
	CardExpMonth   int             `json:"card_exp_month,omitempty"`
	CardExpYear    int             `json:"card_exp_year,omitempty"`
	Description    string          `json:"description"`
	CustomerEmail  string          `json:"customer_email" binding:"required"`
	CustomerName   string          `json:"customer_name" binding:"required"`
}

type Refund struct {
	ID            int             `json:"id"`
	RefundID      string          `json:"refund_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (r Refund) WithID(id int) Refund {
	r.ID = id
	return r
}

type RefundRequest struct {
	// Amount is the partial refund amount; nil means refund the full
	// remaining balance.
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason"`
}

type RefundResponse struct {
	TransactionID string          `json:"transaction_id"`
	RefundID      string          `json:"refund_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Message       string          `json:"message"`
}

// TransactionStatusInfo is the read-only status view of a transaction.
type TransactionStatusInfo struct {
	TransactionID  string            `json:"transaction_id"`
	Status         TransactionStatus `json:"status"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       Currency          `json:"currency"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	AmountRefunded decimal.Decimal   `json:"amount_refunded"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// TransactionFilter narrows ListTransactions. Nil/empty fields match
// everything; set fields are AND-combined.
type TransactionFilter struct {
	Status        *TransactionStatus
	Method        *PaymentMethod
	CustomerEmail string
	From          *time.Time
	To            *time.Time
}

type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`
}

type PaymentStatistics struct {
	TotalTransactions    int             `json:"total_transactions"`
	SuccessfulCount      int             `json:"successful_count"`
	FailedCount          int             `json:"failed_count"`
	RefundedCount        int             `json:"refunded_count"`
	SuccessRate          float64         `json:"success_rate"`
	TotalAmountProcessed decimal.Decimal `json:"total_amount_processed"`
	TotalAmountRefunded  decimal.Decimal `json:"total_amount_refunded"`
}
