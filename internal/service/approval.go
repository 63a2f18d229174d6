package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bizsim/internal/models"
)

// ApprovalDecision is the outcome of a simulated authorization attempt.
type ApprovalDecision struct {
	Approved      bool
	DeclineReason string
}

// ApprovalSource decides whether a validated payment is approved or
// declined. Implementations must be synchronous and bounded; the
// processor calls Authorize inline while holding its lock.
type ApprovalSource interface {
	Authorize(amount decimal.Decimal, method models.PaymentMethod) ApprovalDecision
}

// ApprovalFunc adapts a function to the ApprovalSource interface.
type ApprovalFunc func(amount decimal.Decimal, method models.PaymentMethod) ApprovalDecision

func (f ApprovalFunc) Authorize(amount decimal.Decimal, method models.PaymentMethod) ApprovalDecision {
	return f(amount, method)
}

// Approve is an ApprovalSource that approves everything.
var Approve = ApprovalFunc(func(decimal.Decimal, models.PaymentMethod) ApprovalDecision {
	return ApprovalDecision{Approved: true}
})

// Decline is an ApprovalSource that declines everything.
var Decline = ApprovalFunc(func(decimal.Decimal, models.PaymentMethod) ApprovalDecision {
	return ApprovalDecision{Approved: false, DeclineReason: "Payment declined by issuing bank"}
})

var declineReasons = []string{
	"Insufficient funds",
	"Card declined",
	"Invalid card details",
	"Payment gateway timeout",
	"Bank authorization failed",
}

type randomApproval struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

// NewRandomApproval returns the production approval source: approves
// with the given probability and declines the rest with a simulated
// bank reason.
func NewRandomApproval(rate float64) ApprovalSource {
	return &randomApproval{
		rate: rate,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *randomApproval) Authorize(decimal.Decimal, models.PaymentMethod) ApprovalDecision {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rng.Float64() < a.rate {
		return ApprovalDecision{Approved: true}
	}
	return ApprovalDecision{
		Approved:      false,
		DeclineReason: declineReasons[a.rng.Intn(len(declineReasons))],
	}
}
