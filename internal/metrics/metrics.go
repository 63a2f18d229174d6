// Package metrics exposes the prometheus collectors shared by the
// simulated services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizsim_transactions_processed_total",
		Help: "Gateway transactions processed, by final status",
	}, []string{"status"})

	RefundsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizsim_refunds_issued_total",
		Help: "Gateway refunds issued",
	})

	LedgerPaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizsim_ledger_payments_recorded_total",
		Help: "Payments recorded against ERP invoices",
	})

	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizsim_invoices_created_total",
		Help: "ERP invoices created",
	})

	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizsim_emails_sent_total",
		Help: "Emails accepted by the mail collaborator",
	})
)
