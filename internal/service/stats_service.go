package service

import (
	"github.com/shopspring/decimal"

	"bizsim/internal/models"
)

// StatsService computes read-only summaries over the ledger and the
// processor. It holds no state of its own; every call recomputes from
// the current store contents and never mutates them.
type StatsService struct {
	ledger    *LedgerService
	processor *ProcessorService
}

func NewStatsService(ledger *LedgerService, processor *ProcessorService) *StatsService {
	return &StatsService{ledger: ledger, processor: processor}
}

func (s *StatsService) ERPStatistics() models.ERPStatistics {
	invoices := s.ledger.ListInvoices(models.InvoiceFilter{})

	stats := models.ERPStatistics{
		TotalCustomers:         len(s.ledger.ListCustomers()),
		TotalInvoices:          len(invoices),
		TotalPayments:          len(s.ledger.ListPayments(nil)),
		TotalOutstandingAmount: decimal.Zero,
		TotalPaidAmount:        decimal.Zero,
		InvoicesByStatus:       make(map[models.InvoiceStatus]int),
	}

	for _, inv := range invoices {
		stats.InvoicesByStatus[inv.Status]++
		stats.TotalPaidAmount = stats.TotalPaidAmount.Add(inv.AmountPaid)

		switch inv.Status {
		case models.InvoiceStatusOutstanding, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusOverdue:
			stats.OutstandingInvoiceCount++
		}
		// Cancelled invoices no longer count toward money owed.
		if inv.Status != models.InvoiceStatusCancelled {
			stats.TotalOutstandingAmount = stats.TotalOutstandingAmount.Add(inv.AmountOutstanding)
		}
	}
	return stats
}

func (s *StatsService) PaymentStatistics() models.PaymentStatistics {
	transactions := s.processor.ListTransactions(models.TransactionFilter{})

	stats := models.PaymentStatistics{
		TotalTransactions:    len(transactions),
		TotalAmountProcessed: decimal.Zero,
		TotalAmountRefunded:  decimal.Zero,
	}

	for _, txn := range transactions {
		switch txn.Status {
		case models.TxnStatusSuccess:
			stats.SuccessfulCount++
			stats.TotalAmountProcessed = stats.TotalAmountProcessed.Add(txn.Amount)
		case models.TxnStatusFailed:
			stats.FailedCount++
		case models.TxnStatusRefunded:
			stats.RefundedCount++
		}
	}

	for _, refund := range s.processor.ListRefunds() {
		stats.TotalAmountRefunded = stats.TotalAmountRefunded.Add(refund.Amount)
	}

	if denom := stats.SuccessfulCount + stats.FailedCount; denom > 0 {
		stats.SuccessRate = float64(stats.SuccessfulCount) / float64(denom)
	}
	return stats
}
