package docstate

import "time"

// PaymentStatus derives the invoice status from payment state. This is the
// only place payment-driven statuses are computed; the ledger and the overdue
// sweep both call it.
func PaymentStatus(totalWithGST, paidAmount float64, dueDate, now time.Time) InvoiceStatus {
	outstanding := totalWithGST - paidAmount
	switch {
	case outstanding <= 0:
		return InvoiceFullyPaid
	case now.After(dueDate):
		return InvoiceOverdue
	case paidAmount > 0:
		return InvoicePartiallyPaid
	default:
		return InvoiceIssued
	}
}
