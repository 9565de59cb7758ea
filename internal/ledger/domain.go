// Package ledger records payments against invoices and keeps the derived
// paid/outstanding amounts and payment status on the invoice consistent.
package ledger

import "time"

// Payment is one amount received against an invoice. Reference identifies the
// instrument (UTR, cheque number); a UUID is assigned when the caller leaves
// it blank so every row stays traceable.
type Payment struct {
	ID         int64     `json:"id" db:"id"`
	InvoiceID  int64     `json:"invoice_id" db:"invoice_id"`
	Amount     float64   `json:"amount" db:"amount"`
	Method     string    `json:"method" db:"method"`
	Reference  string    `json:"reference" db:"reference"`
	PaidAt     time.Time `json:"paid_at" db:"paid_at"`
	Notes      string    `json:"notes,omitempty" db:"notes"`
	RecordedBy int64     `json:"recorded_by" db:"recorded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
