package ledger

import "time"

// RecordPaymentRequest is the payload for POST /invoices/{id}/payments.
type RecordPaymentRequest struct {
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	Method    string    `json:"method" validate:"required,oneof=cash cheque upi neft rtgs imps card"`
	Reference string    `json:"reference" validate:"max=64"`
	PaidAt    time.Time `json:"paid_at"`
	Notes     string    `json:"notes" validate:"max=500"`
}
