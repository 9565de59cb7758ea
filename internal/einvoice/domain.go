// Package einvoice integrates with the government GST e-invoicing portal:
// authentication, IRN generation, cancellation and reconciliation lookups.
package einvoice

import "time"

// IRNRecord is the append-only audit row kept for every successful portal
// registration. The signed payload and QR code are stored verbatim;
// cancellation annotates the record without clearing the IRN.
type IRNRecord struct {
	ID            int64      `json:"id" db:"id"`
	InvoiceID     int64      `json:"invoice_id" db:"invoice_id"`
	IRN           string     `json:"irn" db:"irn"`
	AckNo         string     `json:"ack_no" db:"ack_no"`
	AckDate       time.Time  `json:"ack_date" db:"ack_date"`
	SignedInvoice string     `json:"-" db:"signed_invoice"`
	SignedQRCode  string     `json:"-" db:"signed_qr_code"`
	RequestJSON   []byte     `json:"-" db:"request_json"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelReason  *int       `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CancelRemarks *string    `json:"cancel_remarks,omitempty" db:"cancel_remarks"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// IRNResult is what callers get back from GenerateIRN.
type IRNResult struct {
	IRN     string    `json:"irn"`
	AckNo   string    `json:"ack_no"`
	AckDate time.Time `json:"ack_date"`
}
