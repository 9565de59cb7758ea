package billing

import "time"

// ConvertItemRequest classifies one estimation line for tax purposes.
type ConvertItemRequest struct {
	EstimationItemID int64   `json:"estimation_item_id" validate:"required"`
	HSNSACCode       string  `json:"hsn_sac_code" validate:"required"`
	IsService        bool    `json:"is_service"`
	GSTRate          float64 `json:"gst_rate" validate:"gte=0,lte=28"`
}

// ConvertEstimationRequest is the payload for POST /estimations/{id}/convert.
type ConvertEstimationRequest struct {
	Items      []ConvertItemRequest `json:"items" validate:"required,min=1,dive"`
	InterState bool                 `json:"inter_state"`
}

// ConvertQuotationRequest is the payload for POST /quotations/{id}/convert.
type ConvertQuotationRequest struct {
	InvoiceDate  time.Time `json:"invoice_date" validate:"required"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	PaymentTerms string    `json:"payment_terms" validate:"max=120"`
}
