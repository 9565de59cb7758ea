// Package estimations holds the estimation document model. Estimations are
// created and edited by upstream CRUD surfaces; the conversion pipeline only
// reads them and marks them converted.
package estimations

import (
	"time"

	"github.com/artha-erp/artha-erp/internal/docstate"
)

// Estimation is an informal cost estimate. It carries no tax fields; tax
// enters the picture only at quotation time.
type Estimation struct {
	ID                     int64                     `json:"id" db:"id"`
	Number                 string                    `json:"number" db:"number"`
	ClientID               int64                     `json:"client_id" db:"client_id"`
	Status                 docstate.EstimationStatus `json:"status" db:"status"`
	Subtotal               float64                   `json:"subtotal" db:"subtotal"`
	Discount               float64                   `json:"discount" db:"discount"`
	MarginPercent          float64                   `json:"margin_percent" db:"margin_percent"`
	Total                  float64                   `json:"total" db:"total"`
	ValidityDays           int                       `json:"validity_days" db:"validity_days"`
	ConvertedToQuotationID *int64                    `json:"converted_to_quotation_id,omitempty" db:"converted_to_quotation_id"`
	CreatedBy              int64                     `json:"created_by" db:"created_by"`
	CreatedAt              time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time                 `json:"updated_at" db:"updated_at"`
	Items                  []Item                    `json:"items,omitempty" db:"-"`
}

// Item is one estimation line. No HSN or GST fields yet.
type Item struct {
	ID           int64   `json:"id" db:"id"`
	EstimationID int64   `json:"estimation_id" db:"estimation_id"`
	Description  string  `json:"description" db:"description"`
	Category     string  `json:"category" db:"category"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	Unit         string  `json:"unit" db:"unit"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
	LineOrder    int     `json:"line_order" db:"line_order"`
}

// Client is the buyer an estimation belongs to. GSTIN and state code are
// optional; their absence makes the eventual invoice B2C.
type Client struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	GSTIN     *string `json:"gstin,omitempty" db:"gstin"`
	StateCode *string `json:"state_code,omitempty" db:"state_code"`
	Address   string  `json:"address" db:"address"`
	Location  string  `json:"location" db:"location"`
	Pin       string  `json:"pin" db:"pin"`
}
