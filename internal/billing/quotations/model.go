// Package quotations holds the quotation document model. Quotations are
// created only by the conversion pipeline and their items are frozen at
// creation.
package quotations

import (
	"time"

	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/gst"
)

// Quotation is a tax-inclusive offer derived from an estimation.
type Quotation struct {
	ID                   int64                    `json:"id" db:"id"`
	Number               string                   `json:"number" db:"number"`
	EstimationID         int64                    `json:"estimation_id" db:"estimation_id"`
	ClientID             int64                    `json:"client_id" db:"client_id"`
	Status               docstate.QuotationStatus `json:"status" db:"status"`
	SupplyType           gst.SupplyType           `json:"supply_type" db:"supply_type"`
	PlaceOfSupply        string                   `json:"place_of_supply" db:"place_of_supply"`
	Subtotal             float64                  `json:"subtotal" db:"subtotal"`
	TaxAmount            float64                  `json:"tax_amount" db:"tax_amount"`
	Discount             float64                  `json:"discount" db:"discount"`
	TotalWithGST         float64                  `json:"total_with_gst" db:"total_with_gst"`
	ConvertedToInvoiceID *int64                   `json:"converted_to_invoice_id,omitempty" db:"converted_to_invoice_id"`
	CreatedBy            int64                    `json:"created_by" db:"created_by"`
	CreatedAt            time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at" db:"updated_at"`
	Items                []Item                   `json:"items,omitempty" db:"-"`
}

// Item is one quotation line with its HSN/SAC classification and tax split.
type Item struct {
	ID           int64   `json:"id" db:"id"`
	QuotationID  int64   `json:"quotation_id" db:"quotation_id"`
	Description  string  `json:"description" db:"description"`
	Category     string  `json:"category" db:"category"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	Unit         string  `json:"unit" db:"unit"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
	HSNSACCode   string  `json:"hsn_sac_code" db:"hsn_sac_code"`
	IsService    bool    `json:"is_service" db:"is_service"`
	GSTRate      float64 `json:"gst_rate" db:"gst_rate"`
	TaxableValue float64 `json:"taxable_value" db:"taxable_value"`
	CGSTAmount   float64 `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount   float64 `json:"sgst_amount" db:"sgst_amount"`
	IGSTAmount   float64 `json:"igst_amount" db:"igst_amount"`
	LineTotal    float64 `json:"line_total" db:"line_total"`
	LineOrder    int     `json:"line_order" db:"line_order"`
}
