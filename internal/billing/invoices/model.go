// Package invoices holds the invoice document model. Invoices are created
// only by the conversion pipeline; after creation the items are frozen and
// only status, payment, and IRN fields change.
package invoices

import (
	"time"

	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/gst"
)

// InvoiceType distinguishes registered from unregistered buyers.
type InvoiceType string

const (
	TypeB2B InvoiceType = "B2B"
	TypeB2C InvoiceType = "B2C"
)

// Invoice is the legally binding document. Buyer identity is snapshotted at
// conversion time so later client edits cannot rewrite issued invoices.
type Invoice struct {
	ID             int64                   `json:"id" db:"id"`
	Number         string                  `json:"number" db:"number"`
	QuotationID    int64                   `json:"quotation_id" db:"quotation_id"`
	ClientID       int64                   `json:"client_id" db:"client_id"`
	InvoiceDate    time.Time               `json:"invoice_date" db:"invoice_date"`
	DueDate        time.Time               `json:"due_date" db:"due_date"`
	PaymentTerms   string                  `json:"payment_terms" db:"payment_terms"`
	InvoiceType    InvoiceType             `json:"invoice_type" db:"invoice_type"`
	BuyerName      string                  `json:"buyer_name" db:"buyer_name"`
	BuyerGSTIN     *string                 `json:"buyer_gstin,omitempty" db:"buyer_gstin"`
	BuyerAddress   string                  `json:"buyer_address" db:"buyer_address"`
	BuyerLocation  string                  `json:"buyer_location" db:"buyer_location"`
	BuyerPin       string                  `json:"buyer_pin" db:"buyer_pin"`
	PlaceOfSupply  string                  `json:"place_of_supply" db:"place_of_supply"`
	SupplyType     gst.SupplyType          `json:"supply_type" db:"supply_type"`
	Subtotal       float64                 `json:"subtotal" db:"subtotal"`
	CGSTTotal      float64                 `json:"cgst_total" db:"cgst_total"`
	SGSTTotal      float64                 `json:"sgst_total" db:"sgst_total"`
	IGSTTotal      float64                 `json:"igst_total" db:"igst_total"`
	Discount       float64                 `json:"discount" db:"discount"`
	TotalWithGST   float64                 `json:"total_with_gst" db:"total_with_gst"`
	PaidAmount     float64                 `json:"paid_amount" db:"paid_amount"`
	Outstanding    float64                 `json:"outstanding_amount" db:"outstanding_amount"`
	Status         docstate.InvoiceStatus  `json:"status" db:"status"`
	EInvoiceStatus docstate.EInvoiceStatus `json:"e_invoice_status" db:"e_invoice_status"`
	IRN            *string                 `json:"irn,omitempty" db:"irn"`
	AckNo          *string                 `json:"ack_no,omitempty" db:"ack_no"`
	AckDate        *time.Time              `json:"ack_date,omitempty" db:"ack_date"`
	CreatedBy      int64                   `json:"created_by" db:"created_by"`
	CreatedAt      time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at" db:"updated_at"`
	Items          []Item                  `json:"items,omitempty" db:"-"`
}

// Item is one invoice line, copied verbatim from the source quotation.
type Item struct {
	ID           int64   `json:"id" db:"id"`
	InvoiceID    int64   `json:"invoice_id" db:"invoice_id"`
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
