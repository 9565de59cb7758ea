// Package docstate owns every document status in the billing core. All status
// changes flow through the transition functions here, so an illegal transition
// cannot be expressed anywhere else in the codebase.
package docstate

import "github.com/artha-erp/artha-erp/internal/shared"

// EstimationStatus lifecycle: draft -> sent -> converted/expired.
type EstimationStatus string

const (
	EstimationDraft     EstimationStatus = "draft"
	EstimationSent      EstimationStatus = "sent"
	EstimationConverted EstimationStatus = "converted"
	EstimationExpired   EstimationStatus = "expired"
)

// QuotationStatus lifecycle: draft -> sent -> approved -> converted/expired.
type QuotationStatus string

const (
	QuotationDraft     QuotationStatus = "draft"
	QuotationSent      QuotationStatus = "sent"
	QuotationApproved  QuotationStatus = "approved"
	QuotationConverted QuotationStatus = "converted"
	QuotationExpired   QuotationStatus = "expired"
)

// InvoiceStatus lifecycle: draft -> issued -> paid states/overdue/cancelled.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceIssued        InvoiceStatus = "issued"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceFullyPaid     InvoiceStatus = "fully_paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// EInvoiceStatus tracks registration with the government portal.
type EInvoiceStatus string

const (
	EInvoicePending   EInvoiceStatus = "pending"
	EInvoiceGenerated EInvoiceStatus = "generated"
	EInvoiceCancelled EInvoiceStatus = "cancelled"
	EInvoiceFailed    EInvoiceStatus = "failed"
)

var estimationTransitions = map[EstimationStatus][]EstimationStatus{
	EstimationDraft: {EstimationSent, EstimationConverted, EstimationExpired},
	EstimationSent:  {EstimationConverted, EstimationExpired},
}

var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationDraft:    {QuotationSent, QuotationApproved, QuotationExpired},
	QuotationSent:     {QuotationApproved, QuotationConverted, QuotationExpired},
	QuotationApproved: {QuotationConverted, QuotationExpired},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:         {InvoiceIssued},
	InvoiceIssued:        {InvoicePartiallyPaid, InvoiceFullyPaid, InvoiceOverdue, InvoiceCancelled},
	InvoicePartiallyPaid: {InvoiceFullyPaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:       {InvoicePartiallyPaid, InvoiceFullyPaid, InvoiceCancelled},
}

var einvoiceTransitions = map[EInvoiceStatus][]EInvoiceStatus{
	EInvoicePending:   {EInvoiceGenerated, EInvoiceFailed},
	EInvoiceFailed:    {EInvoiceGenerated, EInvoiceFailed},
	EInvoiceGenerated: {EInvoiceCancelled},
}

// TransitionEstimation validates a status change for an estimation.
func TransitionEstimation(current, next EstimationStatus) error {
	if !contains(estimationTransitions[current], next) {
		return shared.NewInvalidTransition("estimation", string(current), string(next))
	}
	return nil
}

// TransitionQuotation validates a status change for a quotation.
func TransitionQuotation(current, next QuotationStatus) error {
	if !contains(quotationTransitions[current], next) {
		return shared.NewInvalidTransition("quotation", string(current), string(next))
	}
	return nil
}

// TransitionInvoice validates a status change for an invoice.
func TransitionInvoice(current, next InvoiceStatus) error {
	if !contains(invoiceTransitions[current], next) {
		return shared.NewInvalidTransition("invoice", string(current), string(next))
	}
	return nil
}

// TransitionEInvoice validates a change of the e-invoice registration status.
func TransitionEInvoice(current, next EInvoiceStatus) error {
	if !contains(einvoiceTransitions[current], next) {
		return shared.NewInvalidTransition("e-invoice", string(current), string(next))
	}
	return nil
}

func contains[S ~string](allowed []S, s S) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}
