package docstate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/artha-erp/artha-erp/internal/shared"
)

func TestEstimationTransitions(t *testing.T) {
	allowed := []struct{ from, to EstimationStatus }{
		{EstimationDraft, EstimationSent},
		{EstimationDraft, EstimationConverted},
		{EstimationDraft, EstimationExpired},
		{EstimationSent, EstimationConverted},
		{EstimationSent, EstimationExpired},
	}
	for _, c := range allowed {
		if err := TransitionEstimation(c.from, c.to); err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", c.from, c.to, err)
		}
	}
	denied := []struct{ from, to EstimationStatus }{
		{EstimationConverted, EstimationSent},
		{EstimationExpired, EstimationDraft},
		{EstimationSent, EstimationDraft},
	}
	for _, c := range denied {
		if err := TransitionEstimation(c.from, c.to); err == nil {
			t.Fatalf("%s -> %s should be denied", c.from, c.to)
		}
	}
}

func TestQuotationTerminalStates(t *testing.T) {
	for _, terminal := range []QuotationStatus{QuotationConverted, QuotationExpired} {
		for _, next := range []QuotationStatus{QuotationDraft, QuotationSent, QuotationApproved, QuotationConverted} {
			if err := TransitionQuotation(terminal, next); err == nil {
				t.Fatalf("terminal state %s must not transition to %s", terminal, next)
			}
		}
	}
}

func TestInvoiceTransitionErrorNamesStates(t *testing.T) {
	err := TransitionInvoice(InvoiceFullyPaid, InvoiceCancelled)
	if err == nil {
		t.Fatalf("fully_paid is terminal")
	}
	var conflict *shared.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %T", err)
	}
	if !strings.Contains(conflict.Message, "fully_paid") || !strings.Contains(conflict.Message, "cancelled") {
		t.Fatalf("error must name current and requested state: %q", conflict.Message)
	}
}

func TestInvoiceOverdueCanStillBePaid(t *testing.T) {
	if err := TransitionInvoice(InvoiceOverdue, InvoiceFullyPaid); err != nil {
		t.Fatalf("overdue -> fully_paid should be allowed: %v", err)
	}
	if err := TransitionInvoice(InvoiceOverdue, InvoicePartiallyPaid); err != nil {
		t.Fatalf("overdue -> partially_paid should be allowed: %v", err)
	}
}

func TestEInvoiceTransitions(t *testing.T) {
	if err := TransitionEInvoice(EInvoicePending, EInvoiceGenerated); err != nil {
		t.Fatalf("pending -> generated: %v", err)
	}
	if err := TransitionEInvoice(EInvoiceFailed, EInvoiceGenerated); err != nil {
		t.Fatalf("failed generation must be retryable: %v", err)
	}
	if err := TransitionEInvoice(EInvoiceGenerated, EInvoiceCancelled); err != nil {
		t.Fatalf("generated -> cancelled: %v", err)
	}
	if err := TransitionEInvoice(EInvoiceCancelled, EInvoiceGenerated); err == nil {
		t.Fatalf("cancelled is terminal")
	}
	if err := TransitionEInvoice(EInvoicePending, EInvoiceCancelled); err == nil {
		t.Fatalf("cannot cancel an IRN that was never generated")
	}
}

func TestPaymentStatus(t *testing.T) {
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	before := due.AddDate(0, 0, -5)
	after := due.AddDate(0, 0, 5)

	if got := PaymentStatus(1000, 1000, due, before); got != InvoiceFullyPaid {
		t.Fatalf("settled invoice should be fully_paid, got %s", got)
	}
	if got := PaymentStatus(1000, 400, due, before); got != InvoicePartiallyPaid {
		t.Fatalf("partial before due date should be partially_paid, got %s", got)
	}
	if got := PaymentStatus(1000, 400, due, after); got != InvoiceOverdue {
		t.Fatalf("partial after due date should be overdue, got %s", got)
	}
	if got := PaymentStatus(1000, 0, due, after); got != InvoiceOverdue {
		t.Fatalf("unpaid after due date should be overdue, got %s", got)
	}
	if got := PaymentStatus(1000, 0, due, before); got != InvoiceIssued {
		t.Fatalf("unpaid before due date stays issued, got %s", got)
	}
	// Payment on the due date itself is not overdue.
	if got := PaymentStatus(1000, 400, due, due); got != InvoicePartiallyPaid {
		t.Fatalf("due date itself is not overdue, got %s", got)
	}
}
