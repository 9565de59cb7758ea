package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/gst"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// Service records payments and keeps invoice payment state consistent.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the ledger service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// payable statuses accept new payments.
func payable(status docstate.InvoiceStatus) bool {
	switch status {
	case docstate.InvoiceIssued, docstate.InvoicePartiallyPaid, docstate.InvoiceOverdue:
		return true
	}
	return false
}

// RecordPayment applies one payment against an invoice. The invoice row is
// locked while the running totals are recomputed, so two payments posted at
// the same moment cannot both pass the overpayment check.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, req RecordPaymentRequest) (*Payment, error) {
	amount := gst.Round2(req.Amount)
	if amount <= 0 {
		return nil, shared.FieldErrors{{Field: "amount", Message: "must be greater than zero"}}
	}

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}
	reference := req.Reference
	if reference == "" {
		reference = uuid.NewString()
	}
	actor := shared.ActorFromContext(ctx)

	payment := Payment{
		InvoiceID:  invoiceID,
		Amount:     amount,
		Method:     req.Method,
		Reference:  reference,
		PaidAt:     paidAt,
		Notes:      req.Notes,
		RecordedBy: actor.ID,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepositoryPort) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !payable(inv.Status) {
			return &shared.ConflictError{
				State:   string(inv.Status),
				Message: fmt.Sprintf("invoice %s does not accept payments", inv.Number),
			}
		}
		if amount > inv.Outstanding {
			return shared.FieldErrors{{
				Field:   "amount",
				Message: fmt.Sprintf("exceeds outstanding amount %.2f", inv.Outstanding),
			}}
		}

		newPaid := gst.Round2(inv.PaidAmount + amount)
		newOutstanding := gst.Round2(inv.TotalWithGST - newPaid)
		newStatus := docstate.PaymentStatus(inv.TotalWithGST, newPaid, inv.DueDate, s.now())
		if newStatus != inv.Status {
			if err := docstate.TransitionInvoice(inv.Status, newStatus); err != nil {
				return err
			}
		}

		id, err := tx.InsertPayment(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		return tx.UpdateInvoicePayment(ctx, invoiceID, newPaid, newOutstanding, newStatus)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		slog.Int64("invoice_id", invoiceID),
		slog.Float64("amount", amount),
		slog.String("method", req.Method),
	)
	return &payment, nil
}

// ListPayments returns the payments recorded against an invoice, oldest first.
func (s *Service) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, invoiceID)
}

// SweepOverdue marks invoices past their due date as overdue and returns how
// many rows changed.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("overdue sweep", slog.Int64("invoices", n))
	}
	return n, nil
}
