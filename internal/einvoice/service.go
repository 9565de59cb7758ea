package einvoice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/gst"
	"github.com/artha-erp/artha-erp/internal/observability"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// cancelWindow is the portal's business window for cancelling a registered
// IRN, measured from the acknowledgement date.
const cancelWindow = 24 * time.Hour

// PortalClient is the protocol surface of the government portal.
type PortalClient interface {
	Authenticate(ctx context.Context) (string, error)
	GenerateIRN(ctx context.Context, token string, payload Payload) (*IRNResult, string, string, error)
	CancelIRN(ctx context.Context, token, irn string, reasonCode int, remarks string) (time.Time, error)
	GetIRN(ctx context.Context, token, irn string) (*IRNResult, error)
}

// TokenSource supplies a portal auth token, refreshing through the given
// authenticate callback when no valid token is cached.
type TokenSource interface {
	Get(ctx context.Context, authenticate func(context.Context) (string, error)) (string, error)
	Invalidate(ctx context.Context) error
}

// Service drives the IRN lifecycle for invoices.
type Service struct {
	repo    RepositoryPort
	client  PortalClient
	tokens  TokenSource
	seller  shared.SellerProfile
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs the e-invoice service.
func NewService(repo RepositoryPort, client PortalClient, tokens TokenSource, seller shared.SellerProfile, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		client:  client,
		tokens:  tokens,
		seller:  seller,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// GenerateIRN registers the invoice on the portal. The call is idempotent:
// once an IRN is stored, every later call returns it without network I/O.
// Execution is three phases: precondition read, portal call with no locks
// held, then a transactional commit that re-validates irn IS NULL.
func (s *Service) GenerateIRN(ctx context.Context, invoiceID int64) (*IRNResult, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.IRN != nil {
		return storedResult(inv), nil
	}
	if err := generatePreconditions(inv); err != nil {
		return nil, err
	}

	payload := BuildPayload(inv, s.seller)
	requestJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var (
		result    *IRNResult
		signedInv string
		signedQR  string
	)
	err = s.withToken(ctx, func(token string) error {
		result, signedInv, signedQR, err = s.client.GenerateIRN(ctx, token, payload)
		return err
	})
	if err != nil {
		var extErr *shared.ExternalServiceError
		if errors.As(err, &extErr) && !extErr.Retryable {
			// portal rejected the document: record the failure, keep the
			// invoice itself untouched so a corrected retry can succeed
			if markErr := s.repo.MarkFailed(ctx, invoiceID); markErr != nil {
				s.logger.Error("mark e-invoice failed", slog.Int64("invoice_id", invoiceID), slog.Any("error", markErr))
			}
			s.metrics.RecordEInvoiceOp("generate", "rejected")
			s.logger.Warn("IRN generation rejected",
				slog.Int64("invoice_id", invoiceID),
				slog.String("error_cd", extErr.Code),
			)
			return nil, err
		}
		s.metrics.RecordEInvoiceOp("generate", "transport_error")
		return nil, err
	}

	if err := s.repo.StoreIRN(ctx, invoiceID, *result, signedInv, signedQR, requestJSON); err != nil {
		var conflict *shared.ConflictError
		if errors.As(err, &conflict) {
			// a concurrent call won the commit; fall back to its result
			current, readErr := s.repo.GetInvoice(ctx, invoiceID)
			if readErr == nil && current.IRN != nil {
				return storedResult(current), nil
			}
		}
		return nil, err
	}

	s.metrics.RecordEInvoiceOp("generate", "success")
	s.logger.Info("IRN generated",
		slog.Int64("invoice_id", invoiceID),
		slog.String("irn", result.IRN),
		slog.String("ack_no", result.AckNo),
	)
	return result, nil
}

// CancelIRN cancels a registered IRN within the portal's 24-hour window.
// The IRN stays on the invoice; cancellation is an annotation, not a delete.
func (s *Service) CancelIRN(ctx context.Context, invoiceID int64, reasonCode int, remarks string) error {
	if reasonCode < 1 || reasonCode > 4 {
		return shared.FieldErrors{{Field: "reason_code", Message: "must be between 1 and 4"}}
	}

	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv.IRN == nil {
		return &shared.ConflictError{
			State:   string(inv.EInvoiceStatus),
			Message: "invoice has no IRN to cancel",
		}
	}
	if err := docstate.TransitionEInvoice(inv.EInvoiceStatus, docstate.EInvoiceCancelled); err != nil {
		return err
	}
	if inv.AckDate == nil || s.now().Sub(*inv.AckDate) > cancelWindow {
		return &shared.ConflictError{
			State:   string(inv.EInvoiceStatus),
			Message: "cancellation window of 24 hours from acknowledgement has passed",
		}
	}

	var cancelledAt time.Time
	err = s.withToken(ctx, func(token string) error {
		cancelledAt, err = s.client.CancelIRN(ctx, token, *inv.IRN, reasonCode, remarks)
		return err
	})
	if err != nil {
		s.metrics.RecordEInvoiceOp("cancel", outcomeFor(err))
		return err
	}

	if err := s.repo.MarkCancelled(ctx, invoiceID, *inv.IRN, reasonCode, remarks, cancelledAt); err != nil {
		return err
	}
	s.metrics.RecordEInvoiceOp("cancel", "success")
	s.logger.Info("IRN cancelled",
		slog.Int64("invoice_id", invoiceID),
		slog.String("irn", *inv.IRN),
		slog.Int("reason_code", reasonCode),
	)
	return nil
}

// GetIRNDetails queries the portal by IRN for reconciliation.
func (s *Service) GetIRNDetails(ctx context.Context, irn string) (*IRNResult, error) {
	var result *IRNResult
	err := s.withToken(ctx, func(token string) error {
		var callErr error
		result, callErr = s.client.GetIRN(ctx, token, irn)
		return callErr
	})
	if err != nil {
		s.metrics.RecordEInvoiceOp("lookup", outcomeFor(err))
		return nil, err
	}
	s.metrics.RecordEInvoiceOp("lookup", "success")
	return result, nil
}

// GetIRNRecord returns the stored audit record for an invoice's registration:
// acknowledgement details plus any cancellation annotations. It reads local
// state only; no portal call is made.
func (s *Service) GetIRNRecord(ctx context.Context, invoiceID int64) (*IRNRecord, error) {
	return s.repo.GetIRNRecord(ctx, invoiceID)
}

// withToken runs fn with a cached token, re-authenticating exactly once when
// the portal rejects it.
func (s *Service) withToken(ctx context.Context, fn func(token string) error) error {
	token, err := s.tokens.Get(ctx, s.client.Authenticate)
	if err != nil {
		return err
	}
	err = fn(token)
	if !errors.Is(err, errUnauthorized) {
		return err
	}
	if err := s.tokens.Invalidate(ctx); err != nil {
		return err
	}
	token, err = s.tokens.Get(ctx, s.client.Authenticate)
	if err != nil {
		return err
	}
	return fn(token)
}

func generatePreconditions(inv *invoices.Invoice) error {
	var errs shared.FieldErrors
	switch inv.Status {
	case docstate.InvoiceDraft:
		errs = append(errs, shared.ValidationError{
			Field:   "status",
			Message: "invoice must be issued before IRN generation",
		})
	case docstate.InvoiceCancelled:
		errs = append(errs, shared.ValidationError{
			Field:   "status",
			Message: "cancelled invoice cannot be registered",
		})
	}
	if inv.InvoiceType != invoices.TypeB2B {
		errs = append(errs, shared.ValidationError{
			Field:   "invoice_type",
			Message: "only B2B invoices can be registered",
		})
	}
	if inv.BuyerGSTIN == nil || !gst.ValidGSTIN(*inv.BuyerGSTIN) {
		errs = append(errs, shared.ValidationError{
			Field:   "buyer_gstin",
			Message: "buyer GSTIN missing or malformed",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func storedResult(inv *invoices.Invoice) *IRNResult {
	result := &IRNResult{IRN: *inv.IRN}
	if inv.AckNo != nil {
		result.AckNo = *inv.AckNo
	}
	if inv.AckDate != nil {
		result.AckDate = *inv.AckDate
	}
	return result
}

func outcomeFor(err error) string {
	var extErr *shared.ExternalServiceError
	if errors.As(err, &extErr) && !extErr.Retryable {
		return "rejected"
	}
	return "transport_error"
}
