package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artha-erp/artha-erp/internal/billing/estimations"
	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/billing/quotations"
	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/gst"
	"github.com/artha-erp/artha-erp/internal/observability"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// Service orchestrates the estimation -> quotation -> invoice pipeline.
type Service struct {
	repo    RepositoryPort
	seller  shared.SellerProfile
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs the billing service.
func NewService(repo RepositoryPort, seller shared.SellerProfile, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{repo: repo, seller: seller, metrics: metrics, logger: logger, now: time.Now}
}

func conversionOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var conflict *shared.ConflictError
	if errors.As(err, &conflict) {
		return "conflict"
	}
	return "error"
}

// ConvertEstimationToQuotation turns an estimation into a tax-bearing
// quotation. Every estimation line must be classified with an HSN/SAC code
// and a GST rate in the request; taxes are computed here, never on the
// estimation itself.
func (s *Service) ConvertEstimationToQuotation(ctx context.Context, estimationID int64, req ConvertEstimationRequest) (*quotations.Quotation, error) {
	est, err := s.repo.GetEstimation(ctx, estimationID)
	if err != nil {
		return nil, err
	}
	if err := docstate.TransitionEstimation(est.Status, docstate.EstimationConverted); err != nil {
		return nil, err
	}
	if est.ConvertedToQuotationID != nil {
		return nil, &shared.ConflictError{
			State:   string(est.Status),
			Message: fmt.Sprintf("estimation %d already converted to quotation %d", est.ID, *est.ConvertedToQuotationID),
		}
	}

	client, err := s.repo.GetClient(ctx, est.ClientID)
	if err != nil {
		return nil, err
	}

	classByItem := make(map[int64]ConvertItemRequest, len(req.Items))
	for _, it := range req.Items {
		classByItem[it.EstimationItemID] = it
	}

	var fieldErrs shared.FieldErrors
	for i, src := range est.Items {
		cls, ok := classByItem[src.ID]
		if !ok {
			fieldErrs = append(fieldErrs, shared.ValidationError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: fmt.Sprintf("missing classification for estimation item %d", src.ID),
			})
			continue
		}
		fieldErrs = append(fieldErrs, gst.ValidateLine(fmt.Sprintf("items[%d]", i), gst.LineInput{
			Description: src.Description,
			Quantity:    src.Quantity,
			UnitPrice:   src.UnitPrice,
			HSNSACCode:  cls.HSNSACCode,
			GSTRate:     cls.GSTRate,
			IsService:   cls.IsService,
		})...)
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	supply := s.classifySupply(client, req.InterState)
	placeOfSupply := buyerStateCode(client)
	if placeOfSupply == "" {
		placeOfSupply = s.seller.StateCode
	}

	var (
		subtotal  float64
		taxAmount float64
		items     []quotations.Item
	)
	for i, src := range est.Items {
		cls := classByItem[src.ID]
		taxable := gst.Round2(src.Quantity * src.UnitPrice)
		split := gst.ComputeLineTax(taxable, cls.GSTRate, supply)
		subtotal = gst.Round2(subtotal + taxable)
		taxAmount = gst.Round2(taxAmount + split.Total())
		items = append(items, quotations.Item{
			Description:  src.Description,
			Category:     src.Category,
			Quantity:     src.Quantity,
			Unit:         src.Unit,
			UnitPrice:    src.UnitPrice,
			HSNSACCode:   cls.HSNSACCode,
			IsService:    cls.IsService,
			GSTRate:      cls.GSTRate,
			TaxableValue: taxable,
			CGSTAmount:   split.CGST,
			SGSTAmount:   split.SGST,
			IGSTAmount:   split.IGST,
			LineTotal:    gst.Round2(taxable + split.Total()),
			LineOrder:    i,
		})
	}
	totalWithGST := gst.Round2(subtotal - est.Discount + taxAmount)

	actor := shared.ActorFromContext(ctx)

	var quotationID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepositoryPort) error {
		number, err := tx.GenerateNumber(ctx, "QT", s.now())
		if err != nil {
			return err
		}
		quotationID, err = tx.CreateQuotation(ctx, quotations.Quotation{
			Number:        number,
			EstimationID:  est.ID,
			ClientID:      est.ClientID,
			Status:        docstate.QuotationDraft,
			SupplyType:    supply,
			PlaceOfSupply: placeOfSupply,
			Subtotal:      subtotal,
			TaxAmount:     taxAmount,
			Discount:      est.Discount,
			TotalWithGST:  totalWithGST,
			CreatedBy:     actor.ID,
		})
		if err != nil {
			return err
		}
		for _, item := range items {
			item.QuotationID = quotationID
			if _, err := tx.InsertQuotationItem(ctx, item); err != nil {
				return err
			}
		}
		return tx.MarkEstimationConverted(ctx, est.ID, quotationID)
	})
	s.metrics.RecordConversion("estimation_to_quotation", conversionOutcome(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info("estimation converted",
		slog.Int64("estimation_id", est.ID),
		slog.Int64("quotation_id", quotationID),
		slog.String("supply_type", string(supply)),
	)
	return s.repo.GetQuotation(ctx, quotationID)
}

// ConvertQuotationToInvoice turns an accepted quotation into an invoice.
// Tax lines are carried over verbatim; the buyer details are snapshotted so
// later client edits do not rewrite issued documents.
func (s *Service) ConvertQuotationToInvoice(ctx context.Context, quotationID int64, req ConvertQuotationRequest) (*invoices.Invoice, error) {
	q, err := s.repo.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := docstate.TransitionQuotation(q.Status, docstate.QuotationConverted); err != nil {
		return nil, err
	}
	if q.ConvertedToInvoiceID != nil {
		return nil, &shared.ConflictError{
			State:   string(q.Status),
			Message: fmt.Sprintf("quotation %d already converted to invoice %d", q.ID, *q.ConvertedToInvoiceID),
		}
	}
	if req.DueDate.Before(req.InvoiceDate) {
		return nil, shared.FieldErrors{{Field: "due_date", Message: "must not be before invoice_date"}}
	}

	client, err := s.repo.GetClient(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}

	invoiceType := invoices.TypeB2C
	var buyerGSTIN *string
	if client.GSTIN != nil && *client.GSTIN != "" {
		invoiceType = invoices.TypeB2B
		buyerGSTIN = client.GSTIN
	}

	var cgstTotal, sgstTotal, igstTotal float64
	items := make([]invoices.Item, 0, len(q.Items))
	for _, src := range q.Items {
		cgstTotal = gst.Round2(cgstTotal + src.CGSTAmount)
		sgstTotal = gst.Round2(sgstTotal + src.SGSTAmount)
		igstTotal = gst.Round2(igstTotal + src.IGSTAmount)
		items = append(items, invoices.Item{
			Description:  src.Description,
			Category:     src.Category,
			Quantity:     src.Quantity,
			Unit:         src.Unit,
			UnitPrice:    src.UnitPrice,
			HSNSACCode:   src.HSNSACCode,
			IsService:    src.IsService,
			GSTRate:      src.GSTRate,
			TaxableValue: src.TaxableValue,
			CGSTAmount:   src.CGSTAmount,
			SGSTAmount:   src.SGSTAmount,
			IGSTAmount:   src.IGSTAmount,
			LineTotal:    src.LineTotal,
			LineOrder:    src.LineOrder,
		})
	}

	actor := shared.ActorFromContext(ctx)

	var invoiceID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepositoryPort) error {
		number, err := tx.GenerateNumber(ctx, "INV", req.InvoiceDate)
		if err != nil {
			return err
		}
		invoiceID, err = tx.CreateInvoice(ctx, invoices.Invoice{
			Number:         number,
			QuotationID:    q.ID,
			ClientID:       q.ClientID,
			InvoiceDate:    req.InvoiceDate,
			DueDate:        req.DueDate,
			PaymentTerms:   req.PaymentTerms,
			InvoiceType:    invoiceType,
			BuyerName:      client.Name,
			BuyerGSTIN:     buyerGSTIN,
			BuyerAddress:   client.Address,
			BuyerLocation:  client.Location,
			BuyerPin:       client.Pin,
			PlaceOfSupply:  q.PlaceOfSupply,
			SupplyType:     q.SupplyType,
			Subtotal:       q.Subtotal,
			CGSTTotal:      cgstTotal,
			SGSTTotal:      sgstTotal,
			IGSTTotal:      igstTotal,
			Discount:       q.Discount,
			TotalWithGST:   q.TotalWithGST,
			PaidAmount:     0,
			Outstanding:    q.TotalWithGST,
			Status:         docstate.InvoiceDraft,
			EInvoiceStatus: docstate.EInvoicePending,
			CreatedBy:      actor.ID,
		})
		if err != nil {
			return err
		}
		for _, item := range items {
			item.InvoiceID = invoiceID
			if _, err := tx.InsertInvoiceItem(ctx, item); err != nil {
				return err
			}
		}
		return tx.MarkQuotationConverted(ctx, q.ID, invoiceID)
	})
	s.metrics.RecordConversion("quotation_to_invoice", conversionOutcome(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation converted",
		slog.Int64("quotation_id", q.ID),
		slog.Int64("invoice_id", invoiceID),
	)
	return s.repo.GetInvoice(ctx, invoiceID)
}

// GetEstimation loads one estimation with items.
func (s *Service) GetEstimation(ctx context.Context, id int64) (*estimations.Estimation, error) {
	return s.repo.GetEstimation(ctx, id)
}

// GetQuotation loads one quotation with items.
func (s *Service) GetQuotation(ctx context.Context, id int64) (*quotations.Quotation, error) {
	return s.repo.GetQuotation(ctx, id)
}

// GetInvoice loads one invoice with items.
func (s *Service) GetInvoice(ctx context.Context, id int64) (*invoices.Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// SendEstimation marks a draft estimation as sent to the client.
func (s *Service) SendEstimation(ctx context.Context, id int64) (*estimations.Estimation, error) {
	est, err := s.repo.GetEstimation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := docstate.TransitionEstimation(est.Status, docstate.EstimationSent); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateEstimationStatus(ctx, id, est.Status, docstate.EstimationSent); err != nil {
		return nil, err
	}
	est.Status = docstate.EstimationSent
	return est, nil
}

// SendQuotation marks a draft quotation as sent.
func (s *Service) SendQuotation(ctx context.Context, id int64) (*quotations.Quotation, error) {
	return s.transitionQuotation(ctx, id, docstate.QuotationSent)
}

// ApproveQuotation records client approval of a sent quotation.
func (s *Service) ApproveQuotation(ctx context.Context, id int64) (*quotations.Quotation, error) {
	return s.transitionQuotation(ctx, id, docstate.QuotationApproved)
}

func (s *Service) transitionQuotation(ctx context.Context, id int64, target docstate.QuotationStatus) (*quotations.Quotation, error) {
	q, err := s.repo.GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := docstate.TransitionQuotation(q.Status, target); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateQuotationStatus(ctx, id, q.Status, target); err != nil {
		return nil, err
	}
	q.Status = target
	return q, nil
}

// IssueInvoice moves a draft invoice to issued, making it eligible for
// payments and IRN generation.
func (s *Service) IssueInvoice(ctx context.Context, id int64) (*invoices.Invoice, error) {
	return s.transitionInvoice(ctx, id, docstate.InvoiceIssued)
}

// CancelInvoice cancels an invoice that has not collected any payment.
func (s *Service) CancelInvoice(ctx context.Context, id int64) (*invoices.Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.PaidAmount > 0 {
		return nil, &shared.ConflictError{
			State:   string(inv.Status),
			Message: "invoice with recorded payments cannot be cancelled",
		}
	}
	if err := docstate.TransitionInvoice(inv.Status, docstate.InvoiceCancelled); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInvoiceStatus(ctx, id, inv.Status, docstate.InvoiceCancelled); err != nil {
		return nil, err
	}
	inv.Status = docstate.InvoiceCancelled
	return inv, nil
}

func (s *Service) transitionInvoice(ctx context.Context, id int64, target docstate.InvoiceStatus) (*invoices.Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := docstate.TransitionInvoice(inv.Status, target); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInvoiceStatus(ctx, id, inv.Status, target); err != nil {
		return nil, err
	}
	inv.Status = target
	return inv, nil
}

func (s *Service) classifySupply(client *estimations.Client, interState bool) gst.SupplyType {
	if interState {
		return gst.SupplyInter
	}
	return gst.ClassifySupply(s.seller.StateCode, buyerStateCode(client))
}

func buyerStateCode(client *estimations.Client) string {
	if client.GSTIN != nil && *client.GSTIN != "" {
		return gst.StateCodeFromGSTIN(*client.GSTIN)
	}
	if client.StateCode != nil {
		return *client.StateCode
	}
	return ""
}
