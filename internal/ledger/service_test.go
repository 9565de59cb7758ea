package ledger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/shared"
)

type memoryLedgerRepo struct {
	invoices      map[int64]*invoices.Invoice
	payments      map[int64][]Payment
	nextPaymentID int64
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		invoices: make(map[int64]*invoices.Invoice),
		payments: make(map[int64][]Payment),
	}
}

func (r *memoryLedgerRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepositoryPort) error) error {
	return fn(ctx, r)
}

func (r *memoryLedgerRepo) GetInvoiceForUpdate(ctx context.Context, id int64) (*invoices.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, &shared.NotFoundError{Entity: "invoice", ID: id}
	}
	cp := *inv
	return &cp, nil
}

func (r *memoryLedgerRepo) InsertPayment(ctx context.Context, p Payment) (int64, error) {
	r.nextPaymentID++
	p.ID = r.nextPaymentID
	r.payments[p.InvoiceID] = append(r.payments[p.InvoiceID], p)
	return p.ID, nil
}

func (r *memoryLedgerRepo) UpdateInvoicePayment(ctx context.Context, id int64, paid, outstanding float64, status docstate.InvoiceStatus) error {
	inv := r.invoices[id]
	inv.PaidAmount = paid
	inv.Outstanding = outstanding
	inv.Status = status
	return nil
}

func (r *memoryLedgerRepo) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	return r.payments[invoiceID], nil
}

func (r *memoryLedgerRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if (inv.Status == docstate.InvoiceIssued || inv.Status == docstate.InvoicePartiallyPaid) &&
			inv.DueDate.Before(asOf) && inv.Outstanding > 0 {
			inv.Status = docstate.InvoiceOverdue
			n++
		}
	}
	return n, nil
}

func newLedgerService(repo *memoryLedgerRepo, now time.Time) *Service {
	svc := NewService(repo, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return now }
	return svc
}

func seedInvoice(repo *memoryLedgerRepo, status docstate.InvoiceStatus, total, paid float64, due time.Time) {
	repo.invoices[1] = &invoices.Invoice{
		ID: 1, Number: "INV-2608-0001", Status: status, DueDate: due,
		TotalWithGST: total, PaidAmount: paid, Outstanding: total - paid,
	}
}

func TestRecordPaymentPartial(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoiceIssued, 11800, 0, now.AddDate(0, 0, 20))
	svc := newLedgerService(repo, now)

	p, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 5000, Method: "neft", Reference: "UTR123456",
	})
	require.NoError(t, err)
	require.Equal(t, 5000.0, p.Amount)
	require.Equal(t, "UTR123456", p.Reference)

	inv := repo.invoices[1]
	require.Equal(t, docstate.InvoicePartiallyPaid, inv.Status)
	require.Equal(t, 5000.0, inv.PaidAmount)
	require.Equal(t, 6800.0, inv.Outstanding)
}

func TestRecordPaymentFull(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoicePartiallyPaid, 11800, 5000, now.AddDate(0, 0, 20))
	svc := newLedgerService(repo, now)

	_, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 6800, Method: "upi",
	})
	require.NoError(t, err)

	inv := repo.invoices[1]
	require.Equal(t, docstate.InvoiceFullyPaid, inv.Status)
	require.Equal(t, 0.0, inv.Outstanding)
}

func TestRecordPaymentOverpaymentRejected(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoiceIssued, 11800, 0, now.AddDate(0, 0, 20))
	svc := newLedgerService(repo, now)

	_, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 12000, Method: "cash",
	})
	var fieldErrs shared.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Equal(t, "amount", fieldErrs[0].Field)
	require.Empty(t, repo.payments[1])
	require.Equal(t, 0.0, repo.invoices[1].PaidAmount)
}

func TestRecordPaymentOnDraftRejected(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoiceDraft, 11800, 0, now.AddDate(0, 0, 20))
	svc := newLedgerService(repo, now)

	_, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 1000, Method: "cash",
	})
	var conflict *shared.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "draft", conflict.State)
}

func TestRecordPaymentSettlesOverdueInvoice(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoiceOverdue, 11800, 0, now.AddDate(0, 0, -5))
	svc := newLedgerService(repo, now)

	_, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 11800, Method: "rtgs",
	})
	require.NoError(t, err)
	require.Equal(t, docstate.InvoiceFullyPaid, repo.invoices[1].Status)
}

func TestRecordPaymentPartialOnOverdueStaysOverdue(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoiceOverdue, 11800, 0, now.AddDate(0, 0, -5))
	svc := newLedgerService(repo, now)

	_, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 3000, Method: "cash",
	})
	require.NoError(t, err)

	inv := repo.invoices[1]
	require.Equal(t, docstate.InvoiceOverdue, inv.Status)
	require.Equal(t, 3000.0, inv.PaidAmount)
}

func TestRecordPaymentAssignsReference(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	seedInvoice(repo, docstate.InvoiceIssued, 11800, 0, now.AddDate(0, 0, 20))
	svc := newLedgerService(repo, now)

	p, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Amount: 1000, Method: "cash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.Reference)
	require.Equal(t, now, p.PaidAt)
}

func TestSweepOverdue(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemoryLedgerRepo()
	repo.invoices[1] = &invoices.Invoice{ID: 1, Status: docstate.InvoiceIssued, DueDate: now.AddDate(0, 0, -1), TotalWithGST: 100, Outstanding: 100}
	repo.invoices[2] = &invoices.Invoice{ID: 2, Status: docstate.InvoiceIssued, DueDate: now.AddDate(0, 0, 1), TotalWithGST: 100, Outstanding: 100}
	repo.invoices[3] = &invoices.Invoice{ID: 3, Status: docstate.InvoiceFullyPaid, DueDate: now.AddDate(0, 0, -1), TotalWithGST: 100, PaidAmount: 100}
	svc := newLedgerService(repo, now)

	n, err := svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.Equal(t, docstate.InvoiceOverdue, repo.invoices[1].Status)
	require.Equal(t, docstate.InvoiceIssued, repo.invoices[2].Status)
	require.Equal(t, docstate.InvoiceFullyPaid, repo.invoices[3].Status)
}
