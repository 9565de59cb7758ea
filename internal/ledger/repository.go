package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/platform/db"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// RepositoryPort defines data access for the payment ledger.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepositoryPort) error) error
	ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// TxRepositoryPort covers the mutations made while the invoice row is locked.
type TxRepositoryPort interface {
	GetInvoiceForUpdate(ctx context.Context, id int64) (*invoices.Invoice, error)
	InsertPayment(ctx context.Context, p Payment) (int64, error)
	UpdateInvoicePayment(ctx context.Context, id int64, paid, outstanding float64, status docstate.InvoiceStatus) error
}

// Repository provides PostgreSQL backed persistence for payments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepositoryPort) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *Repository) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, amount, method, reference, paid_at, notes, recorded_by, created_at
		FROM payments WHERE invoice_id = $1 ORDER BY paid_at, id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Reference,
			&p.PaidAt, &p.Notes, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// MarkOverdue flips issued and partially paid invoices whose due date has
// passed. Runs as a single statement so the sweep stays safe to repeat.
func (r *Repository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET status = $1, updated_at = now()
		WHERE status IN ($2, $3)
		  AND due_date < $4
		  AND outstanding_amount > 0`,
		docstate.InvoiceOverdue, docstate.InvoiceIssued, docstate.InvoicePartiallyPaid, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetInvoiceForUpdate locks the invoice row so concurrent payments serialize
// against each other.
func (t *txRepo) GetInvoiceForUpdate(ctx context.Context, id int64) (*invoices.Invoice, error) {
	const query = `
		SELECT id, number, status, due_date, total_with_gst, paid_amount, outstanding_amount
		FROM invoices WHERE id = $1 FOR UPDATE`
	var inv invoices.Invoice
	err := t.tx.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.Status, &inv.DueDate,
		&inv.TotalWithGST, &inv.PaidAmount, &inv.Outstanding,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "invoice", ID: id}
		}
		return nil, err
	}
	return &inv, nil
}

func (t *txRepo) InsertPayment(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO payments (invoice_id, amount, method, reference, paid_at, notes, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.InvoiceID, p.Amount, p.Method, p.Reference, p.PaidAt, p.Notes, p.RecordedBy,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateInvoicePayment(ctx context.Context, id int64, paid, outstanding float64, status docstate.InvoiceStatus) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE invoices
		SET paid_amount = $1, outstanding_amount = $2, status = $3, updated_at = now()
		WHERE id = $4`,
		paid, outstanding, status, id)
	return err
}
