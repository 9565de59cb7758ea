package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha-erp/internal/billing/estimations"
	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/billing/quotations"
	"github.com/artha-erp/artha-erp/internal/docstate"
	"github.com/artha-erp/artha-erp/internal/platform/db"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// RepositoryPort defines data access for the conversion pipeline.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepositoryPort) error) error
	GetEstimation(ctx context.Context, id int64) (*estimations.Estimation, error)
	GetClient(ctx context.Context, id int64) (*estimations.Client, error)
	GetQuotation(ctx context.Context, id int64) (*quotations.Quotation, error)
	GetInvoice(ctx context.Context, id int64) (*invoices.Invoice, error)
	UpdateEstimationStatus(ctx context.Context, id int64, from, to docstate.EstimationStatus) error
	UpdateQuotationStatus(ctx context.Context, id int64, from, to docstate.QuotationStatus) error
	UpdateInvoiceStatus(ctx context.Context, id int64, from, to docstate.InvoiceStatus) error
}

// TxRepositoryPort exposes the mutations that must commit atomically during a
// conversion.
type TxRepositoryPort interface {
	GenerateNumber(ctx context.Context, docType string, date time.Time) (string, error)
	CreateQuotation(ctx context.Context, q quotations.Quotation) (int64, error)
	InsertQuotationItem(ctx context.Context, item quotations.Item) (int64, error)
	MarkEstimationConverted(ctx context.Context, estimationID, quotationID int64) error
	CreateInvoice(ctx context.Context, inv invoices.Invoice) (int64, error)
	InsertInvoiceItem(ctx context.Context, item invoices.Item) (int64, error)
	MarkQuotationConverted(ctx context.Context, quotationID, invoiceID int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository provides PostgreSQL backed persistence for billing documents.
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

func (r *Repository) GetEstimation(ctx context.Context, id int64) (*estimations.Estimation, error) {
	const query = `
		SELECT id, number, client_id, status, subtotal, discount, margin_percent, total,
		       validity_days, converted_to_quotation_id, created_by, created_at, updated_at
		FROM estimations WHERE id = $1`
	var est estimations.Estimation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&est.ID, &est.Number, &est.ClientID, &est.Status, &est.Subtotal, &est.Discount,
		&est.MarginPercent, &est.Total, &est.ValidityDays, &est.ConvertedToQuotationID,
		&est.CreatedBy, &est.CreatedAt, &est.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "estimation", ID: id}
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, estimation_id, description, category, quantity, unit, unit_price, line_order
		FROM estimation_items WHERE estimation_id = $1 ORDER BY line_order, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item estimations.Item
		if err := rows.Scan(&item.ID, &item.EstimationID, &item.Description, &item.Category,
			&item.Quantity, &item.Unit, &item.UnitPrice, &item.LineOrder); err != nil {
			return nil, err
		}
		est.Items = append(est.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &est, nil
}

func (r *Repository) GetClient(ctx context.Context, id int64) (*estimations.Client, error) {
	const query = `SELECT id, name, gstin, state_code, address, location, pin FROM clients WHERE id = $1`
	var c estimations.Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.GSTIN, &c.StateCode, &c.Address, &c.Location, &c.Pin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "client", ID: id}
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetQuotation(ctx context.Context, id int64) (*quotations.Quotation, error) {
	const query = `
		SELECT id, number, estimation_id, client_id, status, supply_type, place_of_supply,
		       subtotal, tax_amount, discount, total_with_gst, converted_to_invoice_id,
		       created_by, created_at, updated_at
		FROM quotations WHERE id = $1`
	var q quotations.Quotation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Number, &q.EstimationID, &q.ClientID, &q.Status, &q.SupplyType,
		&q.PlaceOfSupply, &q.Subtotal, &q.TaxAmount, &q.Discount, &q.TotalWithGST,
		&q.ConvertedToInvoiceID, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "quotation", ID: id}
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, quotation_id, description, category, quantity, unit, unit_price,
		       hsn_sac_code, is_service, gst_rate, taxable_value,
		       cgst_amount, sgst_amount, igst_amount, line_total, line_order
		FROM quotation_items WHERE quotation_id = $1 ORDER BY line_order, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item quotations.Item
		if err := rows.Scan(&item.ID, &item.QuotationID, &item.Description, &item.Category,
			&item.Quantity, &item.Unit, &item.UnitPrice, &item.HSNSACCode, &item.IsService,
			&item.GSTRate, &item.TaxableValue, &item.CGSTAmount, &item.SGSTAmount,
			&item.IGSTAmount, &item.LineTotal, &item.LineOrder); err != nil {
			return nil, err
		}
		q.Items = append(q.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repository) GetInvoice(ctx context.Context, id int64) (*invoices.Invoice, error) {
	return scanInvoice(ctx, r.pool, id)
}

// scanInvoice loads an invoice with its items; shared with the e-invoice
// repository which reads the same shape.
func scanInvoice(ctx context.Context, q dbtx, id int64) (*invoices.Invoice, error) {
	const query = `
		SELECT id, number, quotation_id, client_id, invoice_date, due_date, payment_terms,
		       invoice_type, buyer_name, buyer_gstin, buyer_address, buyer_location, buyer_pin,
		       place_of_supply, supply_type, subtotal, cgst_total, sgst_total, igst_total,
		       discount, total_with_gst, paid_amount, outstanding_amount,
		       status, e_invoice_status, irn, ack_no, ack_date,
		       created_by, created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv invoices.Invoice
	err := q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.QuotationID, &inv.ClientID, &inv.InvoiceDate, &inv.DueDate,
		&inv.PaymentTerms, &inv.InvoiceType, &inv.BuyerName, &inv.BuyerGSTIN, &inv.BuyerAddress,
		&inv.BuyerLocation, &inv.BuyerPin, &inv.PlaceOfSupply, &inv.SupplyType, &inv.Subtotal,
		&inv.CGSTTotal, &inv.SGSTTotal, &inv.IGSTTotal, &inv.Discount, &inv.TotalWithGST,
		&inv.PaidAmount, &inv.Outstanding, &inv.Status, &inv.EInvoiceStatus,
		&inv.IRN, &inv.AckNo, &inv.AckDate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "invoice", ID: id}
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, invoice_id, description, category, quantity, unit, unit_price,
		       hsn_sac_code, is_service, gst_rate, taxable_value,
		       cgst_amount, sgst_amount, igst_amount, line_total, line_order
		FROM invoice_items WHERE invoice_id = $1 ORDER BY line_order, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item invoices.Item
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Category,
			&item.Quantity, &item.Unit, &item.UnitPrice, &item.HSNSACCode, &item.IsService,
			&item.GSTRate, &item.TaxableValue, &item.CGSTAmount, &item.SGSTAmount,
			&item.IGSTAmount, &item.LineTotal, &item.LineOrder); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateEstimationStatus applies a status change conditionally on the current
// status so concurrent updates cannot skip a transition.
func (r *Repository) UpdateEstimationStatus(ctx context.Context, id int64, from, to docstate.EstimationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE estimations SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.ConflictError{State: string(from), Message: "estimation status changed concurrently"}
	}
	return nil
}

func (r *Repository) UpdateQuotationStatus(ctx context.Context, id int64, from, to docstate.QuotationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quotations SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.ConflictError{State: string(from), Message: "quotation status changed concurrently"}
	}
	return nil
}

func (r *Repository) UpdateInvoiceStatus(ctx context.Context, id int64, from, to docstate.InvoiceStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.ConflictError{State: string(from), Message: "invoice status changed concurrently"}
	}
	return nil
}

// GenerateNumber allocates the next document number for a type and period.
// Format: {TYPE}-{YYMM}-{SEQ}. Allocation happens inside the conversion
// transaction, so a failed conversion may leave a gap but never a duplicate.
func (t *txRepo) GenerateNumber(ctx context.Context, docType string, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := t.tx.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, docType, period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", docType, date.Format("0601"), seq), nil
}

func (t *txRepo) CreateQuotation(ctx context.Context, q quotations.Quotation) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO quotations (number, estimation_id, client_id, status, supply_type,
			place_of_supply, subtotal, tax_amount, discount, total_with_gst, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		q.Number, q.EstimationID, q.ClientID, q.Status, q.SupplyType, q.PlaceOfSupply,
		q.Subtotal, q.TaxAmount, q.Discount, q.TotalWithGST, q.CreatedBy,
	).Scan(&id)
	return id, err
}

func (t *txRepo) InsertQuotationItem(ctx context.Context, item quotations.Item) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO quotation_items (quotation_id, description, category, quantity, unit,
			unit_price, hsn_sac_code, is_service, gst_rate, taxable_value,
			cgst_amount, sgst_amount, igst_amount, line_total, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		item.QuotationID, item.Description, item.Category, item.Quantity, item.Unit,
		item.UnitPrice, item.HSNSACCode, item.IsService, item.GSTRate, item.TaxableValue,
		item.CGSTAmount, item.SGSTAmount, item.IGSTAmount, item.LineTotal, item.LineOrder,
	).Scan(&id)
	return id, err
}

// MarkEstimationConverted flips the source exactly once. The conditional
// predicate plus the unique constraint on converted_to_quotation_id serialize
// duplicate conversion attempts.
func (t *txRepo) MarkEstimationConverted(ctx context.Context, estimationID, quotationID int64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE estimations
		SET status = $1, converted_to_quotation_id = $2, updated_at = now()
		WHERE id = $3 AND converted_to_quotation_id IS NULL`,
		docstate.EstimationConverted, quotationID, estimationID)
	if err != nil {
		if isUniqueViolation(err) {
			return &shared.ConflictError{State: string(docstate.EstimationConverted), Message: "already converted"}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.ConflictError{State: string(docstate.EstimationConverted), Message: "already converted"}
	}
	return nil
}

func (t *txRepo) CreateInvoice(ctx context.Context, inv invoices.Invoice) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO invoices (number, quotation_id, client_id, invoice_date, due_date,
			payment_terms, invoice_type, buyer_name, buyer_gstin, buyer_address,
			buyer_location, buyer_pin, place_of_supply, supply_type,
			subtotal, cgst_total, sgst_total, igst_total, discount, total_with_gst,
			paid_amount, outstanding_amount, status, e_invoice_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id`,
		inv.Number, inv.QuotationID, inv.ClientID, inv.InvoiceDate, inv.DueDate,
		inv.PaymentTerms, inv.InvoiceType, inv.BuyerName, inv.BuyerGSTIN, inv.BuyerAddress,
		inv.BuyerLocation, inv.BuyerPin, inv.PlaceOfSupply, inv.SupplyType,
		inv.Subtotal, inv.CGSTTotal, inv.SGSTTotal, inv.IGSTTotal, inv.Discount,
		inv.TotalWithGST, inv.PaidAmount, inv.Outstanding, inv.Status, inv.EInvoiceStatus,
		inv.CreatedBy,
	).Scan(&id)
	return id, err
}

func (t *txRepo) InsertInvoiceItem(ctx context.Context, item invoices.Item) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, description, category, quantity, unit,
			unit_price, hsn_sac_code, is_service, gst_rate, taxable_value,
			cgst_amount, sgst_amount, igst_amount, line_total, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		item.InvoiceID, item.Description, item.Category, item.Quantity, item.Unit,
		item.UnitPrice, item.HSNSACCode, item.IsService, item.GSTRate, item.TaxableValue,
		item.CGSTAmount, item.SGSTAmount, item.IGSTAmount, item.LineTotal, item.LineOrder,
	).Scan(&id)
	return id, err
}

func (t *txRepo) MarkQuotationConverted(ctx context.Context, quotationID, invoiceID int64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE quotations
		SET status = $1, converted_to_invoice_id = $2, updated_at = now()
		WHERE id = $3 AND converted_to_invoice_id IS NULL`,
		docstate.QuotationConverted, invoiceID, quotationID)
	if err != nil {
		if isUniqueViolation(err) {
			return &shared.ConflictError{State: string(docstate.QuotationConverted), Message: "already converted"}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.ConflictError{State: string(docstate.QuotationConverted), Message: "already converted"}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
