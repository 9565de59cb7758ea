package einvoice

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

// RepositoryPort defines data access for IRN lifecycle state.
type RepositoryPort interface {
	GetInvoice(ctx context.Context, id int64) (*invoices.Invoice, error)
	GetIRNRecord(ctx context.Context, invoiceID int64) (*IRNRecord, error)
	StoreIRN(ctx context.Context, invoiceID int64, result IRNResult, signedInvoice, signedQR string, requestJSON []byte) error
	MarkFailed(ctx context.Context, invoiceID int64) error
	MarkCancelled(ctx context.Context, invoiceID int64, irn string, reasonCode int, remarks string, at time.Time) error
}

// Repository provides PostgreSQL backed persistence for the IRN lifecycle.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetInvoice(ctx context.Context, id int64) (*invoices.Invoice, error) {
	const query = `
		SELECT id, number, client_id, invoice_date, due_date, invoice_type,
		       buyer_name, buyer_gstin, buyer_address, buyer_location, buyer_pin,
		       place_of_supply, supply_type, subtotal, cgst_total, sgst_total, igst_total,
		       discount, total_with_gst, status, e_invoice_status, irn, ack_no, ack_date
		FROM invoices WHERE id = $1`
	var inv invoices.Invoice
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.ClientID, &inv.InvoiceDate, &inv.DueDate, &inv.InvoiceType,
		&inv.BuyerName, &inv.BuyerGSTIN, &inv.BuyerAddress, &inv.BuyerLocation, &inv.BuyerPin,
		&inv.PlaceOfSupply, &inv.SupplyType, &inv.Subtotal, &inv.CGSTTotal, &inv.SGSTTotal,
		&inv.IGSTTotal, &inv.Discount, &inv.TotalWithGST, &inv.Status, &inv.EInvoiceStatus,
		&inv.IRN, &inv.AckNo, &inv.AckDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "invoice", ID: id}
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit, unit_price,
		       hsn_sac_code, is_service, gst_rate, taxable_value,
		       cgst_amount, sgst_amount, igst_amount, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY line_order, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item invoices.Item
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity,
			&item.Unit, &item.UnitPrice, &item.HSNSACCode, &item.IsService, &item.GSTRate,
			&item.TaxableValue, &item.CGSTAmount, &item.SGSTAmount, &item.IGSTAmount,
			&item.LineTotal); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) GetIRNRecord(ctx context.Context, invoiceID int64) (*IRNRecord, error) {
	const query = `
		SELECT id, invoice_id, irn, ack_no, ack_date, signed_invoice, signed_qr_code,
		       request_json, cancelled_at, cancel_reason, cancel_remarks, created_at
		FROM irn_records WHERE invoice_id = $1 ORDER BY created_at DESC LIMIT 1`
	var rec IRNRecord
	err := r.pool.QueryRow(ctx, query, invoiceID).Scan(
		&rec.ID, &rec.InvoiceID, &rec.IRN, &rec.AckNo, &rec.AckDate,
		&rec.SignedInvoice, &rec.SignedQRCode, &rec.RequestJSON,
		&rec.CancelledAt, &rec.CancelReason, &rec.CancelRemarks, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "irn_record", ID: invoiceID}
		}
		return nil, err
	}
	return &rec, nil
}

// StoreIRN commits the portal acknowledgement. The update re-validates that
// no IRN landed while the network call was in flight; losing that race is a
// conflict the service resolves by re-reading.
func (r *Repository) StoreIRN(ctx context.Context, invoiceID int64, result IRNResult, signedInvoice, signedQR string, requestJSON []byte) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE invoices
			SET irn = $1, ack_no = $2, ack_date = $3, e_invoice_status = $4, updated_at = now()
			WHERE id = $5 AND irn IS NULL`,
			result.IRN, result.AckNo, result.AckDate, docstate.EInvoiceGenerated, invoiceID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return &shared.ConflictError{
				State:   string(docstate.EInvoiceGenerated),
				Message: "IRN already recorded for invoice",
			}
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO irn_records (invoice_id, irn, ack_no, ack_date, signed_invoice, signed_qr_code, request_json)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			invoiceID, result.IRN, result.AckNo, result.AckDate, signedInvoice, signedQR, requestJSON)
		return err
	})
}

// MarkFailed records a portal rejection. Only the e-invoice status moves; the
// invoice itself and its IRN fields stay untouched so the call can be retried.
func (r *Repository) MarkFailed(ctx context.Context, invoiceID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE invoices SET e_invoice_status = $1, updated_at = now()
		WHERE id = $2 AND e_invoice_status IN ($3, $4) AND irn IS NULL`,
		docstate.EInvoiceFailed, invoiceID, docstate.EInvoicePending, docstate.EInvoiceFailed)
	return err
}

// MarkCancelled annotates the audit record and flips the status. The IRN is
// preserved on both rows.
func (r *Repository) MarkCancelled(ctx context.Context, invoiceID int64, irn string, reasonCode int, remarks string, at time.Time) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE invoices SET e_invoice_status = $1, updated_at = now()
			WHERE id = $2 AND e_invoice_status = $3`,
			docstate.EInvoiceCancelled, invoiceID, docstate.EInvoiceGenerated)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return &shared.ConflictError{
				State:   string(docstate.EInvoiceCancelled),
				Message: "e-invoice already cancelled",
			}
		}
		_, err = tx.Exec(ctx, `
			UPDATE irn_records
			SET cancelled_at = $1, cancel_reason = $2, cancel_remarks = $3
			WHERE invoice_id = $4 AND irn = $5 AND cancelled_at IS NULL`,
			at, reasonCode, remarks, invoiceID, irn)
		return err
	})
}
