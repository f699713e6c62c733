package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
)

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

type invoiceRepo struct{ pool *pgxpool.Pool }

func NewInvoiceRepo(pool *pgxpool.Pool) *invoiceRepo {
	return &invoiceRepo{pool: pool}
}

const invoiceColumns = `id, subscription_id, outlet_id, invoice_number, amount, currency, status, created_at, paid_at, description, voucher_code, discount_amount, ref_id`

// Save inserts only. There deliberately is no update path: invoices are
// immutable once written.
func (r *invoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	const q = `
INSERT INTO invoices (subscription_id, outlet_id, invoice_number, amount, currency, status, created_at, paid_at, description, voucher_code, discount_amount, ref_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING id;`
	row, err := pickRow(ctx, r.pool, tx, q,
		inv.SubscriptionID, inv.OutletID, inv.InvoiceNumber, inv.Amount, inv.Currency,
		inv.Status, inv.CreatedAt, inv.PaidAt, inv.Description, inv.VoucherCode,
		inv.DiscountAmount, inv.RefID)
	if err != nil {
		return err
	}
	if err := row.Scan(&inv.ID); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *invoiceRepo) CountBySubscription(ctx context.Context, tx repository.Tx, subscriptionID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM invoices WHERE subscription_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, subscriptionID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *invoiceRepo) ListByOutlet(ctx context.Context, tx repository.Tx, outletID int64, limit int) ([]*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE outlet_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, outletID, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Invoice
	for rows.Next() {
		inv := &model.Invoice{}
		var status string
		if err := rows.Scan(&inv.ID, &inv.SubscriptionID, &inv.OutletID, &inv.InvoiceNumber,
			&inv.Amount, &inv.Currency, &status, &inv.CreatedAt, &inv.PaidAt,
			&inv.Description, &inv.VoucherCode, &inv.DiscountAmount, &inv.RefID); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		inv.Status = model.InvoiceStatus(status)
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
