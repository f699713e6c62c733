package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
)

var _ repository.PaymentMethodRepository = (*paymentMethodRepo)(nil)

type paymentMethodRepo struct{ pool *pgxpool.Pool }

func NewPaymentMethodRepo(pool *pgxpool.Pool) *paymentMethodRepo {
	return &paymentMethodRepo{pool: pool}
}

const paymentMethodColumns = `id, subscription_id, card_brand, card_last4, card_expiry, card_holder_name, is_default, created_at`

func (r *paymentMethodRepo) Save(ctx context.Context, tx repository.Tx, m *model.PaymentMethod) error {
	if m.ID == 0 {
		const q = `
INSERT INTO payment_methods (subscription_id, card_brand, card_last4, card_expiry, card_holder_name, is_default, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id;`
		row, err := pickRow(ctx, r.pool, tx, q,
			m.SubscriptionID, m.CardBrand, m.CardLast4, m.CardExpiry, m.CardHolderName, m.IsDefault, m.CreatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&m.ID); err != nil {
			return domain.ErrOperationFailed
		}
		return nil
	}

	const q = `
UPDATE payment_methods
   SET card_brand=$2, card_last4=$3, card_expiry=$4, card_holder_name=$5, is_default=$6
 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.CardBrand, m.CardLast4, m.CardExpiry, m.CardHolderName, m.IsDefault)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentMethodRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PaymentMethod, error) {
	q := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id=$1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPaymentMethod(row)
}

func (r *paymentMethodRepo) ListBySubscription(ctx context.Context, tx repository.Tx, subscriptionID int64) ([]*model.PaymentMethod, error) {
	const q = `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE subscription_id=$1 ORDER BY id ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, subscriptionID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.PaymentMethod
	for rows.Next() {
		m := &model.PaymentMethod{}
		if err := rows.Scan(&m.ID, &m.SubscriptionID, &m.CardBrand, &m.CardLast4, &m.CardExpiry, &m.CardHolderName, &m.IsDefault, &m.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *paymentMethodRepo) CountBySubscription(ctx context.Context, tx repository.Tx, subscriptionID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM payment_methods WHERE subscription_id=$1;`
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

func (r *paymentMethodRepo) ClearDefaults(ctx context.Context, tx repository.Tx, subscriptionID, exceptID int64) error {
	const q = `UPDATE payment_methods SET is_default=FALSE WHERE subscription_id=$1 AND id<>$2;`
	_, err := execSQL(ctx, r.pool, tx, q, subscriptionID, exceptID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentMethodRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	const q = `DELETE FROM payment_methods WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPaymentMethod(row pgx.Row) (*model.PaymentMethod, error) {
	m := &model.PaymentMethod{}
	if err := row.Scan(&m.ID, &m.SubscriptionID, &m.CardBrand, &m.CardLast4, &m.CardExpiry, &m.CardHolderName, &m.IsDefault, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}
