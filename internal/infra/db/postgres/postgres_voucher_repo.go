package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
)

var _ repository.VoucherRepository = (*voucherRepo)(nil)

type voucherRepo struct{ pool *pgxpool.Pool }

func NewVoucherRepo(pool *pgxpool.Pool) *voucherRepo {
	return &voucherRepo{pool: pool}
}

const voucherColumns = `id, code, discount_type, discount_value, applicable_plans, is_active, valid_from, valid_until, max_uses, times_used, created_at`

func (r *voucherRepo) Save(ctx context.Context, tx repository.Tx, v *model.Voucher) error {
	if v.ID == 0 {
		const q = `
INSERT INTO vouchers (code, discount_type, discount_value, applicable_plans, is_active, valid_from, valid_until, max_uses, times_used, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id;`
		row, err := pickRow(ctx, r.pool, tx, q,
			v.Code, v.DiscountType, v.DiscountValue, v.ApplicablePlans, v.IsActive,
			v.ValidFrom, v.ValidUntil, v.MaxUses, v.TimesUsed, v.CreatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&v.ID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
		return nil
	}

	const q = `
UPDATE vouchers
   SET discount_type=$2, discount_value=$3, applicable_plans=$4, is_active=$5,
       valid_from=$6, valid_until=$7, max_uses=$8, times_used=$9
 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q,
		v.ID, v.DiscountType, v.DiscountValue, v.ApplicablePlans, v.IsActive,
		v.ValidFrom, v.ValidUntil, v.MaxUses, v.TimesUsed)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *voucherRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Voucher, error) {
	q := `SELECT ` + voucherColumns + ` FROM vouchers WHERE code=$1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}

	v := &model.Voucher{}
	var dt string
	if err := row.Scan(&v.ID, &v.Code, &dt, &v.DiscountValue, &v.ApplicablePlans,
		&v.IsActive, &v.ValidFrom, &v.ValidUntil, &v.MaxUses, &v.TimesUsed, &v.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	v.DiscountType = model.DiscountType(dt)
	return v, nil
}

// Redeem is a conditional increment: the usage-cap check and the counter bump
// happen in one statement so two concurrent charges can never both redeem the
// last use of a capped voucher.
func (r *voucherRepo) Redeem(ctx context.Context, tx repository.Tx, v *model.Voucher) (bool, error) {
	const q = `
UPDATE vouchers
   SET times_used = times_used + 1
 WHERE id=$1 AND (max_uses IS NULL OR times_used < max_uses);`
	tag, err := execSQL(ctx, r.pool, tx, q, v.ID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() > 0, nil
}
