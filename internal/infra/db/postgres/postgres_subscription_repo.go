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

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, outlet_id, plan_name, plan_price, billing_cycle, status, trial_ends_at, started_at, current_period_start, current_period_end, cancelled_at, default_payment_method_id`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if s.ID == 0 {
		const q = `
INSERT INTO subscriptions (outlet_id, plan_name, plan_price, billing_cycle, status, trial_ends_at, started_at, current_period_start, current_period_end, cancelled_at, default_payment_method_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING id;`
		row, err := pickRow(ctx, r.pool, tx, q,
			s.OutletID, s.PlanName, s.PlanPrice, s.BillingCycle, s.Status,
			s.TrialEndsAt, s.StartedAt, s.CurrentPeriodStart, s.CurrentPeriodEnd,
			s.CancelledAt, s.DefaultPaymentMethodID)
		if err != nil {
			return err
		}
		if err := row.Scan(&s.ID); err != nil {
			return mapSaveError(err)
		}
		return nil
	}

	const q = `
UPDATE subscriptions
   SET plan_name=$2, plan_price=$3, billing_cycle=$4, status=$5, trial_ends_at=$6,
       current_period_start=$7, current_period_end=$8, cancelled_at=$9, default_payment_method_id=$10
 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.PlanName, s.PlanPrice, s.BillingCycle, s.Status, s.TrialEndsAt,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelledAt, s.DefaultPaymentMethodID)
	if err != nil {
		return mapSaveError(err)
	}
	return nil
}

func (r *subscriptionRepo) FindByOutlet(ctx context.Context, tx repository.Tx, outletID int64) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE outlet_id=$1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, outletID)
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, id)
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM subscriptions GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.SubscriptionStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.SubscriptionStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}

	s := &model.Subscription{}
	var status, cycle string
	if err := row.Scan(&s.ID, &s.OutletID, &s.PlanName, &s.PlanPrice, &cycle, &status,
		&s.TrialEndsAt, &s.StartedAt, &s.CurrentPeriodStart, &s.CurrentPeriodEnd,
		&s.CancelledAt, &s.DefaultPaymentMethodID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.BillingCycle = model.BillingCycle(cycle)
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}

// mapSaveError turns pg errors into domain errors; 23505 means the outlet
// already has a subscription (unique outlet_id).
func mapSaveError(err error) error {
	switch err {
	case nil:
		return nil
	case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrAlreadyExists
	}
	return domain.ErrOperationFailed
}
