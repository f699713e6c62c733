package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/ports/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

// productRepo only counts catalog rows; product CRUD belongs to the catalog
// service and is out of scope here.
type productRepo struct{ pool *pgxpool.Pool }

func NewProductRepo(pool *pgxpool.Pool) *productRepo {
	return &productRepo{pool: pool}
}

func (r *productRepo) CountByOutlet(ctx context.Context, tx repository.Tx, outletID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM products WHERE outlet_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, outletID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
