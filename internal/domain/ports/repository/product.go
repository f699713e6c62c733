package repository

import "context"

// ProductRepository exposes the single catalog query the billing core needs.
// Catalog CRUD lives with the product service; the usage limiter only counts.
type ProductRepository interface {
	CountByOutlet(ctx context.Context, tx Tx, outletID int64) (int, error)
}
