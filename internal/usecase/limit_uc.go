package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ LimitUseCase = (*limitUC)(nil)

// LimitCheck reports whether the outlet may add another product. This is a
// structured answer, not an error: callers gate catalog inserts on CanAdd.
type LimitCheck struct {
	Limit        *int // nil = unlimited
	CurrentCount int
	CanAdd       bool
	Remaining    *int // nil = unlimited
	Plan         string
}

// LimitUseCase compares the outlet's catalog size against its plan tier.
type LimitUseCase interface {
	Check(ctx context.Context, outletID int64) (*LimitCheck, error)
}

type limitUC struct {
	subUC    SubscriptionUseCase
	products repository.ProductRepository
	catalog  *model.PlanCatalog
	log      *zerolog.Logger
}

func NewLimitUseCase(subUC SubscriptionUseCase, products repository.ProductRepository, catalog *model.PlanCatalog, logger *zerolog.Logger) *limitUC {
	return &limitUC{subUC: subUC, products: products, catalog: catalog, log: logger}
}

func (uc *limitUC) Check(ctx context.Context, outletID int64) (*LimitCheck, error) {
	sub, err := uc.subUC.GetOrCreate(ctx, outletID)
	if err != nil {
		return nil, err
	}

	count, err := uc.products.CountByOutlet(ctx, repository.NoTX, outletID)
	if err != nil {
		return nil, err
	}

	limit := uc.catalog.ProductLimit(sub.PlanName)
	check := &LimitCheck{
		Limit:        limit,
		CurrentCount: count,
		CanAdd:       limit == nil || count < *limit,
		Plan:         sub.PlanName,
	}
	if limit != nil {
		remaining := *limit - count
		if remaining < 0 {
			remaining = 0
		}
		check.Remaining = &remaining
	}
	return check, nil
}
