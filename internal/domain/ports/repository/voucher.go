package repository

import (
	"context"

	"virtualfit-backend/internal/domain/model"
)

// VoucherRepository is the port for discount codes.
type VoucherRepository interface {
	// Save inserts when v.ID is zero (populating it) and updates otherwise.
	// Returns domain.ErrAlreadyExists on a duplicate code.
	Save(ctx context.Context, tx Tx, v *model.Voucher) error
	// FindByCode looks up by exact (already normalized) code and locks the row
	// FOR UPDATE when tx is a transaction.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.Voucher, error)
	// Redeem increments times_used if and only if the usage cap allows it.
	// Returns false when the cap was already reached; the check and increment
	// are one atomic statement, never a read-then-write. Takes the full voucher
	// so caching layers can drop the entry for v.Code.
	Redeem(ctx context.Context, tx Tx, v *model.Voucher) (bool, error)
}
