package repository

import (
	"context"

	"virtualfit-backend/internal/domain/model"
)

// PaymentMethodRepository is the port for stored cards.
type PaymentMethodRepository interface {
	// Save inserts when m.ID is zero (populating it) and updates otherwise.
	Save(ctx context.Context, tx Tx, m *model.PaymentMethod) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.PaymentMethod, error)
	// ListBySubscription returns methods ordered by id ascending.
	ListBySubscription(ctx context.Context, tx Tx, subscriptionID int64) ([]*model.PaymentMethod, error)
	CountBySubscription(ctx context.Context, tx Tx, subscriptionID int64) (int, error)
	// ClearDefaults unsets is_default on every method of the subscription
	// except exceptID (pass 0 to clear all).
	ClearDefaults(ctx context.Context, tx Tx, subscriptionID, exceptID int64) error
	Delete(ctx context.Context, tx Tx, id int64) error
}
