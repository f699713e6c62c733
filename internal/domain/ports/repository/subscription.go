package repository

import (
	"context"

	"virtualfit-backend/internal/domain/model"
)

// SubscriptionRepository is the port for outlet subscriptions.
type SubscriptionRepository interface {
	// Save inserts when s.ID is zero (populating it) and updates otherwise.
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	// FindByOutlet returns the outlet's subscription. At most one exists.
	FindByOutlet(ctx context.Context, tx Tx, outletID int64) (*model.Subscription, error)
	// FindByID locks the row FOR UPDATE when tx is a transaction.
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Subscription, error)
	// CountByStatus powers metrics and admin stats.
	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)
}
