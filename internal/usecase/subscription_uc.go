package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
	"virtualfit-backend/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase governs the trial → pending_payment → active →
// expired/cancelled lifecycle. Expiry is lazy: every read re-validates the
// status against the clock, so no background sweeper is needed.
type SubscriptionUseCase interface {
	// GetOrCreate returns the outlet's subscription, creating a fresh trial on
	// first access. Idempotent per outlet.
	GetOrCreate(ctx context.Context, outletID int64) (*model.Subscription, error)
	// SelectPlan marks the subscription pending_payment with the target plan's
	// price. The billing period is untouched until payment succeeds.
	SelectPlan(ctx context.Context, outletID int64, planID string) (*model.Subscription, error)
	// UpdateStatus sets an explicit status; "cancelled" stamps cancelled_at.
	UpdateStatus(ctx context.Context, subscriptionID int64, status model.SubscriptionStatus) (*model.Subscription, error)
	// CountByStatus powers the admin stats endpoint and status gauges.
	CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error)
}

type subscriptionUC struct {
	subs      repository.SubscriptionRepository
	catalog   *model.PlanCatalog
	trialDays int
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, catalog *model.PlanCatalog, trialDays int, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, catalog: catalog, trialDays: trialDays, log: logger}
}

func (uc *subscriptionUC) GetOrCreate(ctx context.Context, outletID int64) (*model.Subscription, error) {
	if outletID <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	sub, err := uc.subs.FindByOutlet(ctx, repository.NoTX, outletID)
	switch {
	case err == nil:
		return uc.refresh(ctx, sub)
	case errors.Is(err, domain.ErrNotFound):
		// fall through to trial creation
	default:
		return nil, err
	}

	sub, err = model.NewTrialSubscription(outletID, uc.trialDays)
	if err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		// Two first-reads racing: the unique outlet constraint rejects one,
		// which then just loads the winner's row.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return uc.subs.FindByOutlet(ctx, repository.NoTX, outletID)
		}
		return nil, err
	}
	uc.log.Info().Int64("outlet_id", outletID).Int64("subscription_id", sub.ID).Msg("trial subscription created")
	metrics.IncSubscriptionTransition(string(model.SubscriptionStatusTrial))
	return sub, nil
}

// refresh persists a lazy expiry flip before handing the subscription back.
func (uc *subscriptionUC) refresh(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	if !sub.Refresh(time.Now()) {
		return sub, nil
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("subscription_id", sub.ID).Msg("subscription expired on read")
	metrics.IncSubscriptionTransition(string(model.SubscriptionStatusExpired))
	return sub, nil
}

func (uc *subscriptionUC) SelectPlan(ctx context.Context, outletID int64, planID string) (*model.Subscription, error) {
	plan, ok := uc.catalog.Find(planID)
	if !ok {
		return nil, domain.ErrInvalidPlan
	}

	sub, err := uc.GetOrCreate(ctx, outletID)
	if err != nil {
		return nil, err
	}

	sub.SelectPlan(plan)
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("subscription_id", sub.ID).Str("plan", plan.ID).Msg("plan selected")
	metrics.IncSubscriptionTransition(string(model.SubscriptionStatusPendingPayment))
	return sub, nil
}

func (uc *subscriptionUC) UpdateStatus(ctx context.Context, subscriptionID int64, status model.SubscriptionStatus) (*model.Subscription, error) {
	if !model.ValidSubscriptionStatus(status) {
		return nil, domain.ErrInvalidArgument
	}

	sub, err := uc.subs.FindByID(ctx, repository.NoTX, subscriptionID)
	if err != nil {
		return nil, err
	}

	if status == model.SubscriptionStatusCancelled {
		sub.Cancel(time.Now())
	} else {
		sub.Status = status
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("subscription_id", sub.ID).Str("status", string(status)).Msg("subscription status updated")
	metrics.IncSubscriptionTransition(string(status))
	return sub, nil
}

func (uc *subscriptionUC) CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error) {
	counts, err := uc.subs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	for status, n := range counts {
		metrics.SetSubscriptionsByStatus(string(status), n)
	}
	return counts, nil
}
