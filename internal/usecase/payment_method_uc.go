package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentMethodUseCase = (*paymentMethodUC)(nil)

// PaymentMethodInput carries card fields for Add.
type PaymentMethodInput struct {
	CardBrand      string
	CardLast4      string
	CardExpiry     string
	CardHolderName string
	IsDefault      bool
}

// PaymentMethodUseCase manages a subscription's stored cards while keeping
// the single-default invariant: whenever any methods exist, exactly one is
// default. Sibling updates run inside one transaction under the subscription
// row lock, never by application-level ordering alone.
type PaymentMethodUseCase interface {
	Add(ctx context.Context, subscriptionID int64, in PaymentMethodInput) (*model.PaymentMethod, error)
	List(ctx context.Context, subscriptionID int64) ([]*model.PaymentMethod, error)
	Remove(ctx context.Context, subscriptionID, methodID int64) error
	SetDefault(ctx context.Context, subscriptionID, methodID int64) (*model.PaymentMethod, error)
}

type paymentMethodUC struct {
	subs    repository.SubscriptionRepository
	methods repository.PaymentMethodRepository
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewPaymentMethodUseCase(subs repository.SubscriptionRepository, methods repository.PaymentMethodRepository, tm repository.TransactionManager, logger *zerolog.Logger) *paymentMethodUC {
	return &paymentMethodUC{subs: subs, methods: methods, tm: tm, log: logger}
}

func (uc *paymentMethodUC) Add(ctx context.Context, subscriptionID int64, in PaymentMethodInput) (*model.PaymentMethod, error) {
	if in.CardLast4 == "" {
		return nil, fmt.Errorf("%w: card_last4", domain.ErrInvalidArgument)
	}
	if in.CardBrand == "" {
		in.CardBrand = "visa"
	}

	var method *model.PaymentMethod
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub, err := uc.subs.FindByID(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}

		count, err := uc.methods.CountBySubscription(ctx, tx, sub.ID)
		if err != nil {
			return err
		}

		m := &model.PaymentMethod{
			SubscriptionID: sub.ID,
			CardBrand:      in.CardBrand,
			CardLast4:      in.CardLast4,
			CardExpiry:     in.CardExpiry,
			CardHolderName: in.CardHolderName,
			// The first method is always default regardless of the request.
			IsDefault: count == 0 || in.IsDefault,
			CreatedAt: time.Now(),
		}
		if err := uc.methods.Save(ctx, tx, m); err != nil {
			return err
		}
		if m.IsDefault {
			if err := uc.methods.ClearDefaults(ctx, tx, sub.ID, m.ID); err != nil {
				return err
			}
			sub.DefaultPaymentMethodID = &m.ID
			if err := uc.subs.Save(ctx, tx, sub); err != nil {
				return err
			}
		}
		method = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("subscription_id", subscriptionID).Int64("payment_method_id", method.ID).Bool("default", method.IsDefault).Msg("payment method added")
	return method, nil
}

func (uc *paymentMethodUC) List(ctx context.Context, subscriptionID int64) ([]*model.PaymentMethod, error) {
	return uc.methods.ListBySubscription(ctx, repository.NoTX, subscriptionID)
}

func (uc *paymentMethodUC) Remove(ctx context.Context, subscriptionID, methodID int64) error {
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub, err := uc.subs.FindByID(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}

		m, err := uc.methods.FindByID(ctx, tx, methodID)
		if err != nil {
			return err
		}
		if m.SubscriptionID != sub.ID {
			return domain.ErrNotFound
		}

		wasDefault := m.IsDefault
		if err := uc.methods.Delete(ctx, tx, m.ID); err != nil {
			return err
		}
		if !wasDefault {
			return nil
		}

		// The default is gone: promote the first remaining sibling, or clear
		// the subscription's reference when none remain.
		remaining, err := uc.methods.ListBySubscription(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			next := remaining[0]
			next.IsDefault = true
			if err := uc.methods.Save(ctx, tx, next); err != nil {
				return err
			}
			sub.DefaultPaymentMethodID = &next.ID
		} else {
			sub.DefaultPaymentMethodID = nil
		}
		return uc.subs.Save(ctx, tx, sub)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("subscription_id", subscriptionID).Int64("payment_method_id", methodID).Msg("payment method removed")
	return nil
}

func (uc *paymentMethodUC) SetDefault(ctx context.Context, subscriptionID, methodID int64) (*model.PaymentMethod, error) {
	var method *model.PaymentMethod
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub, err := uc.subs.FindByID(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}

		m, err := uc.methods.FindByID(ctx, tx, methodID)
		if err != nil {
			return err
		}
		if m.SubscriptionID != sub.ID {
			return domain.ErrNotFound
		}

		if err := uc.methods.ClearDefaults(ctx, tx, sub.ID, m.ID); err != nil {
			return err
		}
		if !m.IsDefault {
			m.IsDefault = true
			if err := uc.methods.Save(ctx, tx, m); err != nil {
				return err
			}
		}
		sub.DefaultPaymentMethodID = &m.ID
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		method = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return method, nil
}
