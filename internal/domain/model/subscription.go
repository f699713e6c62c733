package model

import (
	"time"

	"virtualfit-backend/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrial          SubscriptionStatus = "trial"
	SubscriptionStatusPendingPayment SubscriptionStatus = "pending_payment"
	SubscriptionStatusActive         SubscriptionStatus = "active"
	SubscriptionStatusCancelled      SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired        SubscriptionStatus = "expired"
)

// ValidSubscriptionStatus reports whether s is a known status value.
func ValidSubscriptionStatus(s SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusTrial, SubscriptionStatusPendingPayment,
		SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// PeriodDays returns the billing period length in days.
func (c BillingCycle) PeriodDays() int {
	if c == BillingCycleYearly {
		return 365
	}
	return 30
}

// Subscription tracks one outlet's plan. There is at most one per outlet and
// it is never hard-deleted.
type Subscription struct {
	ID                     int64
	OutletID               int64
	PlanName               string
	PlanPrice              float64
	BillingCycle           BillingCycle
	Status                 SubscriptionStatus
	TrialEndsAt            *time.Time
	StartedAt              time.Time
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	CancelledAt            *time.Time
	DefaultPaymentMethodID *int64
}

// NewTrialSubscription creates a fresh trial for an outlet.
func NewTrialSubscription(outletID int64, trialDays int) (*Subscription, error) {
	if outletID <= 0 || trialDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	ends := now.Add(time.Duration(trialDays) * 24 * time.Hour)
	return &Subscription{
		OutletID:     outletID,
		PlanName:     "trial",
		PlanPrice:    0,
		BillingCycle: BillingCycleMonthly,
		Status:       SubscriptionStatusTrial,
		TrialEndsAt:  &ends,
		StartedAt:    now,
	}, nil
}

func (s *Subscription) IsTrial() bool { return s.Status == SubscriptionStatusTrial }

// IsActive reports whether the paid subscription is currently usable.
func (s *Subscription) IsActive() bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	if s.CurrentPeriodEnd != nil && time.Now().After(*s.CurrentPeriodEnd) {
		return false
	}
	return true
}

// Refresh applies lazy, read-triggered expiry: a trial past its end or an
// active subscription past its period flips to expired. Returns true when the
// status changed and the caller must persist.
func (s *Subscription) Refresh(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusTrial:
		if s.TrialEndsAt != nil && now.After(*s.TrialEndsAt) {
			s.Status = SubscriptionStatusExpired
			return true
		}
	case SubscriptionStatusActive:
		if s.CurrentPeriodEnd != nil && now.After(*s.CurrentPeriodEnd) {
			s.Status = SubscriptionStatusExpired
			return true
		}
	}
	return false
}

// DaysRemaining returns whole days until the trial or period end, floored at 0.
func (s *Subscription) DaysRemaining() int {
	var until *time.Time
	switch s.Status {
	case SubscriptionStatusTrial:
		until = s.TrialEndsAt
	case SubscriptionStatusActive:
		until = s.CurrentPeriodEnd
	}
	if until == nil {
		return 0
	}
	days := int(time.Until(*until).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// SelectPlan moves the subscription to pending_payment with the target plan's
// price. The billing period is untouched until payment succeeds.
func (s *Subscription) SelectPlan(plan Plan) {
	s.PlanName = plan.ID
	s.PlanPrice = plan.PriceMonthly
	s.Status = SubscriptionStatusPendingPayment
}

// Activate starts a new billing period and records the default payment method.
// Callers must persist this together with the invoice in one transaction.
func (s *Subscription) Activate(now time.Time, paymentMethodID int64) {
	end := now.Add(time.Duration(s.BillingCycle.PeriodDays()) * 24 * time.Hour)
	s.Status = SubscriptionStatusActive
	s.CurrentPeriodStart = &now
	s.CurrentPeriodEnd = &end
	s.TrialEndsAt = nil
	s.DefaultPaymentMethodID = &paymentMethodID
}

// Cancel marks the subscription cancelled. No refunds.
func (s *Subscription) Cancel(now time.Time) {
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
}
