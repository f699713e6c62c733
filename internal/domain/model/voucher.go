package model

import (
	"strings"
	"time"

	"virtualfit-backend/internal/domain"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypeFree       DiscountType = "free"
)

// Voucher is a global discount code, keyed by unique uppercase code.
// times_used is only incremented at successful payment time.
type Voucher struct {
	ID              int64
	Code            string
	DiscountType    DiscountType
	DiscountValue   float64
	ApplicablePlans *string // comma-separated plan ids; nil = all plans
	IsActive        bool
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	MaxUses         *int // nil = unlimited
	TimesUsed       int
	CreatedAt       time.Time
}

// NormalizeVoucherCode uppercases and trims a user-supplied code.
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PlanList splits the applicable-plans restriction. Empty means unrestricted.
func (v *Voucher) PlanList() []string {
	if v.ApplicablePlans == nil || *v.ApplicablePlans == "" {
		return nil
	}
	parts := strings.Split(*v.ApplicablePlans, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate runs the ordered eligibility checks. The first failing check wins.
// planID may be empty, which skips the plan restriction check.
// Validation never mutates the voucher.
func (v *Voucher) Validate(planID string, now time.Time) error {
	if !v.IsActive {
		return domain.ErrVoucherInactive
	}
	if v.ValidFrom != nil && now.Before(*v.ValidFrom) {
		return domain.ErrVoucherNotYetValid
	}
	if v.ValidUntil != nil && now.After(*v.ValidUntil) {
		return domain.ErrVoucherExpired
	}
	if v.MaxUses != nil && v.TimesUsed >= *v.MaxUses {
		return domain.ErrVoucherLimitReached
	}
	if planID != "" {
		if allowed := v.PlanList(); len(allowed) > 0 {
			ok := false
			for _, p := range allowed {
				if p == planID {
					ok = true
					break
				}
			}
			if !ok {
				return domain.ErrVoucherPlanNotEligible
			}
		}
	}
	return nil
}

// Discount returns the discount against base, clamped so the final price is
// never negative.
func (v *Voucher) Discount(base float64) float64 {
	var d float64
	switch v.DiscountType {
	case DiscountTypeFree:
		d = base
	case DiscountTypePercentage:
		d = base * (v.DiscountValue / 100)
	case DiscountTypeFixed:
		d = v.DiscountValue
	}
	if d > base {
		d = base
	}
	if d < 0 {
		d = 0
	}
	return d
}
