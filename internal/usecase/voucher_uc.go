package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
	"virtualfit-backend/internal/infra/metrics"
)

// Compile-time check
var _ VoucherUseCase = (*voucherUC)(nil)

// VoucherQuote is the priced result of a successful validation.
type VoucherQuote struct {
	Voucher       *model.Voucher
	OriginalPrice float64
	Discount      float64
	FinalPrice    float64
	IsFree        bool
}

// VoucherInput carries admin-supplied voucher fields. Zero values fall back
// to the historical defaults (percentage / 100 / active).
type VoucherInput struct {
	Code            string
	DiscountType    model.DiscountType
	DiscountValue   *float64
	ApplicablePlans *string
	IsActive        *bool
	ValidUntil      *time.Time
	MaxUses         *int
}

// VoucherUseCase validates and creates discount codes. Validation is
// side-effect free; redemption happens only inside the charge transaction.
type VoucherUseCase interface {
	Validate(ctx context.Context, code, planID string) (*VoucherQuote, error)
	Create(ctx context.Context, in VoucherInput) (*model.Voucher, error)
}

type voucherUC struct {
	vouchers repository.VoucherRepository
	catalog  *model.PlanCatalog
	log      *zerolog.Logger
}

func NewVoucherUseCase(vouchers repository.VoucherRepository, catalog *model.PlanCatalog, logger *zerolog.Logger) *voucherUC {
	return &voucherUC{vouchers: vouchers, catalog: catalog, log: logger}
}

func (uc *voucherUC) Validate(ctx context.Context, code, planID string) (*VoucherQuote, error) {
	code = model.NormalizeVoucherCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code", domain.ErrInvalidArgument)
	}

	v, err := uc.vouchers.FindByCode(ctx, repository.NoTX, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncVoucherValidation("not_found")
		}
		return nil, err
	}

	if err := v.Validate(planID, time.Now()); err != nil {
		metrics.IncVoucherValidation(voucherFailureReason(err))
		return nil, err
	}
	metrics.IncVoucherValidation("valid")

	// Without a plan the quote prices against 0, matching the public
	// validate endpoint's contract.
	var base float64
	if planID != "" {
		if plan, ok := uc.catalog.Find(planID); ok {
			base = plan.PriceMonthly
		}
	}
	discount := v.Discount(base)
	final := base - discount
	if final < 0 {
		final = 0
	}
	return &VoucherQuote{
		Voucher:       v,
		OriginalPrice: base,
		Discount:      discount,
		FinalPrice:    final,
		IsFree:        final == 0,
	}, nil
}

func (uc *voucherUC) Create(ctx context.Context, in VoucherInput) (*model.Voucher, error) {
	code := model.NormalizeVoucherCode(in.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code", domain.ErrInvalidArgument)
	}

	now := time.Now()
	v := &model.Voucher{
		Code:            code,
		DiscountType:    in.DiscountType,
		DiscountValue:   100,
		ApplicablePlans: in.ApplicablePlans,
		IsActive:        true,
		ValidFrom:       &now,
		ValidUntil:      in.ValidUntil,
		MaxUses:         in.MaxUses,
		CreatedAt:       now,
	}
	if v.DiscountType == "" {
		v.DiscountType = model.DiscountTypePercentage
	}
	if in.DiscountValue != nil {
		v.DiscountValue = *in.DiscountValue
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}

	if err := uc.vouchers.Save(ctx, repository.NoTX, v); err != nil {
		return nil, err
	}
	uc.log.Info().Str("code", v.Code).Str("type", string(v.DiscountType)).Msg("voucher created")
	return v, nil
}

// voucherFailureReason maps validation sentinels to short metric labels.
func voucherFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrVoucherInactive):
		return "inactive"
	case errors.Is(err, domain.ErrVoucherNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, domain.ErrVoucherExpired):
		return "expired"
	case errors.Is(err, domain.ErrVoucherLimitReached):
		return "limit_reached"
	case errors.Is(err, domain.ErrVoucherPlanNotEligible):
		return "plan_not_eligible"
	}
	return "invalid"
}
