package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// voucherErrorMessage maps the validation sentinels to the user-facing strings.
func voucherErrorMessage(err error, planID string) string {
	switch {
	case errors.Is(err, domain.ErrVoucherInactive):
		return "Voucher is not active"
	case errors.Is(err, domain.ErrVoucherNotYetValid):
		return "Voucher is not yet valid"
	case errors.Is(err, domain.ErrVoucherExpired):
		return "Voucher has expired"
	case errors.Is(err, domain.ErrVoucherLimitReached):
		return "Voucher usage limit reached"
	case errors.Is(err, domain.ErrVoucherPlanNotEligible):
		return fmt.Sprintf("Voucher not valid for %s plan", planID)
	}
	return "Invalid voucher"
}

// ===== Wire payloads =====

type paymentMethodPayload struct {
	ID         int64     `json:"id"`
	Brand      string    `json:"brand"`
	Last4      string    `json:"last4"`
	Expiry     string    `json:"expiry"`
	HolderName string    `json:"holder_name"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPaymentMethodPayload(m *model.PaymentMethod) paymentMethodPayload {
	return paymentMethodPayload{
		ID:         m.ID,
		Brand:      m.CardBrand,
		Last4:      m.CardLast4,
		Expiry:     m.CardExpiry,
		HolderName: m.CardHolderName,
		IsDefault:  m.IsDefault,
		CreatedAt:  m.CreatedAt,
	}
}

type subscriptionPayload struct {
	ID                        int64                  `json:"id"`
	OutletID                  int64                  `json:"outlet_id"`
	PlanName                  string                 `json:"plan_name"`
	PlanPrice                 float64                `json:"plan_price"`
	BillingCycle              string                 `json:"billing_cycle"`
	Status                    string                 `json:"status"`
	IsTrial                   bool                   `json:"is_trial"`
	IsActive                  bool                   `json:"is_active"`
	TrialEndsAt               *time.Time             `json:"trial_ends_at"`
	TrialDaysRemaining        int                    `json:"trial_days_remaining"`
	SubscriptionDaysRemaining int                    `json:"subscription_days_remaining"`
	ProductLimit              *int                   `json:"product_limit"`
	StartedAt                 time.Time              `json:"started_at"`
	CurrentPeriodStart        *time.Time             `json:"current_period_start"`
	CurrentPeriodEnd          *time.Time             `json:"current_period_end"`
	CancelledAt               *time.Time             `json:"cancelled_at"`
	PaymentMethod             *paymentMethodPayload  `json:"payment_method"`
	PaymentMethods            []paymentMethodPayload `json:"payment_methods,omitempty"`
}

// toSubscriptionPayload builds the wire shape. methods may be nil; when
// present, the subscription's default method is embedded and the full list
// attached.
func toSubscriptionPayload(s *model.Subscription, catalog *model.PlanCatalog, methods []*model.PaymentMethod) subscriptionPayload {
	p := subscriptionPayload{
		ID:                 s.ID,
		OutletID:           s.OutletID,
		PlanName:           s.PlanName,
		PlanPrice:          s.PlanPrice,
		BillingCycle:       string(s.BillingCycle),
		Status:             string(s.Status),
		IsTrial:            s.IsTrial(),
		IsActive:           s.IsActive(),
		TrialEndsAt:        s.TrialEndsAt,
		ProductLimit:       catalog.ProductLimit(s.PlanName),
		StartedAt:          s.StartedAt,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelledAt:        s.CancelledAt,
	}
	switch s.Status {
	case model.SubscriptionStatusTrial:
		p.TrialDaysRemaining = s.DaysRemaining()
	case model.SubscriptionStatusActive:
		p.SubscriptionDaysRemaining = s.DaysRemaining()
	}
	for _, m := range methods {
		mp := toPaymentMethodPayload(m)
		p.PaymentMethods = append(p.PaymentMethods, mp)
		if s.DefaultPaymentMethodID != nil && m.ID == *s.DefaultPaymentMethodID {
			cp := mp
			p.PaymentMethod = &cp
		}
	}
	return p
}

type invoicePayload struct {
	ID             int64      `json:"id"`
	InvoiceNumber  string     `json:"invoice_number"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at"`
	Description    string     `json:"description"`
	VoucherCode    *string    `json:"voucher_code"`
	DiscountAmount float64    `json:"discount_amount"`
}

func toInvoicePayload(inv *model.Invoice) invoicePayload {
	return invoicePayload{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		Amount:         inv.Amount,
		Currency:       inv.Currency,
		Status:         string(inv.Status),
		CreatedAt:      inv.CreatedAt,
		PaidAt:         inv.PaidAt,
		Description:    inv.Description,
		VoucherCode:    inv.VoucherCode,
		DiscountAmount: inv.DiscountAmount,
	}
}

type voucherPayload struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	DiscountType    string     `json:"discount_type"`
	DiscountValue   float64    `json:"discount_value"`
	ApplicablePlans []string   `json:"applicable_plans"`
	IsActive        bool       `json:"is_active"`
	ValidUntil      *time.Time `json:"valid_until"`
	MaxUses         *int       `json:"max_uses"`
	TimesUsed       int        `json:"times_used"`
}

func toVoucherPayload(v *model.Voucher) voucherPayload {
	return voucherPayload{
		ID:              v.ID,
		Code:            v.Code,
		DiscountType:    string(v.DiscountType),
		DiscountValue:   v.DiscountValue,
		ApplicablePlans: v.PlanList(),
		IsActive:        v.IsActive,
		ValidUntil:      v.ValidUntil,
		MaxUses:         v.MaxUses,
		TimesUsed:       v.TimesUsed,
	}
}

type planPayload struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	MaxItems *int     `json:"max_items"`
	Features []string `json:"features"`
}

func toPlanPayload(p model.Plan) planPayload {
	return planPayload{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.PriceMonthly,
		MaxItems: p.ProductLimit,
		Features: p.Features,
	}
}
