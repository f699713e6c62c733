package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/infra/logging"
	"virtualfit-backend/internal/usecase"
)

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	outletID, err := strconv.ParseInt(r.URL.Query().Get("outlet_id"), 10, 64)
	if err != nil || outletID <= 0 {
		writeError(w, http.StatusBadRequest, "outlet_id is required")
		return
	}
	ctx = logging.WithOutletID(ctx, outletID)

	sub, err := s.subUC.GetOrCreate(ctx, outletID)
	if err != nil {
		s.internalError(w, r, err, "Failed to get subscription")
		return
	}
	methods, err := s.methodUC.List(ctx, sub.ID)
	if err != nil {
		s.internalError(w, r, err, "Failed to get payment methods")
		return
	}
	writeData(w, http.StatusOK, toSubscriptionPayload(sub, s.catalog, methods), "")
}

type selectPlanRequest struct {
	OutletID int64  `json:"outlet_id"`
	Plan     string `json:"plan"`
}

func (s *Server) handleSelectPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req selectPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OutletID == 0 || req.Plan == "" {
		writeError(w, http.StatusBadRequest, "outlet_id and plan required")
		return
	}

	sub, err := s.subUC.SelectPlan(ctx, req.OutletID, req.Plan)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPlan) {
			writeError(w, http.StatusBadRequest, "Invalid plan")
			return
		}
		s.internalError(w, r, err, "Failed to select plan")
		return
	}

	plan, _ := s.catalog.Find(req.Plan)
	writeData(w, http.StatusOK, toSubscriptionPayload(sub, s.catalog, nil),
		fmt.Sprintf("%s plan selected. Please add payment method and complete payment.", plan.Name))
}

type validateVoucherRequest struct {
	Code string `json:"code"`
	Plan string `json:"plan"`
}

func (s *Server) handleValidateVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Voucher code required")
		return
	}

	quote, err := s.voucherUC.Validate(ctx, req.Code, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Invalid voucher code")
		case domain.IsVoucherInvalid(err):
			writeError(w, http.StatusBadRequest, voucherErrorMessage(err, req.Plan))
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Voucher code required")
		default:
			s.internalError(w, r, err, "Failed to validate voucher")
		}
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"voucher":        toVoucherPayload(quote.Voucher),
		"original_price": quote.OriginalPrice,
		"discount":       quote.Discount,
		"final_price":    quote.FinalPrice,
		"is_free":        quote.IsFree,
	}, "")
}

type payRequest struct {
	SubscriptionID  int64  `json:"subscription_id"`
	PaymentMethodID int64  `json:"payment_method_id"`
	VoucherCode     string `json:"voucher_code"`
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SubscriptionID == 0 {
		writeError(w, http.StatusBadRequest, "subscription_id is required")
		return
	}
	if req.PaymentMethodID == 0 {
		writeError(w, http.StatusBadRequest, "payment_method_id is required")
		return
	}
	ctx = logging.WithSubscriptionID(ctx, req.SubscriptionID)

	res, err := s.billingUC.Charge(ctx, req.SubscriptionID, req.PaymentMethodID, req.VoucherCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Subscription not found")
		case errors.Is(err, domain.ErrOwnershipMismatch):
			writeError(w, http.StatusBadRequest, "Invalid payment method")
		case errors.Is(err, domain.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, "Invalid plan")
		case errors.Is(err, domain.ErrPaymentDeclined):
			writeError(w, http.StatusBadRequest, "Payment failed. Please try again.")
		default:
			s.internalError(w, r, err, "Payment failed. Please try again.")
		}
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"subscription": toSubscriptionPayload(res.Subscription, s.catalog, nil),
		"invoice":      toInvoicePayload(res.Invoice),
	}, "Payment successful! Your subscription is now active.")
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subID, ok := s.pathID(w, r, "subscriptionID")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	sub, err := s.subUC.UpdateStatus(ctx, subID, model.SubscriptionStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Subscription not found")
		default:
			s.internalError(w, r, err, "Failed to update subscription")
		}
		return
	}
	writeData(w, http.StatusOK, toSubscriptionPayload(sub, s.catalog, nil), "")
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subID, ok := s.pathID(w, r, "subscriptionID")
	if !ok {
		return
	}

	methods, err := s.methodUC.List(ctx, subID)
	if err != nil {
		s.internalError(w, r, err, "Failed to list cards")
		return
	}
	out := make([]paymentMethodPayload, 0, len(methods))
	for _, m := range methods {
		out = append(out, toPaymentMethodPayload(m))
	}
	writeData(w, http.StatusOK, out, "")
}

type addCardRequest struct {
	CardBrand      string `json:"card_brand"`
	CardLast4      string `json:"card_last4"`
	CardExpiry     string `json:"card_expiry"`
	CardHolderName string `json:"card_holder_name"`
	IsDefault      bool   `json:"is_default"`
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subID, ok := s.pathID(w, r, "subscriptionID")
	if !ok {
		return
	}

	var req addCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Card details required")
		return
	}

	method, err := s.methodUC.Add(ctx, subID, usecase.PaymentMethodInput{
		CardBrand:      req.CardBrand,
		CardLast4:      req.CardLast4,
		CardExpiry:     req.CardExpiry,
		CardHolderName: req.CardHolderName,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Card details required")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Subscription not found")
		default:
			s.internalError(w, r, err, "Failed to add card")
		}
		return
	}
	writeData(w, http.StatusCreated, toPaymentMethodPayload(method), "")
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subID, ok := s.pathID(w, r, "subscriptionID")
	if !ok {
		return
	}
	cardID, ok := s.pathID(w, r, "cardID")
	if !ok {
		return
	}

	if err := s.methodUC.Remove(ctx, subID, cardID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Card not found")
			return
		}
		s.internalError(w, r, err, "Failed to remove card")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Card removed"})
}

func (s *Server) handleSetDefaultCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subID, ok := s.pathID(w, r, "subscriptionID")
	if !ok {
		return
	}
	cardID, ok := s.pathID(w, r, "cardID")
	if !ok {
		return
	}

	method, err := s.methodUC.SetDefault(ctx, subID, cardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Card not found")
			return
		}
		s.internalError(w, r, err, "Failed to set default card")
		return
	}
	writeData(w, http.StatusOK, toPaymentMethodPayload(method), "")
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	outletID, err := strconv.ParseInt(r.URL.Query().Get("outlet_id"), 10, 64)
	if err != nil || outletID <= 0 {
		writeError(w, http.StatusBadRequest, "outlet_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	invoices, err := s.billingUC.ListInvoices(ctx, outletID, limit)
	if err != nil {
		s.internalError(w, r, err, "Failed to list invoices")
		return
	}
	out := make([]invoicePayload, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoicePayload(inv))
	}
	count := len(out)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: out, Count: &count})
}

func (s *Server) handleListPlans(w http.ResponseWriter, _ *http.Request) {
	plans := s.catalog.List()
	out := make([]planPayload, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanPayload(p))
	}
	writeData(w, http.StatusOK, out, "")
}

func (s *Server) handleCheckLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	outletID, err := strconv.ParseInt(r.URL.Query().Get("outlet_id"), 10, 64)
	if err != nil || outletID <= 0 {
		writeError(w, http.StatusBadRequest, "outlet_id is required")
		return
	}

	check, err := s.limitUC.Check(ctx, outletID)
	if err != nil {
		s.internalError(w, r, err, "Failed to check product limit")
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"current_count": check.CurrentCount,
		"limit":         check.Limit,
		"can_add":       check.CanAdd,
		"remaining":     check.Remaining,
		"plan":          check.Plan,
	}, "")
}

type createVoucherRequest struct {
	Code            string   `json:"code"`
	DiscountType    string   `json:"discount_type"`
	DiscountValue   *float64 `json:"discount_value"`
	ApplicablePlans *string  `json:"applicable_plans"`
	IsActive        *bool    `json:"is_active"`
	ValidUntil      *string  `json:"valid_until"`
	MaxUses         *int     `json:"max_uses"`
}

func (s *Server) handleCreateVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Voucher code required")
		return
	}

	var validUntil *time.Time
	if req.ValidUntil != nil && *req.ValidUntil != "" {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid valid_until timestamp")
			return
		}
		validUntil = &t
	}

	v, err := s.voucherUC.Create(ctx, usecase.VoucherInput{
		Code:            req.Code,
		DiscountType:    model.DiscountType(req.DiscountType),
		DiscountValue:   req.DiscountValue,
		ApplicablePlans: req.ApplicablePlans,
		IsActive:        req.IsActive,
		ValidUntil:      validUntil,
		MaxUses:         req.MaxUses,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusBadRequest, "Voucher code already exists")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Voucher code required")
		default:
			s.internalError(w, r, err, "Failed to create voucher")
		}
		return
	}
	writeData(w, http.StatusCreated, toVoucherPayload(v), "")
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}
	if req.Username != s.adminUser || req.Password != s.adminPass {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		s.internalError(w, r, err, "Failed to create session")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"token": token}, "")
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.subUC.CountByStatus(r.Context())
	if err != nil {
		s.internalError(w, r, err, "Failed to load stats")
		return
	}
	out := make(map[string]int, len(counts))
	for status, n := range counts {
		out[string(status)] = n
	}
	writeData(w, http.StatusOK, map[string]interface{}{"subscriptions": out}, "")
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Clear(w)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Logged out"})
}

// pathID parses a positive int64 URL parameter, writing a 404 when malformed.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logging.With(r.Context(), s.log).Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, msg)
}
