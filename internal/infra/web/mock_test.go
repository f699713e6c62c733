//go:build !integration

package web

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/usecase"
)

// --- Mock Use Cases ---

type mockSubscriptionUC struct {
	usecase.SubscriptionUseCase // Embed interface for forward compatibility
	GetOrCreateFunc             func(ctx context.Context, outletID int64) (*model.Subscription, error)
	SelectPlanFunc              func(ctx context.Context, outletID int64, planID string) (*model.Subscription, error)
	UpdateStatusFunc            func(ctx context.Context, subscriptionID int64, status model.SubscriptionStatus) (*model.Subscription, error)
	CountByStatusFunc           func(ctx context.Context) (map[model.SubscriptionStatus]int, error)
}

func (m *mockSubscriptionUC) GetOrCreate(ctx context.Context, outletID int64) (*model.Subscription, error) {
	return m.GetOrCreateFunc(ctx, outletID)
}

func (m *mockSubscriptionUC) SelectPlan(ctx context.Context, outletID int64, planID string) (*model.Subscription, error) {
	return m.SelectPlanFunc(ctx, outletID, planID)
}

func (m *mockSubscriptionUC) UpdateStatus(ctx context.Context, subscriptionID int64, status model.SubscriptionStatus) (*model.Subscription, error) {
	return m.UpdateStatusFunc(ctx, subscriptionID, status)
}

func (m *mockSubscriptionUC) CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error) {
	return m.CountByStatusFunc(ctx)
}

type mockVoucherUC struct {
	usecase.VoucherUseCase
	ValidateFunc func(ctx context.Context, code, planID string) (*usecase.VoucherQuote, error)
	CreateFunc   func(ctx context.Context, in usecase.VoucherInput) (*model.Voucher, error)
}

func (m *mockVoucherUC) Validate(ctx context.Context, code, planID string) (*usecase.VoucherQuote, error) {
	return m.ValidateFunc(ctx, code, planID)
}

func (m *mockVoucherUC) Create(ctx context.Context, in usecase.VoucherInput) (*model.Voucher, error) {
	return m.CreateFunc(ctx, in)
}

type mockBillingUC struct {
	usecase.BillingUseCase
	ChargeFunc       func(ctx context.Context, subscriptionID, paymentMethodID int64, voucherCode string) (*usecase.ChargeResult, error)
	ListInvoicesFunc func(ctx context.Context, outletID int64, limit int) ([]*model.Invoice, error)
}

func (m *mockBillingUC) Charge(ctx context.Context, subscriptionID, paymentMethodID int64, voucherCode string) (*usecase.ChargeResult, error) {
	return m.ChargeFunc(ctx, subscriptionID, paymentMethodID, voucherCode)
}

func (m *mockBillingUC) ListInvoices(ctx context.Context, outletID int64, limit int) ([]*model.Invoice, error) {
	return m.ListInvoicesFunc(ctx, outletID, limit)
}

type mockPaymentMethodUC struct {
	usecase.PaymentMethodUseCase
	AddFunc        func(ctx context.Context, subscriptionID int64, in usecase.PaymentMethodInput) (*model.PaymentMethod, error)
	ListFunc       func(ctx context.Context, subscriptionID int64) ([]*model.PaymentMethod, error)
	RemoveFunc     func(ctx context.Context, subscriptionID, methodID int64) error
	SetDefaultFunc func(ctx context.Context, subscriptionID, methodID int64) (*model.PaymentMethod, error)
}

func (m *mockPaymentMethodUC) Add(ctx context.Context, subscriptionID int64, in usecase.PaymentMethodInput) (*model.PaymentMethod, error) {
	return m.AddFunc(ctx, subscriptionID, in)
}

func (m *mockPaymentMethodUC) List(ctx context.Context, subscriptionID int64) ([]*model.PaymentMethod, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, subscriptionID)
	}
	return nil, nil
}

func (m *mockPaymentMethodUC) Remove(ctx context.Context, subscriptionID, methodID int64) error {
	return m.RemoveFunc(ctx, subscriptionID, methodID)
}

func (m *mockPaymentMethodUC) SetDefault(ctx context.Context, subscriptionID, methodID int64) (*model.PaymentMethod, error) {
	return m.SetDefaultFunc(ctx, subscriptionID, methodID)
}

type mockLimitUC struct {
	usecase.LimitUseCase
	CheckFunc func(ctx context.Context, outletID int64) (*usecase.LimitCheck, error)
}

func (m *mockLimitUC) Check(ctx context.Context, outletID int64) (*usecase.LimitCheck, error) {
	return m.CheckFunc(ctx, outletID)
}

// --- Helpers ---

type serverMocks struct {
	subUC     *mockSubscriptionUC
	voucherUC *mockVoucherUC
	billingUC *mockBillingUC
	methodUC  *mockPaymentMethodUC
	limitUC   *mockLimitUC
	auth      *AuthManager
}

func newTestServer() (*Server, *serverMocks, http.Handler) {
	logger := zerolog.New(io.Discard)
	mocks := &serverMocks{
		subUC:     &mockSubscriptionUC{},
		voucherUC: &mockVoucherUC{},
		billingUC: &mockBillingUC{},
		methodUC:  &mockPaymentMethodUC{},
		limitUC:   &mockLimitUC{},
		auth:      NewAuthManager("test-secret", false, "", 30*time.Minute),
	}
	srv := NewServer(mocks.subUC, mocks.voucherUC, mocks.billingUC, mocks.methodUC, mocks.limitUC,
		model.DefaultCatalog(), mocks.auth, "admin", "secret", &logger)
	return srv, mocks, srv.Router()
}

func trialSubscription(id, outletID int64) *model.Subscription {
	ends := time.Now().Add(7 * 24 * time.Hour)
	return &model.Subscription{
		ID:           id,
		OutletID:     outletID,
		PlanName:     "trial",
		BillingCycle: model.BillingCycleMonthly,
		Status:       model.SubscriptionStatusTrial,
		TrialEndsAt:  &ends,
		StartedAt:    time.Now(),
	}
}
