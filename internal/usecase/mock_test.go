//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/adapter"
	"virtualfit-backend/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func intPtr(n int) *int           { return &n }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type chargeCall struct {
	Amount      float64
	Currency    string
	Description string
}

type MockPaymentGateway struct {
	mu      sync.Mutex
	Charges []chargeCall

	ChargeFunc func(ctx context.Context, amount float64, currency, description string) (string, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mockpay" }

func (m *MockPaymentGateway) Charge(ctx context.Context, amount float64, currency, description string) (string, error) {
	m.mu.Lock()
	m.Charges = append(m.Charges, chargeCall{Amount: amount, Currency: currency, Description: description})
	m.mu.Unlock()
	if m.ChargeFunc != nil {
		return m.ChargeFunc(ctx, amount, currency, description)
	}
	return "REF-TEST", nil
}

// =============================
// Repositories
// =============================

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu     sync.Mutex
	store  map[int64]*model.Subscription
	nextID int64

	SaveFunc     func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.Subscription, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[int64]*model.Subscription)}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		for _, existing := range m.store {
			if existing.OutletID == s.OutletID {
				return domain.ErrAlreadyExists
			}
		}
		m.nextID++
		s.ID = m.nextID
	}
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByOutlet(ctx context.Context, tx repository.Tx, outletID int64) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.OutletID == outletID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Subscription, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.SubscriptionStatus]int)
	for _, s := range m.store {
		out[s.Status]++
	}
	return out, nil
}

// ---- Mock PaymentMethodRepository ----

type MockPaymentMethodRepo struct {
	mu     sync.Mutex
	store  map[int64]*model.PaymentMethod
	nextID int64

	SaveFunc func(ctx context.Context, tx repository.Tx, pm *model.PaymentMethod) error
}

var _ repository.PaymentMethodRepository = (*MockPaymentMethodRepo)(nil)

func NewMockPaymentMethodRepo() *MockPaymentMethodRepo {
	return &MockPaymentMethodRepo{store: make(map[int64]*model.PaymentMethod)}
}

func (m *MockPaymentMethodRepo) Save(ctx context.Context, tx repository.Tx, pm *model.PaymentMethod) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, pm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if pm.ID == 0 {
		m.nextID++
		pm.ID = m.nextID
	}
	cp := *pm
	m.store[pm.ID] = &cp
	return nil
}

func (m *MockPaymentMethodRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pm, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pm
	return &cp, nil
}

func (m *MockPaymentMethodRepo) ListBySubscription(ctx context.Context, tx repository.Tx, subscriptionID int64) ([]*model.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentMethod
	for _, pm := range m.store {
		if pm.SubscriptionID == subscriptionID {
			cp := *pm
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockPaymentMethodRepo) CountBySubscription(ctx context.Context, tx repository.Tx, subscriptionID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, pm := range m.store {
		if pm.SubscriptionID == subscriptionID {
			n++
		}
	}
	return n, nil
}

func (m *MockPaymentMethodRepo) ClearDefaults(ctx context.Context, tx repository.Tx, subscriptionID, exceptID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pm := range m.store {
		if pm.SubscriptionID == subscriptionID && pm.ID != exceptID {
			pm.IsDefault = false
		}
	}
	return nil
}

func (m *MockPaymentMethodRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// ---- Mock InvoiceRepository ----

type MockInvoiceRepo struct {
	mu     sync.Mutex
	store  []*model.Invoice
	nextID int64

	SaveFunc func(ctx context.Context, tx repository.Tx, inv *model.Invoice) error
}

var _ repository.InvoiceRepository = (*MockInvoiceRepo)(nil)

func NewMockInvoiceRepo() *MockInvoiceRepo {
	return &MockInvoiceRepo{}
}

func (m *MockInvoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, inv)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	inv.ID = m.nextID
	cp := *inv
	m.store = append(m.store, &cp)
	return nil
}

func (m *MockInvoiceRepo) CountBySubscription(ctx context.Context, tx repository.Tx, subscriptionID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, inv := range m.store {
		if inv.SubscriptionID == subscriptionID {
			n++
		}
	}
	return n, nil
}

func (m *MockInvoiceRepo) ListByOutlet(ctx context.Context, tx repository.Tx, outletID int64, limit int) ([]*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Invoice
	for i := len(m.store) - 1; i >= 0 && len(out) < limit; i-- {
		if m.store[i].OutletID == outletID {
			cp := *m.store[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock VoucherRepository ----

type MockVoucherRepo struct {
	mu     sync.Mutex
	store  map[int64]*model.Voucher
	nextID int64

	RedeemFunc func(ctx context.Context, tx repository.Tx, v *model.Voucher) (bool, error)
}

var _ repository.VoucherRepository = (*MockVoucherRepo)(nil)

func NewMockVoucherRepo() *MockVoucherRepo {
	return &MockVoucherRepo{store: make(map[int64]*model.Voucher)}
}

func (m *MockVoucherRepo) Save(ctx context.Context, tx repository.Tx, v *model.Voucher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == 0 {
		for _, existing := range m.store {
			if existing.Code == v.Code {
				return domain.ErrAlreadyExists
			}
		}
		m.nextID++
		v.ID = m.nextID
	}
	cp := *v
	m.store[v.ID] = &cp
	return nil
}

func (m *MockVoucherRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.store {
		if v.Code == code {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Redeem mirrors the conditional single-statement increment of the real repo.
func (m *MockVoucherRepo) Redeem(ctx context.Context, tx repository.Tx, arg *model.Voucher) (bool, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, tx, arg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[arg.ID]
	if !ok {
		return false, nil
	}
	if v.MaxUses != nil && v.TimesUsed >= *v.MaxUses {
		return false, nil
	}
	v.TimesUsed++
	return true, nil
}

// ---- Mock ProductRepository ----

type MockProductRepo struct {
	mu     sync.Mutex
	counts map[int64]int
}

var _ repository.ProductRepository = (*MockProductRepo)(nil)

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{counts: make(map[int64]int)}
}

func (m *MockProductRepo) SetCount(outletID int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[outletID] = n
}

func (m *MockProductRepo) CountByOutlet(ctx context.Context, tx repository.Tx, outletID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[outletID], nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately with NoTX unless a test overrides it.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}
