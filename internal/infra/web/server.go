package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/usecase"
)

// Server wires the subscription API routes to the use cases.
type Server struct {
	subUC     usecase.SubscriptionUseCase
	voucherUC usecase.VoucherUseCase
	billingUC usecase.BillingUseCase
	methodUC  usecase.PaymentMethodUseCase
	limitUC   usecase.LimitUseCase
	catalog   *model.PlanCatalog
	auth      *AuthManager
	adminUser string
	adminPass string
	log       *zerolog.Logger
}

func NewServer(
	subUC usecase.SubscriptionUseCase,
	voucherUC usecase.VoucherUseCase,
	billingUC usecase.BillingUseCase,
	methodUC usecase.PaymentMethodUseCase,
	limitUC usecase.LimitUseCase,
	catalog *model.PlanCatalog,
	auth *AuthManager,
	adminUser, adminPass string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		subUC:     subUC,
		voucherUC: voucherUC,
		billingUC: billingUC,
		methodUC:  methodUC,
		limitUC:   limitUC,
		catalog:   catalog,
		auth:      auth,
		adminUser: adminUser,
		adminPass: adminPass,
		log:       logger,
	}
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", s.handleAdminLogin)
		r.Post("/admin/logout", s.handleAdminLogout)
		r.With(s.auth.RequireAdmin).Get("/admin/stats", s.handleAdminStats)

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", s.handleGetSubscription)
			r.Post("/select-plan", s.handleSelectPlan)
			r.Post("/validate-voucher", s.handleValidateVoucher)
			r.Post("/pay", s.handlePay)
			r.Get("/plans", s.handleListPlans)
			r.Get("/invoices", s.handleListInvoices)
			r.Get("/check-limit", s.handleCheckLimit)
			r.With(s.auth.RequireAdmin).Post("/vouchers", s.handleCreateVoucher)

			r.Route("/{subscriptionID}", func(r chi.Router) {
				r.Put("/", s.handleUpdateStatus)
				r.Get("/cards", s.handleListCards)
				r.Post("/cards", s.handleAddCard)
				r.Delete("/cards/{cardID}", s.handleRemoveCard)
				r.Put("/cards/{cardID}/default", s.handleSetDefaultCard)
			})
		})
	})
	return r
}
