package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"virtualfit-backend/internal/config"
	pg "virtualfit-backend/internal/infra/db/postgres"
	httpsrv "virtualfit-backend/internal/infra/http"
	"virtualfit-backend/internal/infra/logging"
	"virtualfit-backend/internal/infra/metrics"
	"virtualfit-backend/internal/infra/payment"
	red "virtualfit-backend/internal/infra/redis"
	"virtualfit-backend/internal/infra/web"

	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool := pg.MustConnect(cfg.Database.URL)
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	subRepo := pg.NewSubscriptionRepo(pool)
	methodRepo := pg.NewPaymentMethodRepo(pool)
	invoiceRepo := pg.NewInvoiceRepo(pool)
	voucherRepo := pg.NewVoucherRepoCacheDecorator(pg.NewVoucherRepo(pool), redisClient, cfg.Redis.TTL)
	productRepo := pg.NewProductRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	catalog := model.DefaultCatalog()
	gateway := payment.NewSimulatedGateway(logger)

	subUC := usecase.NewSubscriptionUseCase(subRepo, catalog, cfg.Billing.TrialDays, logger)
	voucherUC := usecase.NewVoucherUseCase(voucherRepo, catalog, logger)
	billingUC := usecase.NewBillingUseCase(subRepo, methodRepo, invoiceRepo, voucherRepo,
		catalog, gateway, tm, cfg.Billing.Currency, logger)
	methodUC := usecase.NewPaymentMethodUseCase(subRepo, methodRepo, tm, logger)
	limitUC := usecase.NewLimitUseCase(subUC, productRepo, catalog, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", cfg.Admin.SessionTTL)
	api := web.NewServer(subUC, voucherUC, billingUC, methodUC, limitUC,
		catalog, auth, cfg.Admin.Username, cfg.Admin.Password, logger)

	server := httpsrv.NewServer(cfg.Server.Port, api.Router(), logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
