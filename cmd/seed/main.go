package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"virtualfit-backend/internal/config"
	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
	pg "virtualfit-backend/internal/infra/db/postgres"
)

// schema is the plain DDL bootstrap. Idempotent via IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
    id                        BIGSERIAL PRIMARY KEY,
    outlet_id                 BIGINT UNIQUE NOT NULL,
    plan_name                 TEXT NOT NULL DEFAULT 'trial',
    plan_price                DOUBLE PRECISION NOT NULL DEFAULT 0,
    billing_cycle             TEXT NOT NULL DEFAULT 'monthly',
    status                    TEXT NOT NULL DEFAULT 'trial',
    trial_ends_at             TIMESTAMPTZ,
    started_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    current_period_start      TIMESTAMPTZ,
    current_period_end        TIMESTAMPTZ,
    cancelled_at              TIMESTAMPTZ,
    default_payment_method_id BIGINT
);

CREATE TABLE IF NOT EXISTS payment_methods (
    id               BIGSERIAL PRIMARY KEY,
    subscription_id  BIGINT NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
    card_brand       TEXT,
    card_last4       TEXT,
    card_expiry      TEXT,
    card_holder_name TEXT,
    is_default       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payment_methods_subscription ON payment_methods (subscription_id);

CREATE TABLE IF NOT EXISTS invoices (
    id              BIGSERIAL PRIMARY KEY,
    subscription_id BIGINT NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
    outlet_id       BIGINT NOT NULL,
    invoice_number  TEXT,
    amount          DOUBLE PRECISION NOT NULL,
    currency        TEXT NOT NULL DEFAULT 'USD',
    status          TEXT NOT NULL DEFAULT 'paid',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    paid_at         TIMESTAMPTZ,
    description     TEXT,
    voucher_code    TEXT,
    discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    ref_id          TEXT
);
CREATE INDEX IF NOT EXISTS idx_invoices_outlet ON invoices (outlet_id, created_at DESC);

CREATE TABLE IF NOT EXISTS vouchers (
    id               BIGSERIAL PRIMARY KEY,
    code             TEXT UNIQUE NOT NULL,
    discount_type    TEXT NOT NULL DEFAULT 'percentage',
    discount_value   DOUBLE PRECISION NOT NULL DEFAULT 0,
    applicable_plans TEXT,
    is_active        BOOLEAN NOT NULL DEFAULT TRUE,
    valid_from       TIMESTAMPTZ DEFAULT NOW(),
    valid_until      TIMESTAMPTZ,
    max_uses         INT,
    times_used       INT NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
    id         BIGSERIAL PRIMARY KEY,
    outlet_id  BIGINT NOT NULL,
    name       TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_outlet ON products (outlet_id);
`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool := pg.MustConnect(cfg.Database.URL)
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	fmt.Println("schema ready")

	// Demo voucher: 100% off, capped at 100 redemptions.
	maxUses := 100
	now := time.Now()
	voucher := &model.Voucher{
		Code:          "LAUNCH100",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 100,
		IsActive:      true,
		ValidFrom:     &now,
		MaxUses:       &maxUses,
		CreatedAt:     now,
	}
	if err := pg.NewVoucherRepo(pool).Save(ctx, repository.NoTX, voucher); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			fmt.Println("voucher LAUNCH100 already present. No changes.")
			return
		}
		log.Fatalf("seed voucher: %v", err)
	}
	fmt.Printf("seeded: voucher %s (percentage 100, max %d uses)\n", voucher.Code, maxUses)
}
