package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain"
	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/adapter"
	"virtualfit-backend/internal/domain/ports/repository"
	"virtualfit-backend/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

// ChargeResult bundles the activated subscription with its new invoice.
type ChargeResult struct {
	Subscription *model.Subscription
	Invoice      *model.Invoice
}

// BillingUseCase executes payments and keeps the invoice ledger.
type BillingUseCase interface {
	// Charge collects payment for the subscription's selected plan and, in a
	// single transaction, activates the subscription, redeems the voucher (if
	// any), makes the charged method the default, and writes the invoice.
	Charge(ctx context.Context, subscriptionID, paymentMethodID int64, voucherCode string) (*ChargeResult, error)
	// ListInvoices returns the outlet's invoices newest first.
	ListInvoices(ctx context.Context, outletID int64, limit int) ([]*model.Invoice, error)
}

type billingUC struct {
	subs     repository.SubscriptionRepository
	methods  repository.PaymentMethodRepository
	invoices repository.InvoiceRepository
	vouchers repository.VoucherRepository
	catalog  *model.PlanCatalog
	gateway  adapter.PaymentGateway
	tm       repository.TransactionManager
	currency string
	log      *zerolog.Logger
}

func NewBillingUseCase(
	subs repository.SubscriptionRepository,
	methods repository.PaymentMethodRepository,
	invoices repository.InvoiceRepository,
	vouchers repository.VoucherRepository,
	catalog *model.PlanCatalog,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	currency string,
	logger *zerolog.Logger,
) *billingUC {
	return &billingUC{
		subs:     subs,
		methods:  methods,
		invoices: invoices,
		vouchers: vouchers,
		catalog:  catalog,
		gateway:  gateway,
		tm:       tm,
		currency: currency,
		log:      logger,
	}
}

func (uc *billingUC) Charge(ctx context.Context, subscriptionID, paymentMethodID int64, voucherCode string) (*ChargeResult, error) {
	var result *ChargeResult
	var redeemedCode string

	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		// Row lock on the subscription serializes concurrent charges and
		// keeps invoice numbering sequential.
		sub, err := uc.subs.FindByID(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}

		method, err := uc.methods.FindByID(ctx, tx, paymentMethodID)
		if err != nil {
			// A missing method reads the same as a foreign one to the caller.
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrOwnershipMismatch
			}
			return err
		}
		if method.SubscriptionID != sub.ID {
			return domain.ErrOwnershipMismatch
		}

		plan, ok := uc.catalog.Find(sub.PlanName)
		if !ok {
			return domain.ErrInvalidPlan
		}

		now := time.Now()
		amount := plan.PriceMonthly
		var discount float64
		var voucher *model.Voucher
		var usedCode *string

		if voucherCode != "" {
			code := model.NormalizeVoucherCode(voucherCode)
			usedCode = &code
			v, err := uc.vouchers.FindByCode(ctx, tx, code)
			switch {
			case err == nil:
				// An invalid voucher at charge time is ignored rather than
				// aborting the payment; the customer pays full price.
				if verr := v.Validate(sub.PlanName, now); verr == nil {
					discount = v.Discount(amount)
					amount -= discount
					voucher = v
				} else {
					uc.log.Warn().Str("code", code).Err(verr).Msg("voucher ignored at charge time")
				}
			case errors.Is(err, domain.ErrNotFound):
				uc.log.Warn().Str("code", code).Msg("unknown voucher ignored at charge time")
			default:
				return err
			}
		}

		refID, err := uc.gateway.Charge(ctx, amount, uc.currency, fmt.Sprintf("%s plan renewal", plan.Name))
		if err != nil {
			return err
		}

		sub.Activate(now, method.ID)
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		if err := uc.methods.ClearDefaults(ctx, tx, sub.ID, method.ID); err != nil {
			return err
		}
		if !method.IsDefault {
			method.IsDefault = true
			if err := uc.methods.Save(ctx, tx, method); err != nil {
				return err
			}
		}

		if voucher != nil {
			ok, err := uc.vouchers.Redeem(ctx, tx, voucher)
			if err != nil {
				return err
			}
			if !ok {
				// The row lock makes this unreachable after a passing
				// validation; treat it as a storage inconsistency.
				return domain.ErrOperationFailed
			}
			redeemedCode = voucher.Code
		}

		count, err := uc.invoices.CountBySubscription(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		inv := &model.Invoice{
			SubscriptionID: sub.ID,
			OutletID:       sub.OutletID,
			InvoiceNumber:  model.FormatInvoiceNumber(sub.ID, count+1),
			Amount:         amount,
			Currency:       uc.currency,
			Status:         model.InvoiceStatusPaid,
			CreatedAt:      now,
			PaidAt:         &now,
			Description:    fmt.Sprintf("%s Plan - Monthly Subscription", plan.Name),
			VoucherCode:    usedCode,
			DiscountAmount: discount,
			RefID:          &refID,
		}
		if err := uc.invoices.Save(ctx, tx, inv); err != nil {
			return err
		}

		result = &ChargeResult{Subscription: sub, Invoice: inv}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrPaymentDeclined) {
			metrics.IncPayment("declined")
		} else {
			metrics.IncPayment("failed")
		}
		return nil, err
	}

	metrics.IncPayment("succeeded")
	metrics.AddPaymentRevenue(result.Invoice.Currency, result.Invoice.Amount)
	metrics.IncInvoiceIssued()
	metrics.IncSubscriptionTransition(string(model.SubscriptionStatusActive))
	if redeemedCode != "" {
		metrics.IncVoucherRedemption()
	}
	uc.log.Info().
		Int64("subscription_id", result.Subscription.ID).
		Str("invoice_number", result.Invoice.InvoiceNumber).
		Float64("amount", result.Invoice.Amount).
		Msg("payment processed and subscription activated")
	return result, nil
}

func (uc *billingUC) ListInvoices(ctx context.Context, outletID int64, limit int) ([]*model.Invoice, error) {
	if outletID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if limit <= 0 {
		limit = 10
	}
	return uc.invoices.ListByOutlet(ctx, repository.NoTX, outletID, limit)
}
