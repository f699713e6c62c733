package repository

import (
	"context"

	"virtualfit-backend/internal/domain/model"
)

// InvoiceRepository is the port for the append-only billing ledger.
type InvoiceRepository interface {
	// Save inserts a new invoice, populating inv.ID. Invoices are immutable.
	Save(ctx context.Context, tx Tx, inv *model.Invoice) error
	// CountBySubscription feeds invoice numbering; call it inside the charge
	// transaction so numbers stay serial.
	CountBySubscription(ctx context.Context, tx Tx, subscriptionID int64) (int, error)
	// ListByOutlet returns invoices newest first.
	ListByOutlet(ctx context.Context, tx Tx, outletID int64, limit int) ([]*model.Invoice, error)
}
