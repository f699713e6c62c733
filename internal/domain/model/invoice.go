package model

import (
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusFailed   InvoiceStatus = "failed"
	InvoiceStatusRefunded InvoiceStatus = "refunded"
)

// Invoice is an append-only billing record. One is created for every
// successful payment, never speculatively, and never updated afterwards.
type Invoice struct {
	ID             int64
	SubscriptionID int64
	OutletID       int64
	InvoiceNumber  string
	Amount         float64
	Currency       string
	Status         InvoiceStatus
	CreatedAt      time.Time
	PaidAt         *time.Time
	Description    string
	VoucherCode    *string
	DiscountAmount float64
	RefID          *string // gateway reference for the payment execution
}

// FormatInvoiceNumber derives the monotonic per-subscription invoice number.
// seq is 1-based.
func FormatInvoiceNumber(subscriptionID int64, seq int) string {
	return fmt.Sprintf("INV-%05d-%03d", subscriptionID, seq)
}
