package model

import "time"

// PaymentMethod is a stored card belonging to exactly one subscription.
// Whenever a subscription has any methods, exactly one of them is default.
type PaymentMethod struct {
	ID             int64
	SubscriptionID int64
	CardBrand      string
	CardLast4      string
	CardExpiry     string
	CardHolderName string
	IsDefault      bool
	CreatedAt      time.Time
}
