package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidPlan        = errors.New("invalid plan")
	ErrOwnershipMismatch  = errors.New("payment method does not belong to subscription")
	ErrLimitReached       = errors.New("usage limit reached")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Voucher validation failures, in check order.
	ErrVoucherInactive        = errors.New("voucher is not active")
	ErrVoucherNotYetValid     = errors.New("voucher is not yet valid")
	ErrVoucherExpired         = errors.New("voucher has expired")
	ErrVoucherLimitReached    = errors.New("voucher usage limit reached")
	ErrVoucherPlanNotEligible = errors.New("voucher not valid for this plan")
)

// IsVoucherInvalid reports whether err is one of the voucher validation
// failures (as opposed to a lookup or storage error).
func IsVoucherInvalid(err error) bool {
	switch {
	case errors.Is(err, ErrVoucherInactive),
		errors.Is(err, ErrVoucherNotYetValid),
		errors.Is(err, ErrVoucherExpired),
		errors.Is(err, ErrVoucherLimitReached),
		errors.Is(err, ErrVoucherPlanNotEligible):
		return true
	}
	return false
}
