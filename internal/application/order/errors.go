package order

import "github.com/vetcollars/storefront/internal/domain/shared"

var (
	// ErrSubmissionFailed is returned when an order could not be stored.
	// The request can be retried as is.
	ErrSubmissionFailed = shared.NewDomainError("ORDER_SUBMIT_FAILED", "Не удалось оформить заказ")

	// ErrDuplicateSubmission is returned when an Idempotency-Key was already used
	ErrDuplicateSubmission = shared.NewDomainError("DUPLICATE_SUBMISSION", "This order has already been submitted")
)
