package order

import (
	"fmt"

	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// Validation error codes. Their messages are shown to the customer verbatim.
const (
	CodeInvalidCustomerName = "INVALID_CUSTOMER_NAME"
	CodeInvalidPhone        = "INVALID_PHONE_NUMBER"
	CodeEmptyCart           = "EMPTY_CART"
	CodeZeroQuantity        = "ZERO_QUANTITY"
	CodeQuantityTooLarge    = "QUANTITY_TOO_LARGE"
	CodeProductUnavailable  = "PRODUCT_UNAVAILABLE"
	CodeInvalidStatus       = "INVALID_ORDER_STATUS"
)

var (
	ErrInvalidCustomerName = shared.NewDomainError(CodeInvalidCustomerName, "invalid customer name")
	ErrInvalidPhone        = shared.NewDomainError(CodeInvalidPhone, "invalid phone number")
	ErrEmptyCart           = shared.NewDomainError(CodeEmptyCart, "cart is empty")
	ErrInvalidStatus       = shared.NewDomainError(CodeInvalidStatus, "invalid order status")
)

// ZeroQuantityError rejects a whole order because one item has nothing left
// after sanitization.
func ZeroQuantityError(productName string) *shared.DomainError {
	return shared.NewDomainError(CodeZeroQuantity, fmt.Sprintf("product %s has zero quantity", productName))
}

// QuantityTooLargeError rejects an order asking for more than
// catalog.MaxQuantityPerSize of one size.
func QuantityTooLargeError(productName string) *shared.DomainError {
	return shared.NewDomainError(CodeQuantityTooLarge,
		fmt.Sprintf("product %s exceeds %d per size", productName, catalog.MaxQuantityPerSize))
}

// ProductUnavailableError rejects an order referencing a product missing
// from the catalog.
func ProductUnavailableError(productName string) *shared.DomainError {
	return shared.NewDomainError(CodeProductUnavailable, fmt.Sprintf("product %s is no longer available", productName))
}

// IsValidationError reports whether err is a customer-correctable
// submission error.
func IsValidationError(err error) bool {
	de, ok := shared.AsDomainError(err)
	if !ok {
		return false
	}
	switch de.Code {
	case CodeInvalidCustomerName, CodeInvalidPhone, CodeEmptyCart, CodeZeroQuantity,
		CodeQuantityTooLarge, CodeProductUnavailable:
		return true
	}
	return false
}
