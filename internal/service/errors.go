package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnknownCustomer is returned when an order references a customer that does not exist
	ErrUnknownCustomer = errors.New("customer not found")

	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	// ErrOrderCancelled rejects status changes on a cancelled order
	ErrOrderCancelled = errors.New("order is cancelled and can no longer change status")

	ErrEmptyOrder = errors.New("order must contain at least one item")

	ErrOrderTotalTooLarge = errors.New("order total exceeds the maximum of 999999999999.99")
)

// ProductNotFoundError reports a product of an order request that does not exist
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %s not found", e.ProductID)
}

// InsufficientStockError reports an order line that asks for more than is in stock
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product ID %s. Available: %d, Requested: %d",
		e.ProductID, e.Available, e.Requested)
}

// InvalidStatusError reports a status outside the configured set
type InvalidStatusError struct {
	Status  string
	Allowed []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("Invalid status %q. Must be one of: %s", e.Status, strings.Join(e.Allowed, ", "))
}
