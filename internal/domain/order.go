package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a customer's order and the line items it owns
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CustomerID  uuid.UUID       `json:"customer_id" db:"customer_id"`
	Status      string          `json:"status" db:"status"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem is a line of an order. PriceAtTime is the product price captured
// when the order was created and never changes afterwards.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	LineNumber  int             `json:"line_number" db:"line_number"`
	Quantity    int             `json:"quantity" db:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time" db:"price_at_time"`
}

// Subtotal is quantity * price_at_time
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderWithCustomer is an order together with the customer who placed it
type OrderWithCustomer struct {
	Order
	Customer Customer `json:"customer"`
}

// OrderLine is a requested (product, quantity) pair of a new order
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderCreate is the input of the order transaction
type OrderCreate struct {
	CustomerID uuid.UUID
	Status     string
	Items      []OrderLine
}
