package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductPatch carries the fields of a partial product update.
// Description may be cleared with an explicit null; the others may not.
type ProductPatch struct {
	Name        Field[string]
	Description Field[string]
	Price       Field[decimal.Decimal]
	Stock       Field[int]
}

// Empty reports whether no field is present.
func (p ProductPatch) Empty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Price.Set && !p.Stock.Set
}

// Apply returns a copy of product with the present fields replaced.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name.Set {
		product.Name = p.Name.Value
	}
	if p.Description.Set {
		product.Description = p.Description.Ptr()
	}
	if p.Price.Set {
		product.Price = p.Price.Value
	}
	if p.Stock.Set {
		product.Stock = p.Stock.Value
	}
	return product
}
