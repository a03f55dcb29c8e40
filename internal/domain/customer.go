package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a buyer; Email is unique across customers
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerPatch carries the fields of a partial customer update.
type CustomerPatch struct {
	Name    Field[string]
	Email   Field[string]
	Phone   Field[string]
	Address Field[string]
}

func (p CustomerPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.Phone.Set && !p.Address.Set
}

func (p CustomerPatch) Apply(customer Customer) Customer {
	if p.Name.Set {
		customer.Name = p.Name.Value
	}
	if p.Email.Set {
		customer.Email = p.Email.Value
	}
	if p.Phone.Set {
		customer.Phone = p.Phone.Ptr()
	}
	if p.Address.Set {
		customer.Address = p.Address.Ptr()
	}
	return customer
}
