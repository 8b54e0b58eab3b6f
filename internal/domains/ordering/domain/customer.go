package domain

import (
	"strings"
	"time"
)

// Customer is a buyer known to the catalog. Orders reference it by id and
// never own its lifecycle.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer validates and constructs a new Customer. The id and timestamps
// are assigned by the store on create.
func NewCustomer(name, email string) (*Customer, error) {
	customer := &Customer{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return customer, nil
}

// Validate enforces invariants on the aggregate.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
