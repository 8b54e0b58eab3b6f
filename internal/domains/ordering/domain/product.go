package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with a unique name, a current unit price, and a
// stock counter. Quantity never goes below zero; the product store's
// conditional decrement enforces that, not callers.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct validates and constructs a new Product. The id and timestamps
// are assigned by the store on create.
func NewProduct(name string, price decimal.Decimal, quantity int32) (*Product, error) {
	product := &Product{
		Name:     strings.TrimSpace(name),
		Price:    price,
		Quantity: quantity,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeStock
	}
	return nil
}
