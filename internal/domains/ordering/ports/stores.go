package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
)

// ErrNotFound signals a lookup that matched no record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate signals an insert that collided with a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// StockDecrement asks the product store to subtract Quantity from one
// product's stock, evaluated by the store at execution time.
type StockDecrement struct {
	ProductID string
	Quantity  int32
}

// CustomerStore persists and looks up customers. Create fails with
// ErrDuplicate when the email is already registered.
type CustomerStore interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// ProductStore persists products and owns the stock counters. Create fails
// with ErrDuplicate when the catalog name is already taken.
type ProductStore interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)

	// FindAllByIDs returns only the products whose ids exist; callers detect
	// missing ids by comparing counts.
	FindAllByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)

	// DecrementStock applies every decrement as a relative, conditional update
	// (quantity := quantity - delta, only while quantity >= delta) inside one
	// atomic unit, and returns the post-decrement products. When any row is
	// missing it fails with *domain.ProductNotFoundError; when any row's
	// precondition no longer holds it fails with *domain.StockConflictError.
	// Either way no decrement of the batch remains applied.
	DecrementStock(ctx context.Context, decrements []StockDecrement) ([]*domain.Product, error)
}

// OrderStore persists order aggregates. An order and its lines are written
// and loaded as one unit.
type OrderStore interface {
	Create(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}
