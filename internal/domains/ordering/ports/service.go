package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
)

// CreateOrderInput carries one order request: a customer and the requested
// (product, quantity) pairs in the order the caller wants them persisted.
type CreateOrderInput struct {
	CustomerID string
	Lines      []domain.LineRequest
}

// CreateCustomerInput registers a new customer.
type CreateCustomerInput struct {
	Name  string
	Email string
}

// CreateProductInput registers a new catalog product with its opening stock.
type CreateProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int32
}

// Service exposes the ordering use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}
