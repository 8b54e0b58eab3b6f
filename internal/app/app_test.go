package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

func TestBuildStores_FallsBackToMemory(t *testing.T) {
	stores, cleanup := BuildStores(context.Background(), Config{}, nil)
	defer cleanup()

	require.NotNil(t, stores.Customers)
	require.NotNil(t, stores.Products)
	require.NotNil(t, stores.Orders)
}

func TestBuildService_WiresWorkflowEndToEnd(t *testing.T) {
	cfg := Config{StoreCallTimeout: defaultStoreCallTimeout}
	stores, cleanup := BuildStores(context.Background(), cfg, nil)
	defer cleanup()
	service := BuildService(cfg, stores, nil)

	ctx := context.Background()
	customer, err := service.CreateCustomer(ctx, ports.CreateCustomerInput{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	require.NoError(t, err)

	product, err := service.CreateProduct(ctx, ports.CreateProductInput{
		Name:     "Widget",
		Price:    decimal.RequireFromString("5.00"),
		Quantity: 10,
	})
	require.NoError(t, err)

	order, err := service.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, order.Total().Equal(decimal.RequireFromString("15.00")))

	loaded, err := service.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, loaded.ID)
}
