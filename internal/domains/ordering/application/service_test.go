package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-service/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

type fixture struct {
	customers *memory.CustomerStore
	products  *memory.ProductStore
	orders    *memory.OrderStore
	service   *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		customers: memory.NewCustomerStore(),
		products:  memory.NewProductStore(),
		orders:    memory.NewOrderStore(),
	}
	f.service = NewService(f.customers, f.products, f.orders, opts...)
	return f
}

func (f *fixture) seedCustomer(t *testing.T) *domain.Customer {
	t.Helper()
	customer, err := f.customers.Create(context.Background(), &domain.Customer{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	require.NoError(t, err)
	return customer
}

func (f *fixture) seedProduct(t *testing.T, name, price string, quantity int32) *domain.Product {
	t.Helper()
	product, err := f.products.Create(context.Background(), &domain.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	})
	require.NoError(t, err)
	return product
}

func (f *fixture) stockOf(t *testing.T, id string) int32 {
	t.Helper()
	found, err := f.products.FindAllByIDs(context.Background(), []string{id})
	require.NoError(t, err)
	require.Len(t, found, 1)
	return found[0].Quantity
}

func TestCreateOrder_Succeeds(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	product := f.seedProduct(t, "Widget", "5.00", 10)

	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, customer.ID, order.CustomerID)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, product.ID, order.Lines[0].ProductID)
	assert.Equal(t, int32(3), order.Lines[0].Quantity)
	assert.True(t, order.Lines[0].UnitPrice.Equal(decimal.RequireFromString("5.00")),
		"unit price must be the product price at order time")
	assert.Equal(t, int32(7), f.stockOf(t, product.ID))
}

func TestCreateOrder_MultiLineSnapshotsEachPrice(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	widget := f.seedProduct(t, "Widget", "5.00", 10)
	gadget := f.seedProduct(t, "Gadget", "12.50", 4)

	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines: []domain.LineRequest{
			{ProductID: widget.ID, Quantity: 2},
			{ProductID: gadget.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, widget.ID, order.Lines[0].ProductID)
	assert.Equal(t, gadget.ID, order.Lines[1].ProductID)
	assert.True(t, order.Lines[0].UnitPrice.Equal(widget.Price))
	assert.True(t, order.Lines[1].UnitPrice.Equal(gadget.Price))
	assert.True(t, order.Total().Equal(decimal.RequireFromString("60.00")))
	assert.Equal(t, int32(8), f.stockOf(t, widget.ID))
	assert.Equal(t, int32(0), f.stockOf(t, gadget.ID))
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "Widget", "5.00", 10)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "unknown-id",
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	var notFound *domain.CustomerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "unknown-id", notFound.CustomerID)
	assert.Equal(t, int32(10), f.stockOf(t, product.ID), "no mutation on rejected request")
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	product := f.seedProduct(t, "Widget", "5.00", 10)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines: []domain.LineRequest{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: "unknown-product", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"unknown-product"}, notFound.ProductIDs)
	assert.Equal(t, int32(10), f.stockOf(t, product.ID), "known product stock untouched")
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	product := f.seedProduct(t, "Widget", "5.00", 10)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 11}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, product.ID, insufficient.ProductID)
	assert.Equal(t, int32(11), insufficient.Requested)
	assert.Equal(t, int32(10), insufficient.Available)
	assert.Equal(t, int32(10), f.stockOf(t, product.ID))
}

func TestCreateOrder_AllOrNothingAdmission(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	plenty := f.seedProduct(t, "Widget", "5.00", 100)
	scarce := f.seedProduct(t, "Gadget", "9.00", 1)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines: []domain.LineRequest{
			{ProductID: plenty.ID, Quantity: 5},
			{ProductID: scarce.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int32(100), f.stockOf(t, plenty.ID),
		"a line that would have succeeded must not be decremented")
	assert.Equal(t, int32(1), f.stockOf(t, scarce.ID))
}

func TestCreateOrder_BoundaryValidation(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	product := f.seedProduct(t, "Widget", "5.00", 10)

	tests := []struct {
		name  string
		lines []domain.LineRequest
		want  error
	}{
		{"empty request", nil, domain.ErrNoLines},
		{"zero quantity", []domain.LineRequest{{ProductID: product.ID, Quantity: 0}}, domain.ErrInvalidLineQuantity},
		{"negative quantity", []domain.LineRequest{{ProductID: product.ID, Quantity: -2}}, domain.ErrInvalidLineQuantity},
		{"blank product id", []domain.LineRequest{{ProductID: "", Quantity: 1}}, domain.ErrEmptyProductID},
		{"duplicate product", []domain.LineRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 2},
		}, domain.ErrDuplicateLineProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
				CustomerID: customer.ID,
				Lines:      tt.lines,
			})
			require.ErrorIs(t, err, ErrInvalidInput)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(10), f.stockOf(t, product.ID))
		})
	}
}

// slowCustomerStore blocks until the bounded call context expires.
type slowCustomerStore struct{}

func (slowCustomerStore) Create(_ context.Context, _ *domain.Customer) (*domain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (slowCustomerStore) FindByID(ctx context.Context, _ string) (*domain.Customer, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowCustomerStore) FindByEmail(_ context.Context, _ string) (*domain.Customer, error) {
	return nil, ports.ErrNotFound
}

func TestCreateOrder_StoreTimeoutSurfacesAsUnavailable(t *testing.T) {
	products := memory.NewProductStore()
	product, err := products.Create(context.Background(), &domain.Product{
		Name: "Widget", Price: decimal.RequireFromString("5.00"), Quantity: 10,
	})
	require.NoError(t, err)

	svc := NewService(slowCustomerStore{}, products, memory.NewOrderStore(),
		WithStoreTimeout(10*time.Millisecond))

	_, err = svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "c1",
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// conflictingProductStore admits validation but loses the race at decrement
// time, as a concurrent order would.
type conflictingProductStore struct {
	*memory.ProductStore
	conflictID string
}

func (s *conflictingProductStore) DecrementStock(_ context.Context, _ []ports.StockDecrement) ([]*domain.Product, error) {
	return nil, &domain.StockConflictError{ProductID: s.conflictID}
}

// countingOrderStore records how often the workflow reaches persistence.
type countingOrderStore struct {
	*memory.OrderStore
	creates int
}

func (s *countingOrderStore) Create(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	s.creates++
	return s.OrderStore.Create(ctx, draft)
}

func TestCreateOrder_DecrementConflictAbortsWithoutOrder(t *testing.T) {
	customers := memory.NewCustomerStore()
	customer, err := customers.Create(context.Background(), &domain.Customer{
		Name: "Ada Lovelace", Email: "ada@example.com",
	})
	require.NoError(t, err)

	backing := memory.NewProductStore()
	product, err := backing.Create(context.Background(), &domain.Product{
		Name: "Widget", Price: decimal.RequireFromString("5.00"), Quantity: 10,
	})
	require.NoError(t, err)

	orders := &countingOrderStore{OrderStore: memory.NewOrderStore()}
	svc := NewService(customers, &conflictingProductStore{ProductStore: backing, conflictID: product.ID}, orders)

	_, err = svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrStockConflict)

	var conflict *domain.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, product.ID, conflict.ProductID)
	assert.Zero(t, orders.creates, "no order is persisted after a failed decrement")
}

func TestCreateCustomer(t *testing.T) {
	f := newFixture(t)

	customer, err := f.service.CreateCustomer(context.Background(), ports.CreateCustomerInput{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, customer.ID)
	assert.False(t, customer.CreatedAt.IsZero())

	_, err = f.service.CreateCustomer(context.Background(), ports.CreateCustomerInput{
		Name:  "Someone Else",
		Email: "ada@example.com",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.service.CreateCustomer(context.Background(), ports.CreateCustomerInput{
		Name:  "",
		Email: "no-name@example.com",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	product, err := f.service.CreateProduct(context.Background(), ports.CreateProductInput{
		Name:     "Widget",
		Price:    decimal.RequireFromString("5.00"),
		Quantity: 10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)

	_, err = f.service.CreateProduct(context.Background(), ports.CreateProductInput{
		Name:     "Widget",
		Price:    decimal.RequireFromString("7.00"),
		Quantity: 1,
	})
	require.ErrorIs(t, err, ErrProductNameTaken)

	_, err = f.service.CreateProduct(context.Background(), ports.CreateProductInput{
		Name:     "Broken",
		Price:    decimal.RequireFromString("-1.00"),
		Quantity: 1,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

// staleLookupCustomerStore reports every email as free, so the insert is the
// first point where a concurrent duplicate shows up.
type staleLookupCustomerStore struct {
	*memory.CustomerStore
}

func (s *staleLookupCustomerStore) FindByEmail(_ context.Context, _ string) (*domain.Customer, error) {
	return nil, ports.ErrNotFound
}

func TestCreateCustomer_LostRegistrationRaceReportsEmailTaken(t *testing.T) {
	backing := memory.NewCustomerStore()
	_, err := backing.Create(context.Background(), &domain.Customer{
		Name: "Ada Lovelace", Email: "ada@example.com",
	})
	require.NoError(t, err)

	svc := NewService(&staleLookupCustomerStore{CustomerStore: backing},
		memory.NewProductStore(), memory.NewOrderStore())

	_, err = svc.CreateCustomer(context.Background(), ports.CreateCustomerInput{
		Name:  "Someone Else",
		Email: "ada@example.com",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.NotErrorIs(t, err, ErrStoreUnavailable, "a duplicate is permanent, not retryable")
}

type staleLookupProductStore struct {
	*memory.ProductStore
}

func (s *staleLookupProductStore) FindByName(_ context.Context, _ string) (*domain.Product, error) {
	return nil, ports.ErrNotFound
}

func TestCreateProduct_LostRegistrationRaceReportsNameTaken(t *testing.T) {
	backing := memory.NewProductStore()
	_, err := backing.Create(context.Background(), &domain.Product{
		Name: "Widget", Price: decimal.RequireFromString("5.00"), Quantity: 10,
	})
	require.NoError(t, err)

	svc := NewService(memory.NewCustomerStore(),
		&staleLookupProductStore{ProductStore: backing}, memory.NewOrderStore())

	_, err = svc.CreateProduct(context.Background(), ports.CreateProductInput{
		Name:     "Widget",
		Price:    decimal.RequireFromString("7.00"),
		Quantity: 1,
	})
	require.ErrorIs(t, err, ErrProductNameTaken)
	require.NotErrorIs(t, err, ErrStoreUnavailable, "a duplicate is permanent, not retryable")
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	product := f.seedProduct(t, "Widget", "5.00", 10)

	created, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	loaded, err := f.service.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	require.Len(t, loaded.Lines, 1)
	assert.True(t, loaded.Lines[0].UnitPrice.Equal(created.Lines[0].UnitPrice))

	_, err = f.service.GetOrder(context.Background(), "missing-order")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
