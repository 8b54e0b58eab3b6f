package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

// defaultStoreTimeout bounds each collaborator call when the caller does not
// override it.
const defaultStoreTimeout = 5 * time.Second

// Service orchestrates the ordering use cases. The order-creation workflow
// performs all validation before any mutation and holds no lock of its own:
// admission-time checks run against a snapshot read, while execution-time
// correctness under concurrent requests comes from the product store's
// conditional decrement.
type Service struct {
	customers    ports.CustomerStore
	products     ports.ProductStore
	orders       ports.OrderStore
	storeTimeout time.Duration
}

type Option func(*Service)

// WithStoreTimeout overrides the per-store-call timeout. A non-positive value
// disables the bound and store calls inherit the caller's context deadline.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.storeTimeout = d
	}
}

// NewService wires the ordering service with its collaborators.
func NewService(customers ports.CustomerStore, products ports.ProductStore, orders ports.OrderStore, opts ...Option) *Service {
	s := &Service{
		customers:    customers,
		products:     products,
		orders:       orders,
		storeTimeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder turns a (customer, requested lines) pair into a persisted order.
// It validates the customer, validates product existence and stock for every
// line, snapshots each unit price from the lookup read, then decrements stock
// and persists the aggregate. The two mutations happen only after every check
// passes; any failure aborts the request with nothing written.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if err := domain.ValidateLineRequests(input.Lines); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	customer, err := s.findCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ProductID)
	}
	found, err := s.findProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}
	if missing := missingIDs(ids, byID); len(missing) > 0 {
		return nil, &domain.ProductNotFoundError{ProductIDs: missing}
	}

	lines := make([]domain.OrderLine, 0, len(input.Lines))
	decrements := make([]ports.StockDecrement, 0, len(input.Lines))
	for _, req := range input.Lines {
		product, ok := byID[req.ProductID]
		if !ok {
			// The count check above guarantees a match; keep the guard against
			// a store returning rows the request never asked for.
			return nil, &domain.ProductNotFoundError{ProductIDs: []string{req.ProductID}}
		}
		if req.Quantity > product.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.Quantity,
			}
		}
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
		decrements = append(decrements, ports.StockDecrement{
			ProductID: product.ID,
			Quantity:  req.Quantity,
		})
	}

	if err := s.decrementStock(ctx, decrements); err != nil {
		return nil, err
	}

	return s.persistOrder(ctx, &domain.OrderDraft{CustomerID: customer.ID, Lines: lines})
}

// CreateCustomer registers a new customer, rejecting duplicate emails.
func (s *Service) CreateCustomer(ctx context.Context, input ports.CreateCustomerInput) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(input.Name, input.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	existing, err := s.customers.FindByEmail(callCtx, customer.Email)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, mapStoreError(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, customer.Email)
	}

	createCtx, cancelCreate := s.boundStoreCall(ctx)
	defer cancelCreate()
	created, err := s.customers.Create(createCtx, customer)
	if err != nil {
		// A concurrent registration can slip past the lookup above and land
		// on the store's uniqueness constraint.
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, customer.Email)
		}
		return nil, mapStoreError(err)
	}
	return created, nil
}

// CreateProduct registers a new product, rejecting duplicate names.
func (s *Service) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Price, input.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	existing, err := s.products.FindByName(callCtx, product.Name)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, mapStoreError(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNameTaken, product.Name)
	}

	createCtx, cancelCreate := s.boundStoreCall(ctx)
	defer cancelCreate()
	created, err := s.products.Create(createCtx, product)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrProductNameTaken, product.Name)
		}
		return nil, mapStoreError(err)
	}
	return created, nil
}

// GetOrder loads one order aggregate with its lines.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	order, err := s.orders.GetByID(callCtx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("order %q: %w", id, domain.ErrOrderNotFound)
		}
		return nil, mapStoreError(err)
	}
	return order, nil
}

func (s *Service) findCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	customer, err := s.customers.FindByID(callCtx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, &domain.CustomerNotFoundError{CustomerID: id}
		}
		return nil, mapStoreError(err)
	}
	return customer, nil
}

func (s *Service) findProducts(ctx context.Context, ids []string) ([]*domain.Product, error) {
	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	found, err := s.products.FindAllByIDs(callCtx, ids)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return found, nil
}

func (s *Service) decrementStock(ctx context.Context, decrements []ports.StockDecrement) error {
	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	if _, err := s.products.DecrementStock(callCtx, decrements); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (s *Service) persistOrder(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	callCtx, cancel := s.boundStoreCall(ctx)
	defer cancel()
	order, err := s.orders.Create(callCtx, draft)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return order, nil
}

func (s *Service) boundStoreCall(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func missingIDs(requested []string, found map[string]*domain.Product) []string {
	var missing []string
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

var _ ports.Service = (*Service)(nil)
