package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

var _ ports.ProductStore = (*ProductStore)(nil)

// ProductStore is an in-memory product persistence adapter. One mutex covers
// the whole map, so a decrement batch is validated and applied without any
// other request observing an intermediate state.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: map[string]*domain.Product{}}
}

func (s *ProductStore) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if strings.EqualFold(existing.Name, clone.Name) {
			return nil, fmt.Errorf("%w: name %s", ports.ErrDuplicate, clone.Name)
		}
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.products[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (s *ProductStore) FindByName(_ context.Context, name string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, product := range s.products {
		if strings.EqualFold(product.Name, name) {
			clone := *product
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *ProductStore) FindAllByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			clone := *product
			found = append(found, &clone)
		}
	}
	return found, nil
}

// DecrementStock validates every decrement of the batch under the write lock
// and only then applies them, so a failing line leaves every other line's
// stock untouched and no concurrent batch interleaves.
func (s *ProductStore) DecrementStock(_ context.Context, decrements []ports.StockDecrement) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dec := range decrements {
		product, ok := s.products[dec.ProductID]
		if !ok {
			return nil, &domain.ProductNotFoundError{ProductIDs: []string{dec.ProductID}}
		}
		if product.Quantity < dec.Quantity {
			return nil, &domain.StockConflictError{ProductID: dec.ProductID}
		}
	}

	now := time.Now().UTC()
	updated := make([]*domain.Product, 0, len(decrements))
	for _, dec := range decrements {
		product := s.products[dec.ProductID]
		product.Quantity -= dec.Quantity
		product.UpdatedAt = now
		clone := *product
		updated = append(updated, &clone)
	}
	return updated, nil
}
