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

var _ ports.CustomerStore = (*CustomerStore)(nil)

// CustomerStore is an in-memory customer persistence adapter.
type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: map[string]*domain.Customer{}}
}

func (s *CustomerStore) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := *customer
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if strings.EqualFold(existing.Email, clone.Email) {
			return nil, fmt.Errorf("%w: email %s", ports.ErrDuplicate, clone.Email)
		}
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.customers[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (s *CustomerStore) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customer, ok := s.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (s *CustomerStore) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, customer := range s.customers {
		if strings.EqualFold(customer.Email, email) {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}
