package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

var _ ports.OrderStore = (*OrderStore)(nil)

// OrderStore is an in-memory order persistence adapter. Orders and their
// lines are stored as one value, mirroring the aggregate write contract.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: map[string]*domain.Order{}}
}

func (s *OrderStore) Create(_ context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	if draft == nil {
		return nil, errors.New("order draft is nil")
	}
	if draft.CustomerID == "" {
		return nil, errors.New("order draft has no customer id")
	}
	if len(draft.Lines) == 0 {
		return nil, domain.ErrNoLines
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:         uuid.NewString(),
		CustomerID: draft.CustomerID,
		Lines:      make([]domain.OrderLine, len(draft.Lines)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, line := range draft.Lines {
		line.ID = uuid.NewString()
		line.OrderID = order.ID
		order.Lines[i] = line
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	return cloneOrder(order), nil
}

func (s *OrderStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = make([]domain.OrderLine, len(order.Lines))
	copy(clone.Lines, order.Lines)
	return &clone
}
