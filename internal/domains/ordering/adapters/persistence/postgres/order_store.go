package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

var _ ports.OrderStore = (*OrderStore)(nil)

// OrderStore persists order aggregates in PostgreSQL using GORM. The order
// row and its line rows are written in one transaction; a failure leaves
// neither behind.
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore wires a PostgreSQL-backed order store. The caller owns the
// DB lifecycle.
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// orderRecord maps the order header to a relational table.
type orderRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string    `gorm:"column:customer_id;type:uuid;index"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderLineRecord maps one order line. Position preserves the requested line
// order across reads.
type orderLineRecord struct {
	ID        string          `gorm:"primaryKey;column:id;type:uuid"`
	OrderID   string          `gorm:"column:order_id;type:uuid;index"`
	ProductID string          `gorm:"column:product_id;type:uuid;index"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	Position  int             `gorm:"column:position"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Create persists the draft as one aggregate write and returns the stored
// order with generated ids and timestamps.
func (s *OrderStore) Create(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, errors.New("order draft is nil")
	}
	if len(draft.Lines) == 0 {
		return nil, domain.ErrNoLines
	}

	now := time.Now().UTC()
	record := orderRecord{
		ID:         uuid.NewString(),
		CustomerID: draft.CustomerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := make([]orderLineRecord, len(draft.Lines))
	for i, line := range draft.Lines {
		lines[i] = orderLineRecord{
			ID:        uuid.NewString(),
			OrderID:   record.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Position:  i,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return toOrder(record, lines), nil
}

// GetByID loads the order header and its lines in request order.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var lines []orderLineRecord
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("position ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return toOrder(record, lines), nil
}

func (s *OrderStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return nil
}

func toOrder(record orderRecord, lines []orderLineRecord) *domain.Order {
	order := &domain.Order{
		ID:         record.ID,
		CustomerID: record.CustomerID,
		Lines:      make([]domain.OrderLine, len(lines)),
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
	for i, line := range lines {
		order.Lines[i] = domain.OrderLine{
			ID:        line.ID,
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return order
}
