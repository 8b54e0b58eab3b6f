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

var _ ports.ProductStore = (*ProductStore)(nil)

// ProductStore persists products in PostgreSQL using GORM. Stock decrements
// are relative, conditional updates executed by the database, never
// read-modify-write cycles computed from a stale read.
type ProductStore struct {
	db *gorm.DB
}

// NewProductStore wires a PostgreSQL-backed product store. The caller owns
// the DB lifecycle.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID        string          `gorm:"primaryKey;column:id;type:uuid"`
	Name      string          `gorm:"column:name;uniqueIndex"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Quantity  int32           `gorm:"column:quantity"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Create inserts a new product with a generated id and timestamps.
func (s *ProductStore) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	now := time.Now().UTC()
	record := productRecord{
		ID:        uuid.NewString(),
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  product.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

// FindByName fetches a product by its unique catalog name.
func (s *ProductStore) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := s.db.WithContext(ctx).First(&record, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindAllByIDs returns the products whose ids exist; missing ids simply do
// not appear in the result.
func (s *ProductStore) FindAllByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var records []productRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// DecrementStock runs the whole batch in one transaction. Each row is updated
// with `quantity = quantity - delta` guarded by `quantity >= delta`, so the
// database evaluates the precondition at execution time and stock can never
// go negative, whatever the interleaving. A zero-row update distinguishes a
// deleted product from a lost race and rolls back every prior decrement.
func (s *ProductStore) DecrementStock(ctx context.Context, decrements []ports.StockDecrement) ([]*domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if len(decrements) == 0 {
		return nil, nil
	}

	updated := make([]*domain.Product, 0, len(decrements))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(decrements))
		for _, dec := range decrements {
			result := tx.Model(&productRecord{}).
				Where("id = ? AND quantity >= ?", dec.ProductID, dec.Quantity).
				UpdateColumns(map[string]any{
					"quantity":   gorm.Expr("quantity - ?", dec.Quantity),
					"updated_at": time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&productRecord{}).Where("id = ?", dec.ProductID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return &domain.ProductNotFoundError{ProductIDs: []string{dec.ProductID}}
				}
				return &domain.StockConflictError{ProductID: dec.ProductID}
			}
			ids = append(ids, dec.ProductID)
		}

		var records []productRecord
		if err := tx.Where("id IN ?", ids).Find(&records).Error; err != nil {
			return err
		}
		for i := range records {
			updated = append(updated, records[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProductStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres product store not configured")
	}
	return nil
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:        r.ID,
		Name:      r.Name,
		Price:     r.Price,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
