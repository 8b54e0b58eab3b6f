package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

var _ ports.CustomerStore = (*CustomerStore)(nil)

// CustomerStore persists customers in PostgreSQL using GORM.
type CustomerStore struct {
	db *gorm.DB
}

// NewCustomerStore wires a PostgreSQL-backed customer store. The caller owns
// the DB lifecycle.
func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// customerRecord maps the customer aggregate to a relational table.
type customerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Create inserts a new customer with a generated id and timestamps.
func (s *CustomerStore) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	now := time.Now().UTC()
	record := customerRecord{
		ID:        uuid.NewString(),
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

// FindByID fetches a customer by identifier.
func (s *CustomerStore) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByEmail fetches a customer by email.
func (s *CustomerStore) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := s.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *CustomerStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres customer store not configured")
	}
	return nil
}

func (r customerRecord) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
