package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName            = errors.New("name must not be empty")
	ErrInvalidEmail         = errors.New("email address is invalid")
	ErrNegativePrice        = errors.New("price must be non-negative")
	ErrNegativeStock        = errors.New("stock quantity must be non-negative")
	ErrNoLines              = errors.New("order must contain at least one line")
	ErrEmptyProductID       = errors.New("line product id must not be empty")
	ErrInvalidLineQuantity  = errors.New("line quantity must be greater than zero")
	ErrDuplicateLineProduct = errors.New("line product ids must be unique")
)

// Sentinels for the order-creation failure taxonomy. The typed errors below
// match them through errors.Is so callers can branch on the kind while still
// reading the offending ids off the concrete value.
var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockConflict     = errors.New("stock changed concurrently")
)

// CustomerNotFoundError reports the unknown customer id of a rejected request.
type CustomerNotFoundError struct {
	CustomerID string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %q not found", e.CustomerID)
}

func (e *CustomerNotFoundError) Is(target error) bool { return target == ErrCustomerNotFound }

// ProductNotFoundError reports every requested product id that the catalog
// does not know.
type ProductNotFoundError struct {
	ProductIDs []string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("products not found: %s", strings.Join(e.ProductIDs, ", "))
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// InsufficientStockError reports the first line whose requested quantity
// exceeded the stock visible at validation time.
type InsufficientStockError struct {
	ProductID string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// StockConflictError reports a decrement whose precondition (quantity >=
// delta) no longer held at execution time, i.e. a concurrent order won the
// race between validation and decrement.
type StockConflictError struct {
	ProductID string
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock for product %q changed concurrently", e.ProductID)
}

func (e *StockConflictError) Is(target error) bool { return target == ErrStockConflict }
