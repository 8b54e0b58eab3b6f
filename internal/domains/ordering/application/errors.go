package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid ordering input")
	// ErrEmailTaken signals the customer email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrProductNameTaken signals the product name is already in the catalog.
	ErrProductNameTaken = errors.New("product name already registered")
	// ErrStoreUnavailable signals a transient collaborator failure, including
	// an expired store-call timeout. Callers may retry the whole request.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// mapStoreError lets taxonomy failures through untouched and folds everything
// else a store can return, timeouts included, into ErrStoreUnavailable.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrCustomerNotFound,
		domain.ErrProductNotFound,
		domain.ErrOrderNotFound,
		domain.ErrInsufficientStock,
		domain.ErrStockConflict,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
