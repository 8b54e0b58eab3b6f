package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested (product, quantity) pair of an order request.
type LineRequest struct {
	ProductID string
	Quantity  int32
}

// OrderLine is one line of a persisted order. UnitPrice is the product price
// captured when the order was admitted; later catalog price changes never
// touch it. Lines live and die with their order.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity times the captured unit price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// OrderDraft is a fully validated, priced order ready to be persisted as one
// aggregate write. Line ids, the order id, and timestamps are assigned by the
// order store.
type OrderDraft struct {
	CustomerID string
	Lines      []OrderLine
}

// Order models the persisted purchase aggregate.
type Order struct {
	ID         string
	CustomerID string
	Lines      []OrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Total sums the line subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ValidateLineRequests rejects requests no order can be built from: an empty
// line list, a non-positive quantity, or the same product appearing twice
// (which would make the per-product decrement ambiguous).
func ValidateLineRequests(lines []LineRequest) error {
	if len(lines) == 0 {
		return ErrNoLines
	}
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == "" {
			return ErrEmptyProductID
		}
		if line.Quantity <= 0 {
			return ErrInvalidLineQuantity
		}
		if _, dup := seen[line.ProductID]; dup {
			return ErrDuplicateLineProduct
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}
