package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLineRequests(t *testing.T) {
	tests := []struct {
		name  string
		lines []LineRequest
		want  error
	}{
		{"valid single line", []LineRequest{{ProductID: "p1", Quantity: 1}}, nil},
		{"valid multiple lines", []LineRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 3},
		}, nil},
		{"empty", nil, ErrNoLines},
		{"zero quantity", []LineRequest{{ProductID: "p1", Quantity: 0}}, ErrInvalidLineQuantity},
		{"negative quantity", []LineRequest{{ProductID: "p1", Quantity: -1}}, ErrInvalidLineQuantity},
		{"blank product id", []LineRequest{{ProductID: "", Quantity: 1}}, ErrEmptyProductID},
		{"duplicate product id", []LineRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
		}, ErrDuplicateLineProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineRequests(tt.lines)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOrderTotal(t *testing.T) {
	order := &Order{
		Lines: []OrderLine{
			{Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
			{Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
		},
	}
	assert.True(t, order.Total().Equal(decimal.RequireFromString("40.00")))
}

func TestNewCustomer(t *testing.T) {
	customer, err := NewCustomer("  Ada Lovelace  ", " ada@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", customer.Name)
	assert.Equal(t, "ada@example.com", customer.Email)

	_, err = NewCustomer("", "ada@example.com")
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = NewCustomer("Ada", "nope")
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestNewProduct(t *testing.T) {
	product, err := NewProduct("Widget", decimal.RequireFromString("5.00"), 10)
	require.NoError(t, err)
	assert.Equal(t, int32(10), product.Quantity)

	_, err = NewProduct("", decimal.RequireFromString("5.00"), 10)
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = NewProduct("Widget", decimal.RequireFromString("-0.01"), 10)
	require.ErrorIs(t, err, ErrNegativePrice)
	_, err = NewProduct("Widget", decimal.RequireFromString("5.00"), -1)
	require.ErrorIs(t, err, ErrNegativeStock)
}
