package assembler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/paysync/internal/domain"
)

func TestDefaultLineItems(t *testing.T) {
	order := testOrder()
	order.DiscountAmount = decimal.RequireFromString("10")
	order.Items = append(order.Items, domain.OrderItem{SKU: "SKU-2", Name: "Punch card", Quantity: decimal.NewFromInt(1), RowTotal: decimal.RequireFromString("1.005"), IsVirtual: true})

	items, err := DefaultLineItems{}.ConvertLineItems(order)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "i-1", items[0].UniqueID)
	assert.True(t, items[0].ShippingRequired)

	assert.NotEmpty(t, items[1].UniqueID)
	assert.Equal(t, "1.01", items[1].AmountIncludingTax.StringFixed(2))
	assert.False(t, items[1].ShippingRequired)

	assert.Equal(t, domain.LineItemShipping, items[2].Type)
	assert.Equal(t, "Flat Rate - Fixed", items[2].Name)

	assert.Equal(t, domain.LineItemDiscount, items[3].Type)
	assert.True(t, items[3].AmountIncludingTax.Equal(decimal.NewFromInt(-10)))

	again, err := DefaultLineItems{}.ConvertLineItems(order)
	require.NoError(t, err)
	assert.Equal(t, items[1].UniqueID, again[1].UniqueID)
}

func TestDefaultLineItems_UnsupportedCurrency(t *testing.T) {
	order := testOrder()
	order.Currency = "XXX"

	_, err := DefaultLineItems{}.ConvertLineItems(order)
	assert.EqualError(t, err, "item 0: unsupported currency: XXX")
}
