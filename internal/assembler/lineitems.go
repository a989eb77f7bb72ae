package assembler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wakala/paysync/internal/currency"
	"github.com/wakala/paysync/internal/domain"
)

// lineItemNamespace seeds deterministic unique ids for items without their own id,
// so retries of the same order produce the same line items.
var lineItemNamespace = uuid.MustParse("6f1c3f2e-6a55-4a6e-9a57-2b3c4d9e0a11")

// DefaultLineItems converts order items, shipping and discount into line items.
type DefaultLineItems struct{}

func (DefaultLineItems) ConvertLineItems(order *domain.Order) ([]domain.LineItemCreate, error) {
	items := make([]domain.LineItemCreate, 0, len(order.Items)+2)

	for i, it := range order.Items {
		amount, err := currency.Round(it.RowTotal, order.Currency)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		id := it.ID
		if id == "" {
			id = uuid.NewSHA1(lineItemNamespace, []byte(fmt.Sprintf("%s/%d/%s", order.ID, i, it.SKU))).String()
		}
		items = append(items, domain.LineItemCreate{
			UniqueID:           id,
			SKU:                it.SKU,
			Name:               Sanitize(it.Name, MaxLineItemName),
			Quantity:           it.Quantity,
			AmountIncludingTax: amount,
			TaxRate:            it.TaxPercent,
			Type:               domain.LineItemProduct,
			ShippingRequired:   !it.IsVirtual,
		})
	}

	if order.ShippingAmount.IsPositive() {
		amount, err := currency.Round(order.ShippingAmount, order.Currency)
		if err != nil {
			return nil, fmt.Errorf("shipping: %w", err)
		}
		name := FirstLine(order.ShippingDescription)
		if name == "" {
			name = "Shipping"
		}
		items = append(items, domain.LineItemCreate{
			UniqueID:           order.ID + "-shipping",
			SKU:                "shipping",
			Name:               FixLength(name, MaxLineItemName),
			Quantity:           decimal.NewFromInt(1),
			AmountIncludingTax: amount,
			TaxRate:            order.ShippingTaxRate,
			Type:               domain.LineItemShipping,
		})
	}

	if !order.DiscountAmount.IsZero() {
		amount, err := currency.Round(order.DiscountAmount.Abs().Neg(), order.Currency)
		if err != nil {
			return nil, fmt.Errorf("discount: %w", err)
		}
		items = append(items, domain.LineItemCreate{
			UniqueID:           order.ID + "-discount",
			SKU:                "discount",
			Name:               "Discount",
			Quantity:           decimal.NewFromInt(1),
			AmountIncludingTax: amount,
			TaxRate:            decimal.Zero,
			Type:               domain.LineItemDiscount,
		})
	}

	return items, nil
}
