package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the local order record a transaction is reconciled against.
type Order struct {
	ID                  string          `json:"id"`
	IncrementID         string          `json:"increment_id"`
	QuoteID             string          `json:"quote_id"`
	StoreID             string          `json:"store_id"`
	Currency            string          `json:"currency"`
	CustomerID          string          `json:"customer_id,omitempty"`
	CustomerEmail       string          `json:"customer_email,omitempty"`
	CustomerDOB         string          `json:"customer_dob,omitempty"`
	CustomerGender      string          `json:"customer_gender,omitempty"`
	SpaceID             int64           `json:"space_id"`
	TransactionID       int64           `json:"transaction_id,omitempty"`
	SecurityToken       string          `json:"security_token,omitempty"`
	BillingAddress      *OrderAddress   `json:"billing_address,omitempty"`
	ShippingAddress     *OrderAddress   `json:"shipping_address,omitempty"`
	ShippingDescription string          `json:"shipping_description,omitempty"`
	ShippingAmount      decimal.Decimal `json:"shipping_amount"`
	ShippingTaxRate     decimal.Decimal `json:"shipping_tax_rate"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	Items               []OrderItem     `json:"items"`
	Payment             OrderPayment    `json:"payment"`
	CreatedAt           time.Time       `json:"created_at"`
}

type OrderAddress struct {
	Prefix     string   `json:"prefix,omitempty"`
	Firstname  string   `json:"firstname,omitempty"`
	Lastname   string   `json:"lastname,omitempty"`
	Company    string   `json:"company,omitempty"`
	Street     []string `json:"street,omitempty"`
	City       string   `json:"city,omitempty"`
	Postcode   string   `json:"postcode,omitempty"`
	RegionCode string   `json:"region_code,omitempty"`
	CountryID  string   `json:"country_id,omitempty"`
	Telephone  string   `json:"telephone,omitempty"`
}

type OrderItem struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"qty"`
	RowTotal   decimal.Decimal `json:"row_total_incl_tax"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	IsVirtual  bool            `json:"is_virtual"`
}

// OrderPayment references the gateway payment method configuration the
// order was placed with.
type OrderPayment struct {
	Method          string `json:"method"`
	ConfigurationID int64  `json:"configuration_id"`
}

type Invoice struct {
	ID          string `json:"id"`
	IncrementID string `json:"increment_id"`
}

// Customer is the registered customer record used when order-level data is absent.
type Customer struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	DOB    string `json:"dob,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// Token is a stored payment token on the gateway.
type Token struct {
	ID int64 `json:"id"`
}
