package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionState string

const (
	StateCreate     TransactionState = "CREATE"
	StatePending    TransactionState = "PENDING"
	StateConfirmed  TransactionState = "CONFIRMED"
	StateProcessing TransactionState = "PROCESSING"
	StateFailed     TransactionState = "FAILED"
	StateAuthorized TransactionState = "AUTHORIZED"
	StateVoided     TransactionState = "VOIDED"
	StateCompleted  TransactionState = "COMPLETED"
	StateFulfill    TransactionState = "FULFILL"
	StateDecline    TransactionState = "DECLINE"
)

type CustomersPresence string

const PresenceVirtualPresent CustomersPresence = "VIRTUAL_PRESENT"

type LineItemType string

const (
	LineItemProduct  LineItemType = "PRODUCT"
	LineItemShipping LineItemType = "SHIPPING"
	LineItemDiscount LineItemType = "DISCOUNT"
)

// Transaction is the gateway's record of a payment attempt. Version is bumped
// by the gateway on every write and must be echoed back on updates.
type Transaction struct {
	ID                  int64            `json:"id"`
	Version             int              `json:"version"`
	State               TransactionState `json:"state"`
	SpaceID             int64            `json:"linkedSpaceId"`
	Currency            string           `json:"currency"`
	MerchantReference   string           `json:"merchantReference,omitempty"`
	CustomerID          string           `json:"customerId,omitempty"`
	AuthorizationAmount decimal.Decimal  `json:"authorizationAmount"`
	FailureReason       string           `json:"failureReason,omitempty"`
	CreatedOn           time.Time        `json:"createdOn"`
}

type AddressCreate struct {
	Salutation       string `json:"salutation,omitempty"`
	GivenName        string `json:"givenName,omitempty"`
	FamilyName       string `json:"familyName,omitempty"`
	OrganizationName string `json:"organizationName,omitempty"`
	Street           string `json:"street,omitempty"`
	City             string `json:"city,omitempty"`
	PostCode         string `json:"postCode,omitempty"`
	PostalState      string `json:"postalState,omitempty"`
	Country          string `json:"country,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	EmailAddress     string `json:"emailAddress,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	Gender           string `json:"gender,omitempty"`
}

type LineItemCreate struct {
	UniqueID           string          `json:"uniqueId"`
	SKU                string          `json:"sku,omitempty"`
	Name               string          `json:"name"`
	Quantity           decimal.Decimal `json:"quantity"`
	AmountIncludingTax decimal.Decimal `json:"amountIncludingTax"`
	TaxRate            decimal.Decimal `json:"taxRate"`
	Type               LineItemType    `json:"type"`
	ShippingRequired   bool            `json:"shippingRequired"`
}

// TransactionData holds the fields shared by the create and confirm payloads.
type TransactionData struct {
	Currency                           string           `json:"currency"`
	BillingAddress                     *AddressCreate   `json:"billingAddress,omitempty"`
	ShippingAddress                    *AddressCreate   `json:"shippingAddress,omitempty"`
	CustomerEmailAddress               string           `json:"customerEmailAddress,omitempty"`
	CustomerID                         string           `json:"customerId,omitempty"`
	Language                           string           `json:"language,omitempty"`
	LineItems                          []LineItemCreate `json:"lineItems"`
	MerchantReference                  string           `json:"merchantReference,omitempty"`
	InvoiceMerchantReference           string           `json:"invoiceMerchantReference,omitempty"`
	ShippingMethod                     string           `json:"shippingMethod,omitempty"`
	AllowedPaymentMethodConfigurations []int64          `json:"allowedPaymentMethodConfigurations,omitempty"`
	SuccessURL                         string           `json:"successUrl,omitempty"`
	FailedURL                          string           `json:"failedUrl,omitempty"`
	Token                              *int64           `json:"token,omitempty"`
}

// TransactionPending is a versioned update of a PENDING transaction. The
// gateway rejects it when Version no longer matches the stored version.
type TransactionPending struct {
	ID      int64 `json:"id"`
	Version int   `json:"version"`
	TransactionData
}

type TransactionCreate struct {
	CustomersPresence       CustomersPresence `json:"customersPresence"`
	AutoConfirmationEnabled bool              `json:"autoConfirmationEnabled"`
	SpaceViewID             int64             `json:"spaceViewId,omitempty"`
	TransactionData
}

// TransactionInfo is the local projection of a transaction's state, written
// by the webhook/consumer sync path and read by the poller.
type TransactionInfo struct {
	OrderID       string           `json:"order_id"`
	SpaceID       int64            `json:"space_id"`
	TransactionID int64            `json:"transaction_id"`
	Version       int              `json:"version"`
	State         TransactionState `json:"state"`
	FailureReason string           `json:"failure_reason,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
