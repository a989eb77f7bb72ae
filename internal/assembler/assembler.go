// Package assembler maps local orders and invoices onto gateway transaction payloads.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/wakala/paysync/internal/domain"
)

// ErrConfiguration marks caller or data misconfiguration, never a transient failure.
var ErrConfiguration = errors.New("configuration error")

const (
	routeSuccess = "payment/transaction/success"
	routeFailure = "payment/transaction/failure"
)

// CustomerRegistry looks up registered customers. A nil customer with a nil
// error means the customer is unknown.
type CustomerRegistry interface {
	FindCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
}

// StoreConfig resolves per-store settings.
type StoreConfig interface {
	BaseURL(storeID string) string
	Locale(storeID string) string
	SpaceViewIDFor(storeID string) int64
}

// LineItemConverter turns an order into gateway line items.
type LineItemConverter interface {
	ConvertLineItems(order *domain.Order) ([]domain.LineItemCreate, error)
}

// Assembler fills transaction payloads from orders.
type Assembler struct {
	customers CustomerRegistry
	stores    StoreConfig
	lineItems LineItemConverter
}

// New creates an Assembler. When lineItems is nil the default converter is used.
func New(customers CustomerRegistry, stores StoreConfig, lineItems LineItemConverter) *Assembler {
	if lineItems == nil {
		lineItems = DefaultLineItems{}
	}
	return &Assembler{customers: customers, stores: stores, lineItems: lineItems}
}

// CheckFlow fails when an interactive flow cannot build its redirect URLs.
func CheckFlow(order *domain.Order, chargeFlow bool) error {
	if !chargeFlow && order.SecurityToken == "" {
		return fmt.Errorf("%w: security token must be set on order %s to build redirect urls",
			ErrConfiguration, order.ID)
	}
	return nil
}

// AssembleCreate fills a creation payload. The space view only applies to new transactions.
func (a *Assembler) AssembleCreate(ctx context.Context, target *domain.TransactionCreate, order *domain.Order,
	invoice *domain.Invoice, chargeFlow bool, token *domain.Token) error {
	if err := a.Assemble(ctx, &target.TransactionData, order, invoice, chargeFlow, token); err != nil {
		return err
	}
	if id := a.stores.SpaceViewIDFor(order.StoreID); id != 0 {
		target.SpaceViewID = id
	}
	return nil
}

// Assemble fills the fields shared by create and confirm payloads.
func (a *Assembler) Assemble(ctx context.Context, target *domain.TransactionData, order *domain.Order,
	invoice *domain.Invoice, chargeFlow bool, token *domain.Token) error {
	if err := CheckFlow(order, chargeFlow); err != nil {
		return err
	}

	cust := &customerLookup{registry: a.customers, id: order.CustomerID}

	email, err := cust.email(ctx, order.CustomerEmail)
	if err != nil {
		return err
	}

	lineItems, err := a.lineItems.ConvertLineItems(order)
	if err != nil {
		return fmt.Errorf("convert line items: %w", err)
	}

	target.Currency = order.Currency
	target.CustomerEmailAddress = email
	target.Language = a.stores.Locale(order.StoreID)
	target.LineItems = lineItems
	target.MerchantReference = order.IncrementID
	if invoice != nil {
		target.InvoiceMerchantReference = invoice.IncrementID
	}
	if order.CustomerID != "" {
		target.CustomerID = order.CustomerID
	}

	target.BillingAddress = nil
	if order.BillingAddress != nil {
		addr := ConvertAddress(order.BillingAddress)
		addr.EmailAddress = email
		if addr.DateOfBirth, err = cust.dob(ctx, order.CustomerDOB); err != nil {
			return err
		}
		if addr.Gender, err = cust.gender(ctx, order.CustomerGender); err != nil {
			return err
		}
		target.BillingAddress = addr
	}

	target.ShippingAddress = nil
	target.ShippingMethod = ""
	if order.ShippingAddress != nil {
		addr := ConvertAddress(order.ShippingAddress)
		addr.EmailAddress = email
		target.ShippingAddress = addr
		target.ShippingMethod = FixLength(FirstLine(order.ShippingDescription), MaxShippingMethod)
	}

	if chargeFlow {
		target.AllowedPaymentMethodConfigurations = []int64{order.Payment.ConfigurationID}
		target.SuccessURL = ""
		target.FailedURL = ""
	} else {
		target.AllowedPaymentMethodConfigurations = nil
		target.SuccessURL = a.buildURL(routeSuccess, order)
		target.FailedURL = a.buildURL(routeFailure, order)
	}

	target.Token = nil
	if token != nil {
		id := token.ID
		target.Token = &id
	}
	return nil
}

// buildURL points at a storefront endpoint that knows the order. CheckFlow
// has already made sure the security token is present.
func (a *Assembler) buildURL(route string, order *domain.Order) string {
	q := url.Values{}
	q.Set("order_id", order.ID)
	q.Set("token", order.SecurityToken)
	return strings.TrimRight(a.stores.BaseURL(order.StoreID), "/") + "/" + route + "?" + q.Encode()
}

// ConvertAddress maps an order address, sanitizing every free-text field.
func ConvertAddress(in *domain.OrderAddress) *domain.AddressCreate {
	return &domain.AddressCreate{
		Salutation:       Sanitize(in.Prefix, MaxSalutation),
		GivenName:        Sanitize(in.Firstname, MaxName),
		FamilyName:       Sanitize(in.Lastname, MaxName),
		OrganizationName: Sanitize(in.Company, MaxOrganization),
		Street:           Sanitize(strings.Join(in.Street, " "), MaxStreet),
		City:             Sanitize(in.City, MaxCity),
		PostCode:         Sanitize(in.Postcode, MaxPostCode),
		PostalState:      in.RegionCode,
		Country:          in.CountryID,
		PhoneNumber:      in.Telephone,
	}
}

// customerLookup loads the registered customer at most once per assembly.
type customerLookup struct {
	registry CustomerRegistry
	id       string
	loaded   bool
	customer *domain.Customer
}

func (c *customerLookup) get(ctx context.Context) (*domain.Customer, error) {
	if c.loaded {
		return c.customer, nil
	}
	c.loaded = true
	if c.id == "" || c.registry == nil {
		return nil, nil
	}
	cust, err := c.registry.FindCustomer(ctx, c.id)
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", c.id, err)
	}
	c.customer = cust
	return cust, nil
}

func (c *customerLookup) email(ctx context.Context, fromOrder string) (string, error) {
	if fromOrder != "" {
		return fromOrder, nil
	}
	cust, err := c.get(ctx)
	if err != nil || cust == nil {
		return "", err
	}
	return cust.Email, nil
}

func (c *customerLookup) dob(ctx context.Context, fromOrder string) (string, error) {
	if fromOrder != "" {
		return fromOrder, nil
	}
	cust, err := c.get(ctx)
	if err != nil || cust == nil {
		return "", err
	}
	return cust.DOB, nil
}

func (c *customerLookup) gender(ctx context.Context, fromOrder string) (string, error) {
	if fromOrder != "" {
		return fromOrder, nil
	}
	cust, err := c.get(ctx)
	if err != nil || cust == nil {
		return "", err
	}
	return cust.Gender, nil
}
