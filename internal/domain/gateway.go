package domain

import "time"

type DeliveryIndicationState string

const (
	DeliveryIndicationNotSuitable DeliveryIndicationState = "NOT_SUITABLE"
	DeliveryIndicationSuitable    DeliveryIndicationState = "SUITABLE"
)

// DeliveryIndication is the gateway's risk signal attached to a transaction.
type DeliveryIndication struct {
	ID            int64                   `json:"id"`
	Version       int                     `json:"version"`
	TransactionID int64                   `json:"linkedTransaction"`
	State         DeliveryIndicationState `json:"state"`
	CreatedOn     time.Time               `json:"createdOn"`
}

type TransactionInvoice struct {
	ID                int64     `json:"id"`
	Version           int       `json:"version"`
	TransactionID     int64     `json:"linkedTransaction"`
	State             string    `json:"state"`
	MerchantReference string    `json:"merchantReference,omitempty"`
	CreatedOn         time.Time `json:"createdOn"`
}

type TransactionCompletion struct {
	ID            int64     `json:"id"`
	TransactionID int64     `json:"linkedTransaction"`
	State         string    `json:"state"`
	CreatedOn     time.Time `json:"createdOn"`
}

type TransactionVoid struct {
	ID            int64     `json:"id"`
	TransactionID int64     `json:"linkedTransaction"`
	State         string    `json:"state"`
	CreatedOn     time.Time `json:"createdOn"`
}

const (
	FilterTypeLeaf       = "LEAF"
	FilterOperatorEquals = "EQUALS"
)

type EntityQueryFilter struct {
	Type      string `json:"type"`
	FieldName string `json:"fieldName"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
}

type EntityQuery struct {
	Filter           *EntityQueryFilter `json:"filter,omitempty"`
	NumberOfEntities int                `json:"numberOfEntities,omitempty"`
}

// EqualsQuery builds a single-leaf equality query limited to n entities.
func EqualsQuery(field string, value any, n int) EntityQuery {
	return EntityQuery{
		Filter: &EntityQueryFilter{
			Type:      FilterTypeLeaf,
			FieldName: field,
			Operator:  FilterOperatorEquals,
			Value:     value,
		},
		NumberOfEntities: n,
	}
}
