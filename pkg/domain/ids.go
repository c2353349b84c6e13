// Package domain holds typed identifiers shared across bounded contexts.
//
// Every identifier is a UUID underneath, but each entity gets its own type so
// a ProductID can never be passed where a UserID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "brewleaf/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	ProductID      uuid.UUID
	CategoryID     uuid.UUID
	OrderID        uuid.UUID
	ReviewID       uuid.UUID
	SubscriptionID uuid.UUID
)

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" || len(s) > maxIDLength || strings.TrimSpace(s) != s {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is invalid")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is invalid")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

func ParseProductID(s string) (ProductID, error) {
	u, err := parseUUID("product id", s)
	return ProductID(u), err
}

func ParseCategoryID(s string) (CategoryID, error) {
	u, err := parseUUID("category id", s)
	return CategoryID(u), err
}

func ParseOrderID(s string) (OrderID, error) {
	u, err := parseUUID("order id", s)
	return OrderID(u), err
}

func ParseReviewID(s string) (ReviewID, error) {
	u, err := parseUUID("review id", s)
	return ReviewID(u), err
}

func ParseSubscriptionID(s string) (SubscriptionID, error) {
	u, err := parseUUID("subscription id", s)
	return SubscriptionID(u), err
}

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ProductID) String() string      { return uuid.UUID(id).String() }
func (id CategoryID) String() string     { return uuid.UUID(id).String() }
func (id OrderID) String() string        { return uuid.UUID(id).String() }
func (id ReviewID) String() string       { return uuid.UUID(id).String() }
func (id SubscriptionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id OrderID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ReviewID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SubscriptionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id ProductID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id CategoryID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id OrderID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id ReviewID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id SubscriptionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ProductID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CategoryID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *OrderID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ReviewID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SubscriptionID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// NewProductID and friends mint fresh random identifiers.
func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewProductID() ProductID           { return ProductID(uuid.New()) }
func NewCategoryID() CategoryID         { return CategoryID(uuid.New()) }
func NewOrderID() OrderID               { return OrderID(uuid.New()) }
func NewReviewID() ReviewID             { return ReviewID(uuid.New()) }
func NewSubscriptionID() SubscriptionID { return SubscriptionID(uuid.New()) }
