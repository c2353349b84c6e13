package models

import (
	"strings"
	"time"

	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus accepts any casing.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown order status")
	}
	return status, nil
}

// Address is where an order ships.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a *Address) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	if a.Country == "" {
		a.Country = "US"
	}
}

func (a *Address) Validate() error {
	switch {
	case a.Name == "":
		return dErrors.New(dErrors.CodeValidation, "shipping name is required")
	case a.Line1 == "":
		return dErrors.New(dErrors.CodeValidation, "shipping address line1 is required")
	case a.City == "":
		return dErrors.New(dErrors.CodeValidation, "shipping city is required")
	case a.PostalCode == "":
		return dErrors.New(dErrors.CodeValidation, "shipping postal code is required")
	}
	return nil
}

// Item is a line as it was priced when the order was placed.
type Item struct {
	ProductID id.ProductID `json:"product_id"`
	Name      string       `json:"name"`
	Variant   string       `json:"variant"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
}

// Order stores the price breakdown exactly as computed at checkout.
type Order struct {
	ID              id.OrderID   `json:"id"`
	UserID          id.UserID    `json:"user_id"`
	Items           []Item       `json:"items"`
	Subtotal        money.Amount `json:"subtotal"`
	Shipping        money.Amount `json:"shipping"`
	Tax             money.Amount `json:"tax"`
	Total           money.Amount `json:"total"`
	ShippingAddress Address      `json:"shipping_address"`
	Status          Status       `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
}

func (o *Order) Clone() *Order {
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalOrders    int          `json:"total_orders"`
	TotalRevenue   money.Amount `json:"total_revenue"`
	TotalCustomers int          `json:"total_customers"`
	TotalProducts  int          `json:"total_products"`
	RecentOrders   []*Order     `json:"recent_orders"`
}
