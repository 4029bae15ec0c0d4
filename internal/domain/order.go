package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the in-memory snapshot of an order at a point in time.
// Snapshots are replaced, never mutated: every state change produces a new
// value with a bumped Version. All monetary amounts are fixed-point decimals
// rounded to two places at each aggregation step.
type Order struct {
	OrderNumber     string
	OrderDate       time.Time
	DeliveryDate    time.Time
	CustomerID      string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress *Address
	BillingAddress  *Address
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	SubTotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingCost    decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	Currency        string
	Notes           string
	OrderLines      []OrderLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
	UpdatedBy       string
	Version         int
}

// OrderLine is a single costed position of an order.
type OrderLine struct {
	LineNumber         int
	ProductID          string
	ProductCode        string
	ProductName        string
	ProductDescription string
	Quantity           int
	UnitOfMeasure      string
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	TaxPercentage      decimal.Decimal
	TaxAmount          decimal.Decimal
	LineTotal          decimal.Decimal
	Notes              string
}

// Address is a postal address attached to an order.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Province   string
	Country    string
}

// Equal compares two addresses field by field. Nil addresses are equal.
func (a *Address) Equal(b *Address) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Street == b.Street &&
		a.City == b.City &&
		a.PostalCode == b.PostalCode &&
		a.Province == b.Province &&
		a.Country == b.Country
}

// ComputeTotals derives DiscountAmount, TaxAmount and LineTotal from the
// line's unit price, quantity and percentages:
//
//	lineTotal = (unitPrice×quantity − discountAmount) + taxAmount
//
// Each step is rounded to two decimal places.
func (l OrderLine) ComputeTotals() OrderLine {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	l.DiscountAmount = gross.Mul(l.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	subtotal := gross.Sub(l.DiscountAmount)
	l.TaxAmount = subtotal.Mul(l.TaxPercentage).Div(decimal.NewFromInt(100)).Round(2)
	l.LineTotal = subtotal.Add(l.TaxAmount).Round(2)
	return l
}

// ComputeTotals aggregates line subtotals and taxes into the order totals:
//
//	totalAmount = subTotal − discountAmount + shippingCost + taxAmount
//
// ShippingCost and the order-level DiscountAmount are taken as-is from the
// snapshot; everything else is recomputed from the lines.
func (o Order) ComputeTotals() Order {
	subTotal := decimal.Zero
	taxAmount := decimal.Zero
	for _, l := range o.OrderLines {
		gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subTotal = subTotal.Add(gross.Sub(l.DiscountAmount))
		taxAmount = taxAmount.Add(l.TaxAmount)
	}
	o.SubTotal = subTotal.Round(2)
	o.TaxAmount = taxAmount.Round(2)
	o.TotalAmount = o.SubTotal.Sub(o.DiscountAmount).Add(o.ShippingCost).Add(o.TaxAmount).Round(2)
	return o
}

// WithStatus returns a replacement snapshot in the given status with the
// version bumped and the audit fields updated. The receiver is left untouched.
func (o Order) WithStatus(status OrderStatus, updatedBy string, at time.Time) Order {
	o.Status = status
	o.Version++
	o.UpdatedAt = at
	if updatedBy != "" {
		o.UpdatedBy = updatedBy
	}
	return o
}
