// Package render projects order snapshots and lifecycle events into the
// fixed-template descriptions that feed the embedding pipeline. Rendering is
// pure and deterministic: identical input yields byte-identical text, which
// keeps ingested documents and query-time context semantically consistent.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ordertwin/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// Order renders the full order snapshot document: identity, parties,
// line-by-line cost breakdown sorted by line number, totals and audit trail.
// Blank optional fields are omitted rather than printed empty.
func Order(o domain.Order) string {
	var sb strings.Builder

	writeLine(&sb, "Order: %s", o.OrderNumber)
	writeLine(&sb, "Order Version: %d", o.Version)
	writeLine(&sb, "Order Date: %s", formatTime(o.OrderDate))
	if !o.DeliveryDate.IsZero() {
		writeLine(&sb, "Delivery Date: %s", formatTime(o.DeliveryDate))
	}
	writeCustomer(&sb, o)
	writeLine(&sb, "Order Status: %s", o.Status)
	writeLine(&sb, "Payment Method: %s", o.PaymentMethod)
	writeOrderLines(&sb, o.OrderLines, o.Currency)
	writeTotals(&sb, o)
	if strings.TrimSpace(o.Notes) != "" {
		writeLine(&sb, "Order Notes: %s", o.Notes)
	}
	writeAudit(&sb, o)

	return strings.TrimRight(sb.String(), "\n")
}

// Event renders a lifecycle event. The switch is exhaustive over the sealed
// event set.
func Event(e domain.Event) string {
	switch ev := e.(type) {
	case domain.OrderCreated:
		return orderCreated(ev)
	case domain.OrderConfirmed:
		return orderConfirmed(ev)
	case domain.OrderShipped:
		return orderShipped(ev)
	case domain.OrderDelivered:
		return orderDelivered(ev)
	case domain.OrderCancelled:
		return orderCancelled(ev)
	}
	// Unreachable: domain.Event is sealed.
	return ""
}

func orderCreated(e domain.OrderCreated) string {
	o := e.Snapshot
	var sb strings.Builder

	writeLine(&sb, "Event: Order Created")
	writeLine(&sb, "Order Number: %s", o.OrderNumber)
	writeLine(&sb, "Version: %d", o.Version)
	writeLine(&sb, "Order Date: %s", formatTime(o.OrderDate))
	if !o.DeliveryDate.IsZero() {
		writeLine(&sb, "Expected Delivery Date: %s", formatTime(o.DeliveryDate))
	}
	writeCustomer(&sb, o)
	writeLine(&sb, "Initial Status: %s", o.Status)
	writeLine(&sb, "Payment Method: %s", o.PaymentMethod)
	writeOrderLines(&sb, o.OrderLines, o.Currency)
	writeTotals(&sb, o)
	if strings.TrimSpace(o.Notes) != "" {
		writeLine(&sb, "Order Notes: %s", o.Notes)
	}
	writeAudit(&sb, o)

	return strings.TrimRight(sb.String(), "\n")
}

func orderConfirmed(e domain.OrderConfirmed) string {
	var sb strings.Builder
	writeLine(&sb, "Event: Order Confirmed")
	writeTransition(&sb, e.OrderNumber, e.Version, e.PreviousStatus, e.NewStatus)
	writeLine(&sb, "Confirmed At: %s", formatTime(e.ConfirmedAt))
	if strings.TrimSpace(e.ConfirmedBy) != "" {
		writeLine(&sb, "Confirmed By: %s", e.ConfirmedBy)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orderShipped(e domain.OrderShipped) string {
	var sb strings.Builder
	writeLine(&sb, "Event: Order Shipped")
	writeTransition(&sb, e.OrderNumber, e.Version, e.PreviousStatus, e.NewStatus)
	writeLine(&sb, "Shipped At: %s", formatTime(e.ShippedAt))
	if strings.TrimSpace(e.ShippedBy) != "" {
		writeLine(&sb, "Shipped By: %s", e.ShippedBy)
	}
	if strings.TrimSpace(e.TrackingNumber) != "" {
		writeLine(&sb, "Tracking Number: %s", e.TrackingNumber)
	}
	if strings.TrimSpace(e.Carrier) != "" {
		writeLine(&sb, "Carrier: %s", e.Carrier)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orderDelivered(e domain.OrderDelivered) string {
	var sb strings.Builder
	writeLine(&sb, "Event: Order Delivered")
	writeTransition(&sb, e.OrderNumber, e.Version, e.PreviousStatus, e.NewStatus)
	writeLine(&sb, "Delivered At: %s", formatTime(e.DeliveredAt))
	if strings.TrimSpace(e.DeliveredBy) != "" {
		writeLine(&sb, "Delivered By: %s", e.DeliveredBy)
	}
	if strings.TrimSpace(e.Signature) != "" {
		writeLine(&sb, "Signature: %s", e.Signature)
	}
	if strings.TrimSpace(e.DeliveryNotes) != "" {
		writeLine(&sb, "Delivery Notes: %s", e.DeliveryNotes)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orderCancelled(e domain.OrderCancelled) string {
	var sb strings.Builder
	writeLine(&sb, "Event: Order Cancelled")
	writeTransition(&sb, e.OrderNumber, e.Version, e.PreviousStatus, e.NewStatus)
	writeLine(&sb, "Cancelled At: %s", formatTime(e.CancelledAt))
	if strings.TrimSpace(e.CancelledBy) != "" {
		writeLine(&sb, "Cancelled By: %s", e.CancelledBy)
	}
	if strings.TrimSpace(e.CancellationReason) != "" {
		writeLine(&sb, "Cancellation Reason: %s", e.CancellationReason)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeTransition(sb *strings.Builder, number string, version int, prev, next domain.OrderStatus) {
	writeLine(sb, "Order Number: %s", number)
	writeLine(sb, "Version: %d", version)
	writeLine(sb, "Previous Status: %s", prev)
	writeLine(sb, "New Status: %s", next)
}

func writeCustomer(sb *strings.Builder, o domain.Order) {
	writeLine(sb, "Customer ID: %s", o.CustomerID)
	writeLine(sb, "Customer: %s", o.CustomerName)
	if strings.TrimSpace(o.CustomerEmail) != "" {
		writeLine(sb, "Customer Email: %s", o.CustomerEmail)
	}
	if o.ShippingAddress != nil {
		writeLine(sb, "Shipping Address: %s", formatAddress(o.ShippingAddress))
	}
	if o.BillingAddress != nil && !o.BillingAddress.Equal(o.ShippingAddress) {
		writeLine(sb, "Billing Address: %s", formatAddress(o.BillingAddress))
	}
}

func writeOrderLines(sb *strings.Builder, lines []domain.OrderLine, currency string) {
	writeLine(sb, "Order Lines (%d):", len(lines))

	sorted := make([]domain.OrderLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LineNumber < sorted[j].LineNumber })

	for _, l := range sorted {
		writeLine(sb, "  Line %d:", l.LineNumber)
		writeLine(sb, "    Product ID: %s", l.ProductID)
		writeLine(sb, "    Product Code: %s", l.ProductCode)
		writeLine(sb, "    Product Name: %s", l.ProductName)
		if strings.TrimSpace(l.ProductDescription) != "" {
			writeLine(sb, "    Description: %s", l.ProductDescription)
		}
		writeLine(sb, "    Quantity: %d %s", l.Quantity, l.UnitOfMeasure)
		writeLine(sb, "    Unit Price: %s", money(l.UnitPrice, currency))
		if l.DiscountPercentage.IsPositive() {
			writeLine(sb, "    Discount: %s%% (%s)", l.DiscountPercentage.StringFixed(2), money(l.DiscountAmount, currency))
		}
		if l.TaxPercentage.IsPositive() {
			writeLine(sb, "    Tax: %s%% (%s)", l.TaxPercentage.StringFixed(2), money(l.TaxAmount, currency))
		}
		writeLine(sb, "    Line Total: %s", money(l.LineTotal, currency))
		if strings.TrimSpace(l.Notes) != "" {
			writeLine(sb, "    Notes: %s", l.Notes)
		}
	}
}

func writeTotals(sb *strings.Builder, o domain.Order) {
	writeLine(sb, "Totals:")
	writeLine(sb, "  Subtotal: %s", money(o.SubTotal, o.Currency))
	if o.DiscountAmount.IsPositive() {
		writeLine(sb, "  Total Discount: %s", money(o.DiscountAmount, o.Currency))
	}
	if o.ShippingCost.IsPositive() {
		writeLine(sb, "  Shipping Cost: %s", money(o.ShippingCost, o.Currency))
	}
	if o.TaxAmount.IsPositive() {
		writeLine(sb, "  Total Tax: %s", money(o.TaxAmount, o.Currency))
	}
	writeLine(sb, "  Order Total: %s", money(o.TotalAmount, o.Currency))
}

func writeAudit(sb *strings.Builder, o domain.Order) {
	writeLine(sb, "Created At: %s", formatTime(o.CreatedAt))
	if strings.TrimSpace(o.CreatedBy) != "" {
		writeLine(sb, "Created By: %s", o.CreatedBy)
	}
	if !o.UpdatedAt.IsZero() {
		writeLine(sb, "Updated At: %s", formatTime(o.UpdatedAt))
		if strings.TrimSpace(o.UpdatedBy) != "" {
			writeLine(sb, "Updated By: %s", o.UpdatedBy)
		}
	}
}

func writeLine(sb *strings.Builder, format string, args ...any) {
	fmt.Fprintf(sb, format, args...)
	sb.WriteByte('\n')
}

func formatTime(t time.Time) string { return t.UTC().Format(timestampLayout) }

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

func formatAddress(a *domain.Address) string {
	parts := make([]string, 0, 5)
	if strings.TrimSpace(a.Street) != "" {
		parts = append(parts, a.Street)
	}
	if strings.TrimSpace(a.PostalCode) != "" {
		parts = append(parts, a.PostalCode)
	}
	if strings.TrimSpace(a.City) != "" {
		parts = append(parts, a.City)
	}
	if strings.TrimSpace(a.Province) != "" {
		parts = append(parts, "("+a.Province+")")
	}
	if strings.TrimSpace(a.Country) != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, " ")
}
