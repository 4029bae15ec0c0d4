package domain

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusReturned   OrderStatus = "Returned"
)

// IsValid checks if the status is one of the known lifecycle states.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves this state.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// CanTransitionTo reports whether next is a legal edge of the lifecycle graph:
// Pending → Confirmed → Processing → Shipped → Delivered → Returned, with
// Cancelled reachable from Pending, Confirmed and Processing.
//
// The lifecycle service deliberately does not consult this graph: it validates
// only the target status of the snapshot it receives. The helper exists for
// callers that want to pre-check an edge before replacing a snapshot.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusProcessing || next == StatusShipped || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	case StatusDelivered:
		return next == StatusReturned
	}
	return false
}

// PaymentMethod represents how an order is paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCreditCard   PaymentMethod = "CreditCard"
	PaymentDebitCard    PaymentMethod = "DebitCard"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentPayPal       PaymentMethod = "PayPal"
	PaymentOther        PaymentMethod = "Other"
)
