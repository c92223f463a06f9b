package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindOrderCreated   Kind = "order_created"
	KindOrderConfirmed Kind = "order_confirmed"
	KindOrderCancelled Kind = "order_cancelled"
	KindOrderShipped   Kind = "order_shipped"
	KindOrderDelivered Kind = "order_delivered"
)

// Order is the snapshot of a sale an event carries. It is built by the
// sale workflow with product names already resolved, so rendering a
// message never touches the stores.
type Order struct {
	ID              int
	CustomerName    string
	CustomerEmail   string
	Lines           []Line
	TotalPrice      decimal.Decimal
	ShippingCost    decimal.Decimal
	ShippingLabel   string
	PaymentMethod   string
	ShippingAddress string
	Status          string
	Date            time.Time
}

type Line struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Subtotal decimal.Decimal
}

// Event is one notification to dispatch. Events are fire-and-forget:
// the workflow that publishes one never learns whether delivery worked.
type Event struct {
	ID    string
	Kind  Kind
	Order Order
}

func NewEvent(kind Kind, order Order) Event {
	return Event{ID: uuid.NewString(), Kind: kind, Order: order}
}
