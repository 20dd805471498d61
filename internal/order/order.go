package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the persisted order lifecycle state. Transitions move forward
// along the chain, cancellation is allowed from any non-terminal state, and
// terminal orders never change again.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statusRank = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusCompleted: 4,
}

func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo enforces the lifecycle: one step forward along
// pending → confirmed → preparing → ready → completed, or cancel from any
// non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] == statusRank[s]+1
}

// Type distinguishes pickup and delivery orders.
type Type string

const (
	TypePickup   Type = "pickup"
	TypeDelivery Type = "delivery"
)

func (t Type) Valid() bool {
	return t == TypePickup || t == TypeDelivery
}

// Order is the durable record created from a cart. Total is computed from
// line snapshots at conversion time and never recomputed afterwards.
type Order struct {
	ID               int             `json:"orderId"`
	OwnerKey         string          `json:"-"`
	UserID           *int            `json:"userId,omitempty"`
	Total            decimal.Decimal `json:"total"`
	Status           Status          `json:"status"`
	Type             Type            `json:"orderType"`
	ScheduledAt      *time.Time      `json:"scheduledAt,omitempty"`
	Instructions     *string         `json:"instructions,omitempty"`
	AddressID        *int            `json:"addressId,omitempty"`
	EstimatedReadyAt *time.Time      `json:"estimatedReadyAt,omitempty"`
	IdempotencyKey   *string         `json:"-"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}

// DisplayStatus is the presentation overlay: when the kitchen has posted an
// estimated-ready time and the order is still in flight, the storefront shows
// "ready_time" instead of the raw status. Never persisted.
func (o Order) DisplayStatus() string {
	if o.EstimatedReadyAt != nil && !o.Status.Terminal() {
		return "ready_time"
	}
	return string(o.Status)
}

// Line is a permanent order line. Quantity, unit price, variant and
// instructions are copied verbatim from the cart at conversion time.
type Line struct {
	ID           int             `json:"lineId"`
	OrderID      int             `json:"orderId"`
	MenuItemID   int             `json:"menuItemId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Variant      *string         `json:"variant,omitempty"`
	Instructions *string         `json:"instructions,omitempty"`
}

// Draft carries the checkout metadata supplied by the client. The cart
// contents and total are never taken from client input.
type Draft struct {
	Type           Type
	ScheduledAt    *time.Time
	Instructions   *string
	AddressID      *int
	IdempotencyKey *string
}
