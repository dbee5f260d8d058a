package pos

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
)

type OrderType string

const (
	TypeDineIn   OrderType = "dine_in"
	TypeTakeaway OrderType = "takeaway"
	TypeDelivery OrderType = "delivery"
	TypeKitchen  OrderType = "kitchen"
	TypeFreeze   OrderType = "freeze"
)

// transitions is the only legal status progression. Skips and regressions
// are rejected; completed additionally requires payment (see Session).
var transitions = map[OrderStatus]OrderStatus{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusReady,
	StatusReady:      StatusCompleted,
}

func canTransition(from, to OrderStatus) bool {
	return transitions[from] == to
}

func validStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusCompleted:
		return true
	}
	return false
}

type Order struct {
	ID        string      `json:"id"`
	Items     []CartItem  `json:"items"`
	Status    OrderStatus `json:"status"`
	Type      OrderType   `json:"type"`
	Table     string      `json:"table,omitempty"`
	Customer  string      `json:"customer,omitempty"`
	IsPaid    bool        `json:"is_paid"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

func (o *Order) IsFrozen() bool { return o.Type == TypeFreeze }

// Roster groups the in-flight orders for display. Frozen entries sit apart
// from the status progression until recovered.
type Roster struct {
	Pending    []Order `json:"pending"`
	InProgress []Order `json:"in_progress"`
	Ready      []Order `json:"ready"`
	Frozen     []Order `json:"frozen"`
}
