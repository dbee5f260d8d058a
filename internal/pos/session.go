package pos

import (
	"sync"
	"time"

	"github.com/lucsky/cuid"
)

type FreezeMeta struct {
	Table    string `json:"table"`
	Customer string `json:"customer"`
}

// Session is the order-lifecycle state machine of one POS terminal: the
// cart being assembled, the kitchen-send gate, the roster of in-flight and
// parked orders, and the checkout wizard. All operations serialize on the
// session mutex; handlers for the same terminal may run concurrently.
type Session struct {
	mu sync.Mutex

	cart          Cart
	sentToKitchen bool

	// editingFrozenID makes the next freeze update the named roster entry
	// instead of appending a duplicate.
	editingFrozenID string

	// pendingFinalizationID routes the next confirmed checkout straight to
	// completed instead of re-entering the pending roster.
	pendingFinalizationID string

	roster []Order

	step    Step
	details Details
	payment Payment

	now func() time.Time
}

func NewSession() *Session {
	return &Session{step: StepCart, now: time.Now}
}

// Cart operations

func (s *Session) AddItem(p ProductRef, quantity int, comment string) CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cart.Add(p, quantity, comment)
	// New items invalidate a previous kitchen send, except while re-editing
	// a parked order, which was sent by construction.
	if s.editingFrozenID == "" {
		s.sentToKitchen = false
	}
	return item
}

func (s *Session) UpdateQuantity(itemID string, delta int) (CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.UpdateQuantity(itemID, delta)
}

func (s *Session) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(itemID)
}

func (s *Session) UpdateItem(itemID string, patch ItemPatch) (CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Update(itemID, patch)
}

func (s *Session) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Kitchen-send gate

func (s *Session) SendToKitchen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return &ValidationError{Field: "cart", Reason: "cannot send an empty cart to kitchen"}
	}
	s.sentToKitchen = true
	return nil
}

func (s *Session) SentToKitchen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentToKitchen
}

// Freeze / recover

func (s *Session) FreezeOrder(meta FreezeMeta) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return Order{}, &ValidationError{Field: "cart", Reason: "cannot freeze an empty cart"}
	}
	if !s.sentToKitchen {
		return Order{}, &BlockedActionError{Action: "freeze"}
	}

	var frozen Order
	if s.editingFrozenID != "" {
		idx := s.findOrder(s.editingFrozenID)
		if idx < 0 {
			return Order{}, &NotFoundError{Kind: "frozen order", ID: s.editingFrozenID}
		}
		s.roster[idx].Items = s.cart.Items()
		s.roster[idx].Total = s.cart.Total()
		s.roster[idx].Table = meta.Table
		s.roster[idx].Customer = meta.Customer
		s.roster[idx].Timestamp = s.now()
		frozen = s.roster[idx]
	} else {
		frozen = Order{
			ID:        cuid.New(),
			Items:     s.cart.Items(),
			Status:    StatusPending,
			Type:      TypeFreeze,
			Table:     meta.Table,
			Customer:  meta.Customer,
			IsPaid:    false,
			Total:     s.cart.Total(),
			Timestamp: s.now(),
		}
		s.roster = append(s.roster, frozen)
	}

	s.cart.Clear()
	s.sentToKitchen = false
	s.editingFrozenID = ""
	// Re-parking the cart supersedes any recovery still in flight; the next
	// checkout must not complete under the recovered order's id.
	s.pendingFinalizationID = ""
	return frozen, nil
}

func (s *Session) EditFrozenOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findOrder(orderID)
	if idx < 0 || !s.roster[idx].IsFrozen() {
		return &NotFoundError{Kind: "frozen order", ID: orderID}
	}

	s.cart.replaceAll(s.roster[idx].Items)
	// A parked order was already sent; reopening it keeps the gate open.
	s.sentToKitchen = true
	s.editingFrozenID = orderID
	return nil
}

func (s *Session) RecoverFrozenOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findOrder(orderID)
	if idx < 0 || !s.roster[idx].IsFrozen() {
		return &NotFoundError{Kind: "frozen order", ID: orderID}
	}

	s.cart.replaceAll(s.roster[idx].Items)
	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	s.sentToKitchen = true
	s.editingFrozenID = ""
	s.pendingFinalizationID = orderID
	return nil
}

// Roster

func (s *Session) Roster() Roster {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r Roster
	for _, o := range s.roster {
		switch {
		case o.IsFrozen():
			r.Frozen = append(r.Frozen, o)
		case o.Status == StatusPending:
			r.Pending = append(r.Pending, o)
		case o.Status == StatusInProgress:
			r.InProgress = append(r.InProgress, o)
		case o.Status == StatusReady:
			r.Ready = append(r.Ready, o)
		}
	}
	return r
}

func (s *Session) UpdateStatus(orderID string, newStatus OrderStatus) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validStatus(newStatus) {
		return Order{}, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	idx := s.findOrder(orderID)
	if idx < 0 || s.roster[idx].IsFrozen() {
		return Order{}, &NotFoundError{Kind: "order", ID: orderID}
	}

	o := &s.roster[idx]
	if !canTransition(o.Status, newStatus) {
		return Order{}, &InvalidTransitionError{From: o.Status, To: newStatus}
	}
	if newStatus == StatusCompleted {
		return Order{}, &ValidationError{Field: "status", Reason: "use finalize to complete an order"}
	}

	o.Status = newStatus
	o.Timestamp = s.now()
	return *o, nil
}

// Finalize completes a paid, ready order and removes it from the roster.
// The returned record is append-only history; the caller persists it.
func (s *Session) Finalize(orderID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findOrder(orderID)
	if idx < 0 || s.roster[idx].IsFrozen() {
		return Order{}, &NotFoundError{Kind: "order", ID: orderID}
	}

	o := s.roster[idx]
	if !o.IsPaid {
		return Order{}, &ValidationError{Field: "is_paid", Reason: "order must be paid before finalizing"}
	}
	if !canTransition(o.Status, StatusCompleted) {
		return Order{}, &InvalidTransitionError{From: o.Status, To: StatusCompleted}
	}

	o.Status = StatusCompleted
	o.Timestamp = s.now()
	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	return o, nil
}

// Checkout wizard

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// ProcessOrder opens the checkout wizard. It is the only entry: a cart that
// was never sent to the kitchen is blocked, never silently sent.
func (s *Session) ProcessOrder() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return &ValidationError{Field: "cart", Reason: "cart is empty"}
	}
	if !s.sentToKitchen {
		return &BlockedActionError{Action: "checkout"}
	}
	if s.step != StepCart {
		return &ValidationError{Field: "step", Reason: "checkout already in progress"}
	}
	s.step = StepDetails
	return nil
}

func (s *Session) SubmitDetails(d Details) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepDetails {
		return &ValidationError{Field: "step", Reason: "not at the details step"}
	}
	if err := d.validate(); err != nil {
		return err
	}
	s.details = d
	s.step = StepPayment
	return nil
}

func (s *Session) SubmitPayment(p Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPayment {
		return &ValidationError{Field: "step", Reason: "not at the payment step"}
	}
	if err := p.validate(); err != nil {
		return err
	}
	s.payment = p
	s.step = StepConfirmation
	return nil
}

// ConfirmOrder finishes the wizard. A recovered parked order finalizes
// directly to completed; everything else enters the roster as pending.
// Either way the cart, gate and wizard reset.
func (s *Session) ConfirmOrder() (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepConfirmation {
		return Order{}, &ValidationError{Field: "step", Reason: "not at the confirmation step"}
	}

	order := Order{
		Items:     s.cart.Items(),
		Type:      s.details.Type,
		Table:     s.details.Table,
		Customer:  s.details.Customer,
		IsPaid:    true,
		Total:     s.cart.Total(),
		Timestamp: s.now(),
	}

	// A cart reopened from a parked order that checks out instead of
	// re-freezing consumes its former slot.
	if s.editingFrozenID != "" {
		if idx := s.findOrder(s.editingFrozenID); idx >= 0 {
			s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
		}
	}

	if s.pendingFinalizationID != "" {
		order.ID = s.pendingFinalizationID
		order.Status = StatusCompleted
		s.pendingFinalizationID = ""
	} else {
		order.ID = cuid.New()
		order.Status = StatusPending
		s.roster = append(s.roster, order)
	}

	s.cart.Clear()
	s.sentToKitchen = false
	s.editingFrozenID = ""
	s.step = StepCart
	s.details = Details{}
	s.payment = Payment{}
	return order, nil
}

// CancelCheckout steps back to the cart without touching its contents.
func (s *Session) CancelCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepCart
	s.details = Details{}
	s.payment = Payment{}
}

func (s *Session) findOrder(orderID string) int {
	for i := range s.roster {
		if s.roster[i].ID == orderID {
			return i
		}
	}
	return -1
}
