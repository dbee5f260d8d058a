package pos

import "fmt"

// ValidationError marks input that keeps the caller on the current step.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// BlockedActionError signals a checkout action attempted before the cart
// was sent to the kitchen. The session state is left unchanged.
type BlockedActionError struct {
	Action string
}

func (e *BlockedActionError) Error() string {
	return fmt.Sprintf("%s blocked: cart not sent to kitchen", e.Action)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}
