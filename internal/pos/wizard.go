package pos

type Step string

const (
	StepCart         Step = "cart"
	StepDetails      Step = "details"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

type Details struct {
	Type     OrderType `json:"type"`
	Table    string    `json:"table"`
	Customer string    `json:"customer"`
}

func (d Details) validate() error {
	switch d.Type {
	case TypeDineIn:
		if d.Table == "" {
			return &ValidationError{Field: "table", Reason: "required for dine-in orders"}
		}
	case TypeTakeaway, TypeDelivery, TypeKitchen:
		if d.Customer == "" {
			return &ValidationError{Field: "customer", Reason: "required for non dine-in orders"}
		}
	default:
		return &ValidationError{Field: "type", Reason: "unknown order type"}
	}
	return nil
}

type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

func (p Payment) validate() error {
	if p.Method == "" {
		return &ValidationError{Field: "method", Reason: "payment method required"}
	}
	return nil
}
