package pos

import (
	"fmt"

	"github.com/lucsky/cuid"
)

type SelectedModifier struct {
	GroupID   uint    `json:"group_id"`
	GroupName string  `json:"group_name"`
	ToppingID uint    `json:"topping_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// ProductRef is the snapshot of a product a cart line points at. FinalPrice
// carries the modifier-inclusive unit price when modifiers were selected.
type ProductRef struct {
	ID                uint               `json:"id"`
	Name              string             `json:"name"`
	Price             float64            `json:"price"`
	FinalPrice        *float64           `json:"final_price,omitempty"`
	SelectedModifiers []SelectedModifier `json:"selected_modifiers,omitempty"`
}

func (p ProductRef) UnitPrice() float64 {
	if p.FinalPrice != nil {
		return *p.FinalPrice
	}
	return p.Price
}

func (p ProductRef) HasModifiers() bool {
	return len(p.SelectedModifiers) > 0
}

type CartItem struct {
	ID       string     `json:"id"`
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Comment  string     `json:"comment"`
}

// ItemPatch is a shallow merge applied to a cart line. Nil fields keep the
// existing value; replacing the product without a comment keeps the old
// comment so modifier edits never silently drop annotations.
type ItemPatch struct {
	Product  *ProductRef `json:"product,omitempty"`
	Quantity *int        `json:"quantity,omitempty"`
	Comment  *string     `json:"comment,omitempty"`
}

// Cart is an ordered list of lines. Lines for the same unmodified product
// merge; customized lines always get their own generated id because two
// customizations are not fungible.
type Cart struct {
	items []CartItem
}

func mergedLineID(productID uint) string {
	return fmt.Sprintf("prod-%d", productID)
}

func (c *Cart) Add(p ProductRef, quantity int, comment string) CartItem {
	if quantity < 1 {
		quantity = 1
	}

	if !p.HasModifiers() {
		id := mergedLineID(p.ID)
		for i := range c.items {
			if c.items[i].ID == id {
				c.items[i].Quantity += quantity
				return c.items[i]
			}
		}
		item := CartItem{ID: id, Product: p, Quantity: quantity, Comment: comment}
		c.items = append(c.items, item)
		return item
	}

	item := CartItem{ID: cuid.New(), Product: p, Quantity: quantity, Comment: comment}
	c.items = append(c.items, item)
	return item
}

// UpdateQuantity applies delta to a line, flooring the result at 1. Removal
// goes through Remove, never through a large negative delta.
func (c *Cart) UpdateQuantity(itemID string, delta int) (CartItem, error) {
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Quantity += delta
			if c.items[i].Quantity < 1 {
				c.items[i].Quantity = 1
			}
			return c.items[i], nil
		}
	}
	return CartItem{}, &NotFoundError{Kind: "cart item", ID: itemID}
}

func (c *Cart) Remove(itemID string) error {
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Kind: "cart item", ID: itemID}
}

func (c *Cart) Update(itemID string, patch ItemPatch) (CartItem, error) {
	for i := range c.items {
		if c.items[i].ID != itemID {
			continue
		}
		if patch.Product != nil {
			c.items[i].Product = *patch.Product
		}
		if patch.Quantity != nil {
			q := *patch.Quantity
			if q < 1 {
				q = 1
			}
			c.items[i].Quantity = q
		}
		if patch.Comment != nil {
			c.items[i].Comment = *patch.Comment
		}
		return c.items[i], nil
	}
	return CartItem{}, &NotFoundError{Kind: "cart item", ID: itemID}
}

func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Product.UnitPrice() * float64(it.Quantity)
	}
	return total
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Items returns a copy so callers cannot mutate cart state behind the lock.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) replaceAll(items []CartItem) {
	c.items = make([]CartItem, len(items))
	copy(c.items, items)
}

func (c *Cart) Clear() { c.items = nil }
