package pos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func product(id uint, name string, price float64) ProductRef {
	return ProductRef{ID: id, Name: name, Price: price}
}

func withModifiers(p ProductRef, final float64, mods ...SelectedModifier) ProductRef {
	p.FinalPrice = &final
	p.SelectedModifiers = mods
	return p
}

func TestAddMergesSameUnmodifiedProduct(t *testing.T) {
	var c Cart

	c.Add(product(1, "Burger", 10), 2, "")
	c.Add(product(1, "Burger", 10), 3, "")

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
	require.Equal(t, "prod-1", items[0].ID)
}

func TestAddWithModifiersNeverMerges(t *testing.T) {
	var c Cart

	cheese := SelectedModifier{GroupID: 1, GroupName: "Extras", ToppingID: 7, Name: "Cheese", Price: 1.5}
	c.Add(withModifiers(product(1, "Burger", 10), 11.5, cheese), 1, "")
	c.Add(withModifiers(product(1, "Burger", 10), 11.5, cheese), 1, "")

	items := c.Items()
	require.Len(t, items, 2)
	require.NotEqual(t, items[0].ID, items[1].ID)
}

func TestTotalPrefersModifierInclusivePrice(t *testing.T) {
	var c Cart

	c.Add(product(1, "Burger", 10), 2, "")
	require.Equal(t, 20.0, c.Total())

	cheese := SelectedModifier{GroupID: 1, GroupName: "Extras", ToppingID: 7, Name: "Cheese", Price: 1.5}
	c.Add(withModifiers(product(1, "Burger", 10), 11.5, cheese), 1, "")

	require.Equal(t, 2, c.Len())
	require.Equal(t, 31.5, c.Total())
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	var c Cart

	item := c.Add(product(1, "Burger", 10), 2, "")

	got, err := c.UpdateQuantity(item.ID, -100)
	require.NoError(t, err)
	require.Equal(t, 1, got.Quantity)

	got, err = c.UpdateQuantity(item.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 4, got.Quantity)

	_, err = c.UpdateQuantity("missing", 1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	var c Cart

	item := c.Add(product(1, "Burger", 10), 0, "")
	require.Equal(t, 1, item.Quantity)
}

func TestRemoveItem(t *testing.T) {
	var c Cart

	item := c.Add(product(1, "Burger", 10), 1, "")
	require.NoError(t, c.Remove(item.ID))
	require.True(t, c.IsEmpty())

	var nf *NotFoundError
	require.ErrorAs(t, c.Remove(item.ID), &nf)
}

func TestUpdateItemKeepsCommentOnProductReplace(t *testing.T) {
	var c Cart

	cheese := SelectedModifier{GroupID: 1, GroupName: "Extras", ToppingID: 7, Name: "Cheese", Price: 1.5}
	item := c.Add(withModifiers(product(1, "Burger", 10), 11.5, cheese), 1, "no onions")

	bacon := SelectedModifier{GroupID: 1, GroupName: "Extras", ToppingID: 8, Name: "Bacon", Price: 2}
	replacement := withModifiers(product(1, "Burger", 10), 12, bacon)

	got, err := c.Update(item.ID, ItemPatch{Product: &replacement})
	require.NoError(t, err)
	require.Equal(t, "no onions", got.Comment)
	require.Equal(t, 12.0, got.Product.UnitPrice())
	require.Equal(t, item.ID, got.ID)

	comment := "extra crispy"
	got, err = c.Update(item.ID, ItemPatch{Comment: &comment})
	require.NoError(t, err)
	require.Equal(t, "extra crispy", got.Comment)
}
