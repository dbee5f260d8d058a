package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/mykafka"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/pos"
)

func newPosHandler(t *testing.T) (*PosHandler, *gorm.DB) {
	db := InitTestDB(t)
	return &PosHandler{DB: db, Producer: &mykafka.Producer{}, Sessions: pos.NewRegistry()}, db
}

func seedBurger(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	group := models.ToppingGroup{
		BusinessID: 1,
		Name:       "Extras",
		MaxSelect:  3,
		Toppings:   []models.Topping{{Name: "Cheese", Price: 1.5}},
	}
	require.NoError(t, db.Create(&group).Error)

	prod := models.Product{BusinessID: 1, Name: "Burger", Price: 10, Available: true}
	require.NoError(t, db.Create(&prod).Error)
	require.NoError(t, db.Model(&prod).Association("ToppingGroups").Append(&group))
	return prod
}

func posRequest(t *testing.T, e *echo.Echo, method, path string, payload any, params ...string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	c, rec := jsonRequest(t, e, method, path, payload)
	names := []string{"terminal"}
	values := []string{"t1"}
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	c.Set("businessID", uint(1))
	return rec, c
}

func TestPosAddItemAndTotals(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	rec, c := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{
		"product_id": prod.ID,
		"quantity":   2,
	})
	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var topping models.Topping
	require.NoError(t, db.First(&topping).Error)

	rec2, c2 := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{
		"product_id":  prod.ID,
		"quantity":    1,
		"topping_ids": []uint{topping.ID},
	})
	require.NoError(t, h.AddItem(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var item pos.CartItem
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &item))
	require.Equal(t, 11.5, item.Product.UnitPrice())
	require.Len(t, item.Product.SelectedModifiers, 1)

	recCart, cCart := posRequest(t, e, http.MethodGet, "/pos/t1/cart", nil)
	require.NoError(t, h.GetCart(cCart))

	var view cartView
	require.NoError(t, json.Unmarshal(recCart.Body.Bytes(), &view))
	require.Len(t, view.Items, 2)
	require.Equal(t, 31.5, view.Total)
	require.False(t, view.SentToKitchen)
}

func TestPosRejectsUnknownTopping(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	// A topping from a group not attached to the product.
	other := models.ToppingGroup{BusinessID: 1, Name: "Other", Toppings: []models.Topping{{Name: "Olives", Price: 1}}}
	require.NoError(t, db.Create(&other).Error)

	_, c := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{
		"product_id":  prod.ID,
		"quantity":    1,
		"topping_ids": []uint{other.Toppings[0].ID},
	})
	err := h.AddItem(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPosCheckoutBlockedBeforeKitchenSend(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	_, cAdd := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{
		"product_id": prod.ID,
		"quantity":   1,
	})
	require.NoError(t, h.AddItem(cAdd))

	_, c := posRequest(t, e, http.MethodPost, "/pos/t1/checkout", nil)
	err := h.ProcessOrder(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestPosFullCheckoutPersistsOrder(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	_, cAdd := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{
		"product_id": prod.ID,
		"quantity":   2,
		"comment":    "no onions",
	})
	require.NoError(t, h.AddItem(cAdd))

	_, cSend := posRequest(t, e, http.MethodPost, "/pos/t1/kitchen", nil)
	require.NoError(t, h.SendToKitchen(cSend))

	_, cProcess := posRequest(t, e, http.MethodPost, "/pos/t1/checkout", nil)
	require.NoError(t, h.ProcessOrder(cProcess))

	_, cDetails := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/details", map[string]any{
		"type":  "dine_in",
		"table": "5",
	})
	require.NoError(t, h.SubmitDetails(cDetails))

	_, cPay := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/payment", map[string]any{
		"method": "cash",
		"amount": 20.0,
	})
	require.NoError(t, h.SubmitPayment(cPay))

	recConfirm, cConfirm := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/confirm", nil)
	require.NoError(t, h.ConfirmOrder(cConfirm))
	require.Equal(t, http.StatusOK, recConfirm.Code)

	var confirmed pos.Order
	require.NoError(t, json.Unmarshal(recConfirm.Body.Bytes(), &confirmed))
	require.Equal(t, pos.StatusPending, confirmed.Status)
	require.True(t, confirmed.IsPaid)
	require.Equal(t, 20.0, confirmed.Total)

	var record models.Order
	require.NoError(t, db.Where("code = ?", confirmed.ID).Preload("Items").First(&record).Error)
	require.Equal(t, uint(1), record.BusinessID)
	require.Equal(t, "pending", record.Status)
	require.Equal(t, "5", record.TableLabel)
	require.Len(t, record.Items, 1)
	require.Equal(t, "no onions", record.Items[0].Comment)
	require.Equal(t, 2, record.Items[0].Quantity)
}

func TestPosStatusAndFinalizePersisted(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	// Drive a full order into the roster over HTTP.
	_, cAdd := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{"product_id": prod.ID, "quantity": 1})
	require.NoError(t, h.AddItem(cAdd))
	_, cSend := posRequest(t, e, http.MethodPost, "/pos/t1/kitchen", nil)
	require.NoError(t, h.SendToKitchen(cSend))
	_, cProcess := posRequest(t, e, http.MethodPost, "/pos/t1/checkout", nil)
	require.NoError(t, h.ProcessOrder(cProcess))
	_, cDetails := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/details", map[string]any{"type": "takeaway", "customer": "Ana"})
	require.NoError(t, h.SubmitDetails(cDetails))
	_, cPay := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/payment", map[string]any{"method": "card"})
	require.NoError(t, h.SubmitPayment(cPay))
	recConfirm, cConfirm := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/confirm", nil)
	require.NoError(t, h.ConfirmOrder(cConfirm))

	var confirmed pos.Order
	require.NoError(t, json.Unmarshal(recConfirm.Body.Bytes(), &confirmed))

	// Skipping straight to ready is rejected.
	_, cSkip := posRequest(t, e, http.MethodPatch, "/pos/t1/orders/x/status",
		map[string]any{"status": "ready"}, "orderID", confirmed.ID)
	err := h.UpdateStatus(cSkip)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)

	for _, status := range []string{"in_progress", "ready"} {
		_, cStatus := posRequest(t, e, http.MethodPatch, "/pos/t1/orders/x/status",
			map[string]any{"status": status}, "orderID", confirmed.ID)
		require.NoError(t, h.UpdateStatus(cStatus))
	}

	_, cFinalize := posRequest(t, e, http.MethodPost, "/pos/t1/orders/x/finalize", nil, "orderID", confirmed.ID)
	require.NoError(t, h.FinalizeOrder(cFinalize))

	var record models.Order
	require.NoError(t, db.Where("code = ?", confirmed.ID).First(&record).Error)
	require.Equal(t, "completed", record.Status)

	recRoster, cRoster := posRequest(t, e, http.MethodGet, "/pos/t1/orders", nil)
	require.NoError(t, h.GetRoster(cRoster))
	var roster pos.Roster
	require.NoError(t, json.Unmarshal(recRoster.Body.Bytes(), &roster))
	require.Empty(t, roster.Pending)
	require.Empty(t, roster.Ready)
}

func TestPosResetTerminalDiscardsSession(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	_, cAdd := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{"product_id": prod.ID, "quantity": 2})
	require.NoError(t, h.AddItem(cAdd))
	_, cSend := posRequest(t, e, http.MethodPost, "/pos/t1/kitchen", nil)
	require.NoError(t, h.SendToKitchen(cSend))

	recReset, cReset := posRequest(t, e, http.MethodDelete, "/pos/t1", nil)
	require.NoError(t, h.ResetTerminal(cReset))
	require.Equal(t, http.StatusNoContent, recReset.Code)

	recCart, cCart := posRequest(t, e, http.MethodGet, "/pos/t1/cart", nil)
	require.NoError(t, h.GetCart(cCart))

	var view cartView
	require.NoError(t, json.Unmarshal(recCart.Body.Bytes(), &view))
	require.Empty(t, view.Items)
	require.False(t, view.SentToKitchen)
	require.Equal(t, pos.StepCart, view.Step)
}

func TestPosFreezeRecoverCompletesDirectly(t *testing.T) {
	h, db := newPosHandler(t)
	e := echo.New()
	prod := seedBurger(t, db)

	_, cAdd := posRequest(t, e, http.MethodPost, "/pos/t1/cart/items", map[string]any{"product_id": prod.ID, "quantity": 2})
	require.NoError(t, h.AddItem(cAdd))
	_, cSend := posRequest(t, e, http.MethodPost, "/pos/t1/kitchen", nil)
	require.NoError(t, h.SendToKitchen(cSend))

	recFreeze, cFreeze := posRequest(t, e, http.MethodPost, "/pos/t1/freeze", map[string]any{"table": "5"})
	require.NoError(t, h.FreezeOrder(cFreeze))

	var frozen pos.Order
	require.NoError(t, json.Unmarshal(recFreeze.Body.Bytes(), &frozen))
	require.Equal(t, pos.TypeFreeze, frozen.Type)
	require.False(t, frozen.IsPaid)

	_, cRecover := posRequest(t, e, http.MethodPost, "/pos/t1/frozen/x/recover", nil, "orderID", frozen.ID)
	require.NoError(t, h.RecoverFrozenOrder(cRecover))

	_, cProcess := posRequest(t, e, http.MethodPost, "/pos/t1/checkout", nil)
	require.NoError(t, h.ProcessOrder(cProcess))
	_, cDetails := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/details", map[string]any{"type": "dine_in", "table": "5"})
	require.NoError(t, h.SubmitDetails(cDetails))
	_, cPay := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/payment", map[string]any{"method": "cash"})
	require.NoError(t, h.SubmitPayment(cPay))
	recConfirm, cConfirm := posRequest(t, e, http.MethodPost, "/pos/t1/checkout/confirm", nil)
	require.NoError(t, h.ConfirmOrder(cConfirm))

	var confirmed pos.Order
	require.NoError(t, json.Unmarshal(recConfirm.Body.Bytes(), &confirmed))
	require.Equal(t, frozen.ID, confirmed.ID)
	require.Equal(t, pos.StatusCompleted, confirmed.Status)

	var record models.Order
	require.NoError(t, db.Where("code = ?", confirmed.ID).First(&record).Error)
	require.Equal(t, "completed", record.Status)
	require.True(t, record.IsPaid)
}
