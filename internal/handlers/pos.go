package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/logging"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/mykafka"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/pos"
)

type PosHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Sessions *pos.Registry
}

func (h *PosHandler) session(c echo.Context) *pos.Session {
	return h.Sessions.Get(c.Param("terminal"))
}

func (h *PosHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["businessID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// posError maps the core's typed errors onto HTTP statuses.
func posError(err error) error {
	var (
		validation *pos.ValidationError
		blocked    *pos.BlockedActionError
		notFound   *pos.NotFoundError
		transition *pos.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.As(err, &blocked):
		return echo.NewHTTPError(http.StatusConflict, blocked.Error())
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	case errors.As(err, &transition):
		return echo.NewHTTPError(http.StatusConflict, transition.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

type cartView struct {
	Items         []pos.CartItem `json:"items"`
	Total         float64        `json:"total"`
	SentToKitchen bool           `json:"sent_to_kitchen"`
	Step          pos.Step       `json:"step"`
}

func (h *PosHandler) viewOf(s *pos.Session) cartView {
	return cartView{
		Items:         s.Items(),
		Total:         s.Total(),
		SentToKitchen: s.SentToKitchen(),
		Step:          s.Step(),
	}
}

func (h *PosHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.viewOf(h.session(c)))
}

func (h *PosHandler) AddItem(c echo.Context) error {
	var req struct {
		ProductID  uint   `json:"product_id"`
		Quantity   int    `json:"quantity"`
		Comment    string `json:"comment"`
		ToppingIDs []uint `json:"topping_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ref, err := h.productRef(c, req.ProductID, req.ToppingIDs)
	if err != nil {
		return err
	}

	item := h.session(c).AddItem(ref, req.Quantity, req.Comment)
	return c.JSON(http.StatusOK, item)
}

// productRef snapshots a product and the selected toppings into the shape
// the cart holds. FinalPrice carries the surcharges so the line keeps its
// price even if the catalog changes afterwards.
func (h *PosHandler) productRef(c echo.Context, productID uint, toppingIDs []uint) (pos.ProductRef, error) {
	var product models.Product
	if err := h.DB.Preload("ToppingGroups.Toppings").First(&product, productID).Error; err != nil {
		return pos.ProductRef{}, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if !product.Available {
		return pos.ProductRef{}, echo.NewHTTPError(http.StatusBadRequest, "product not available")
	}

	ref := pos.ProductRef{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}
	if len(toppingIDs) == 0 {
		return ref, nil
	}

	allowed := make(map[uint]struct {
		group   models.ToppingGroup
		topping models.Topping
	})
	for _, g := range product.ToppingGroups {
		for _, t := range g.Toppings {
			allowed[t.ID] = struct {
				group   models.ToppingGroup
				topping models.Topping
			}{g, t}
		}
	}

	final := product.Price
	for _, id := range toppingIDs {
		entry, ok := allowed[id]
		if !ok {
			return pos.ProductRef{}, echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("topping %d not valid for this product", id))
		}
		ref.SelectedModifiers = append(ref.SelectedModifiers, pos.SelectedModifier{
			GroupID:   entry.group.ID,
			GroupName: entry.group.Name,
			ToppingID: entry.topping.ID,
			Name:      entry.topping.Name,
			Price:     entry.topping.Price,
		})
		final += entry.topping.Price
	}
	ref.FinalPrice = &final
	return ref, nil
}

func (h *PosHandler) PatchItem(c echo.Context) error {
	itemID := c.Param("itemID")

	var req struct {
		QuantityDelta *int    `json:"quantity_delta"`
		Quantity      *int    `json:"quantity"`
		Comment       *string `json:"comment"`
		ProductID     *uint   `json:"product_id"`
		ToppingIDs    []uint  `json:"topping_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := h.session(c)

	if req.QuantityDelta != nil {
		item, err := sess.UpdateQuantity(itemID, *req.QuantityDelta)
		if err != nil {
			return posError(err)
		}
		return c.JSON(http.StatusOK, item)
	}

	patch := pos.ItemPatch{Quantity: req.Quantity, Comment: req.Comment}
	if req.ProductID != nil {
		ref, err := h.productRef(c, *req.ProductID, req.ToppingIDs)
		if err != nil {
			return err
		}
		patch.Product = &ref
	}

	item, err := sess.UpdateItem(itemID, patch)
	if err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *PosHandler) RemoveItem(c echo.Context) error {
	if err := h.session(c).RemoveItem(c.Param("itemID")); err != nil {
		return posError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PosHandler) SendToKitchen(c echo.Context) error {
	sess := h.session(c)
	if err := sess.SendToKitchen(); err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, h.viewOf(sess))
}

func (h *PosHandler) FreezeOrder(c echo.Context) error {
	var meta pos.FreezeMeta
	if err := c.Bind(&meta); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	frozen, err := h.session(c).FreezeOrder(meta)
	if err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, frozen)
}

func (h *PosHandler) EditFrozenOrder(c echo.Context) error {
	sess := h.session(c)
	if err := sess.EditFrozenOrder(c.Param("orderID")); err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, h.viewOf(sess))
}

func (h *PosHandler) RecoverFrozenOrder(c echo.Context) error {
	sess := h.session(c)
	if err := sess.RecoverFrozenOrder(c.Param("orderID")); err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, h.viewOf(sess))
}

func (h *PosHandler) GetRoster(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session(c).Roster())
}

func (h *PosHandler) ProcessOrder(c echo.Context) error {
	sess := h.session(c)
	if err := sess.ProcessOrder(); err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"step": sess.Step()})
}

func (h *PosHandler) SubmitDetails(c echo.Context) error {
	var details pos.Details
	if err := c.Bind(&details); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := h.session(c)
	if err := sess.SubmitDetails(details); err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"step": sess.Step()})
}

func (h *PosHandler) SubmitPayment(c echo.Context) error {
	var payment pos.Payment
	if err := c.Bind(&payment); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := h.session(c)
	if err := sess.SubmitPayment(payment); err != nil {
		return posError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"step": sess.Step()})
}

func (h *PosHandler) CancelCheckout(c echo.Context) error {
	sess := h.session(c)
	sess.CancelCheckout()
	return c.JSON(http.StatusOK, echo.Map{"step": sess.Step()})
}

func (h *PosHandler) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pos_confirm")

	order, err := h.session(c).ConfirmOrder()
	if err != nil {
		return posError(err)
	}

	businessID, _ := c.Get("businessID").(uint)
	if _, err := persistOrder(h.DB, businessID, order); err != nil {
		l.Error("order_persist_failed", "orderID", order.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "order confirmed but not persisted")
	}

	h.publish(c, map[string]any{
		"type":       "order_created",
		"businessID": businessID,
		"orderID":    order.ID,
		"status":     order.Status,
		"total":      order.Total,
	})

	l.Info("order_confirmed", "orderID", order.ID, "status", order.Status, "total", order.Total)
	return c.JSON(http.StatusOK, order)
}

// ResetTerminal discards a terminal's session wholesale: cart, gate, wizard
// and roster. Persisted history rows are untouched.
func (h *PosHandler) ResetTerminal(c echo.Context) error {
	terminal := c.Param("terminal")
	h.Sessions.Drop(terminal)

	logging.FromContext(c.Request().Context()).Info("terminal_reset", "terminal", terminal)
	return c.NoContent(http.StatusNoContent)
}

func (h *PosHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status pos.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.session(c).UpdateStatus(c.Param("orderID"), req.Status)
	if err != nil {
		return posError(err)
	}

	businessID, _ := c.Get("businessID").(uint)
	if err := updatePersistedStatus(h.DB, businessID, order.ID, order.Status); err != nil {
		c.Logger().Errorf("history status update error: %v", err)
	}

	h.publish(c, map[string]any{
		"type":       "order_updated",
		"businessID": businessID,
		"orderID":    order.ID,
		"status":     order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *PosHandler) FinalizeOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pos_finalize")

	order, err := h.session(c).Finalize(c.Param("orderID"))
	if err != nil {
		return posError(err)
	}

	businessID, _ := c.Get("businessID").(uint)
	if err := updatePersistedStatus(h.DB, businessID, order.ID, order.Status); err != nil {
		l.Error("history_status_update_failed", "orderID", order.ID, "error", err)
	}

	h.publish(c, map[string]any{
		"type":       "order_updated",
		"businessID": businessID,
		"orderID":    order.ID,
		"status":     order.Status,
	})

	l.Info("order_finalized", "orderID", order.ID)
	return c.JSON(http.StatusOK, order)
}
