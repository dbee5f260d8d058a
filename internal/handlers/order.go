package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/pos"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/util"
)

type OrderHandler struct {
	DB *gorm.DB
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	businessID := businessIDFrom(c)
	if businessID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "businessId required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Order{}).Where("business_id = ?", businessID)
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if typ := c.QueryParam("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).
		Preload("Items").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND business_id = ?", id, businessIDFrom(c)).
		Preload("Items").First(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

// persistOrder writes a POS order record and its item snapshot as history.
// Selected modifiers go along as JSON so receipts can be reprinted.
func persistOrder(db *gorm.DB, businessID uint, o pos.Order) (models.Order, error) {
	record := models.Order{
		BusinessID: businessID,
		Code:       o.ID,
		Type:       string(o.Type),
		Status:     string(o.Status),
		TableLabel: o.Table,
		Customer:   o.Customer,
		IsPaid:     o.IsPaid,
		Total:      o.Total,
		CreatedAt:  o.Timestamp,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, it := range o.Items {
			mods := ""
			if len(it.Product.SelectedModifiers) > 0 {
				raw, err := json.Marshal(it.Product.SelectedModifiers)
				if err != nil {
					return err
				}
				mods = string(raw)
			}
			item := models.OrderItem{
				OrderID:   record.ID,
				ProductID: it.Product.ID,
				Name:      it.Product.Name,
				UnitPrice: it.Product.UnitPrice(),
				Quantity:  it.Quantity,
				Comment:   it.Comment,
				Modifiers: mods,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return record, nil
}

// updatePersistedStatus mirrors a roster transition onto the history row,
// if one exists for this POS order code.
func updatePersistedStatus(db *gorm.DB, businessID uint, code string, status pos.OrderStatus) error {
	return db.Model(&models.Order{}).
		Where("business_id = ? AND code = ?", businessID, code).
		Update("status", string(status)).Error
}
