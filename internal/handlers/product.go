package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/mykafka"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["businessID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.Preload("ToppingGroups.Toppings").First(&product, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	businessID := businessIDFrom(c)
	if businessID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "businessId required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Product{}).Where("business_id = ?", businessID)
	if cat := parseIntDefault(c.QueryParam("categoryId"), 0); cat > 0 {
		q = q.Where("category_id = ?", cat)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).
		Preload("ToppingGroups.Toppings").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

type productRequest struct {
	CategoryID      uint    `json:"category_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	ImageURL        string  `json:"image_url"`
	Available       *bool   `json:"available"`
	ToppingGroupIDs []uint  `json:"topping_group_ids"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	businessID := businessIDFrom(c)

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name required, price must be non-negative")
	}

	prod := models.Product{
		BusinessID:  businessID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		prod.Available = *req.Available
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.ToppingGroupIDs) > 0 {
		var groups []models.ToppingGroup
		if err := h.DB.Where("id IN ? AND business_id = ?", req.ToppingGroupIDs, businessID).Find(&groups).Error; err == nil {
			if err := h.DB.Model(&prod).Association("ToppingGroups").Replace(groups); err != nil {
				c.Logger().Errorf("topping group association error: %v", err)
			}
		}
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"businessID": prod.BusinessID,
		"productID":  prod.ID,
		"name":       prod.Name,
	})
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var prod models.Product
	if err := h.DB.Where("id = ? AND business_id = ?", id, businessIDFrom(c)).First(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if req.Name != "" {
		prod.Name = req.Name
	}
	if req.Description != "" {
		prod.Description = req.Description
	}
	if req.Price > 0 {
		prod.Price = req.Price
	}
	if req.ImageURL != "" {
		prod.ImageURL = req.ImageURL
	}
	if req.CategoryID != 0 {
		prod.CategoryID = req.CategoryID
	}
	if req.Available != nil {
		prod.Available = *req.Available
	}

	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ToppingGroupIDs != nil {
		var groups []models.ToppingGroup
		if err := h.DB.Where("id IN ? AND business_id = ?", req.ToppingGroupIDs, prod.BusinessID).Find(&groups).Error; err == nil {
			if err := h.DB.Model(&prod).Association("ToppingGroups").Replace(groups); err != nil {
				c.Logger().Errorf("topping group association error: %v", err)
			}
		}
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"businessID": prod.BusinessID,
		"productID":  prod.ID,
		"name":       prod.Name,
	})
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	businessID := businessIDFrom(c)
	if err := h.DB.Where("id = ? AND business_id = ?", id, businessID).Delete(&models.Product{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"businessID": businessID,
		"productID":  id,
	})
	return c.NoContent(http.StatusNoContent)
}
