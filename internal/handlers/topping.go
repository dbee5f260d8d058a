package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
)

type ToppingHandler struct {
	DB *gorm.DB
}

// GetToppingGroups serves both listing by business and the batch fetch the
// menu uses: GET /topping-groups?ids=1,2,3.
func (h *ToppingHandler) GetToppingGroups(c echo.Context) error {
	q := h.DB.Preload("Toppings")

	if raw := c.QueryParam("ids"); raw != "" {
		ids := make([]uint, 0)
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || v <= 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid ids parameter")
			}
			ids = append(ids, uint(v))
		}
		q = q.Where("id IN ?", ids)
	} else {
		businessID := businessIDFrom(c)
		if businessID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "businessId or ids required")
		}
		q = q.Where("business_id = ?", businessID)
	}

	var groups []models.ToppingGroup
	if err := q.Order("id ASC").Find(&groups).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

type toppingGroupRequest struct {
	Name      string `json:"name"`
	MinSelect int    `json:"min_select"`
	MaxSelect int    `json:"max_select"`
	Toppings  []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"toppings"`
}

func (h *ToppingHandler) CreateToppingGroup(c echo.Context) error {
	var req toppingGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	if req.MaxSelect > 0 && req.MinSelect > req.MaxSelect {
		return echo.NewHTTPError(http.StatusBadRequest, "min_select cannot exceed max_select")
	}

	group := models.ToppingGroup{
		BusinessID: businessIDFrom(c),
		Name:       req.Name,
		MinSelect:  req.MinSelect,
		MaxSelect:  req.MaxSelect,
	}
	for _, t := range req.Toppings {
		group.Toppings = append(group.Toppings, models.Topping{Name: t.Name, Price: t.Price})
	}

	if err := h.DB.Create(&group).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, group)
}

func (h *ToppingHandler) PatchToppingGroup(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req toppingGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var group models.ToppingGroup
	if err := h.DB.Where("id = ? AND business_id = ?", id, businessIDFrom(c)).First(&group).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "topping group not found")
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	group.MinSelect = req.MinSelect
	group.MaxSelect = req.MaxSelect
	if err := h.DB.Save(&group).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Toppings in the request replace the group's toppings wholesale.
	if req.Toppings != nil {
		if err := h.DB.Where("group_id = ?", group.ID).Delete(&models.Topping{}).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		for _, t := range req.Toppings {
			topping := models.Topping{GroupID: group.ID, Name: t.Name, Price: t.Price}
			if err := h.DB.Create(&topping).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
	}

	if err := h.DB.Preload("Toppings").First(&group, group.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, group)
}

func (h *ToppingHandler) DeleteToppingGroup(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var group models.ToppingGroup
	if err := h.DB.Where("id = ? AND business_id = ?", id, businessIDFrom(c)).First(&group).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "topping group not found")
	}

	if err := h.DB.Where("group_id = ?", group.ID).Delete(&models.Topping{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if err := h.DB.Delete(&group).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}
