package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
)

type BusinessHandler struct {
	DB *gorm.DB
}

// GetBusiness is the public config read the customer menu boots from,
// addressed by slug or numeric id.
func (h *BusinessHandler) GetBusiness(c echo.Context) error {
	ref := c.Param("ref")

	var business models.Business
	q := h.DB.Where("slug = ?", ref)
	if id := parseIntDefault(ref, 0); id > 0 {
		q = h.DB.Where("id = ? OR slug = ?", id, ref)
	}
	if err := q.First(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "business not found")
	}
	return c.JSON(http.StatusOK, business)
}

func (h *BusinessHandler) CreateBusiness(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Currency string `json:"currency"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and slug required")
	}

	business := models.Business{
		Name:     req.Name,
		Slug:     req.Slug,
		Address:  req.Address,
		Phone:    req.Phone,
		Currency: req.Currency,
		IsOpen:   true,
	}
	if business.Currency == "" {
		business.Currency = "MXN"
	}
	if err := h.DB.Create(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, business)
}

func (h *BusinessHandler) PatchBusiness(c echo.Context) error {
	businessID := businessIDFrom(c)

	var business models.Business
	if err := h.DB.First(&business, businessID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "business not found")
	}

	var req struct {
		Name     string `json:"name"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Currency string `json:"currency"`
		LogoURL  string `json:"logo_url"`
		MenuURL  string `json:"menu_url"`
		IsOpen   *bool  `json:"is_open"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Name != "" {
		business.Name = req.Name
	}
	if req.Address != "" {
		business.Address = req.Address
	}
	if req.Phone != "" {
		business.Phone = req.Phone
	}
	if req.Currency != "" {
		business.Currency = req.Currency
	}
	if req.LogoURL != "" {
		business.LogoURL = req.LogoURL
	}
	if req.MenuURL != "" {
		business.MenuURL = req.MenuURL
	}
	if req.IsOpen != nil {
		business.IsOpen = *req.IsOpen
	}

	if err := h.DB.Save(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, business)
}
