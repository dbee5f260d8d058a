package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
)

type TableHandler struct {
	DB *gorm.DB
	// MenuBaseURL is the public menu origin QR codes point customers at.
	MenuBaseURL string
}

func (h *TableHandler) GetTables(c echo.Context) error {
	businessID := businessIDFrom(c)
	if businessID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "businessId required")
	}

	var tables []models.Table
	if err := h.DB.Where("business_id = ?", businessID).Order("id ASC").Find(&tables).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) CreateTable(c echo.Context) error {
	var req struct {
		Number string `json:"number"`
		Seats  int    `json:"seats"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "number required")
	}

	table := models.Table{
		BusinessID: businessIDFrom(c),
		Number:     req.Number,
		Seats:      req.Seats,
	}
	if table.Seats <= 0 {
		table.Seats = 4
	}
	if err := h.DB.Create(&table).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) DeleteTable(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := h.DB.Where("id = ? AND business_id = ?", id, businessIDFrom(c)).
		Delete(&models.Table{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TableQR renders the table's QR code as a PNG. The encoded URL opens the
// business menu with the table preselected.
func (h *TableHandler) TableQR(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var table models.Table
	if err := h.DB.First(&table, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}

	var business models.Business
	if err := h.DB.First(&business, table.BusinessID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "business not found")
	}

	target := fmt.Sprintf("%s/%s?table=%s", h.MenuBaseURL, business.Slug, table.Number)
	size := parseIntDefault(c.QueryParam("size"), 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot render QR code")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
