package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
)

type ReportHandler struct {
	DB *gorm.DB
}

// SalesReport renders a PDF summary of completed orders between from and to
// (inclusive, YYYY-MM-DD): per-day revenue plus the best selling products.
func (h *ReportHandler) SalesReport(c echo.Context) error {
	businessID := businessIDFrom(c)
	if businessID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "businessId required")
	}

	from, to, err := reportRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var business models.Business
	if err := h.DB.First(&business, businessID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "business not found")
	}

	var orders []models.Order
	if err := h.DB.Where(
		"business_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
		businessID, "completed", from, to.Add(24*time.Hour),
	).Preload("Items").Order("created_at ASC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pdf, err := buildSalesPDF(business, from, to, orders)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot render report")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="sales_%s_%s.pdf"`, from.Format("2006-01-02"), to.Format("2006-01-02")))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func reportRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %s", fromStr)
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %s", toStr)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to precedes from")
	}
	return from, to, nil
}

func buildSalesPDF(business models.Business, from, to time.Time, orders []models.Order) ([]byte, error) {
	type productTotal struct {
		name  string
		qty   int
		total float64
	}

	perDay := make(map[string]float64)
	perProduct := make(map[string]*productTotal)
	var grand float64

	for _, o := range orders {
		day := o.CreatedAt.Format("2006-01-02")
		perDay[day] += o.Total
		grand += o.Total
		for _, it := range o.Items {
			pt, ok := perProduct[it.Name]
			if !ok {
				pt = &productTotal{name: it.Name}
				perProduct[it.Name] = pt
			}
			pt.qty += it.Quantity
			pt.total += it.UnitPrice * float64(it.Quantity)
		}
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	top := make([]*productTotal, 0, len(perProduct))
	for _, pt := range perProduct {
		top = append(top, pt)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].total > top[j].total })
	if len(top) > 10 {
		top = top[:10]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s - Sales Report", business.Name))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("%s to %s  |  %d completed orders  |  total %.2f %s",
		from.Format("2006-01-02"), to.Format("2006-01-02"), len(orders), grand, business.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Revenue per day")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, d := range days {
		pdf.Cell(60, 6, d)
		pdf.Cell(0, 6, fmt.Sprintf("%.2f", perDay[d]))
		pdf.Ln(6)
	}
	if len(days) == 0 {
		pdf.Cell(0, 6, "no sales in range")
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Top products")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, pt := range top {
		pdf.Cell(90, 6, pt.name)
		pdf.Cell(30, 6, fmt.Sprintf("x%d", pt.qty))
		pdf.Cell(0, 6, fmt.Sprintf("%.2f", pt.total))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
