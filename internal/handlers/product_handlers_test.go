package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/models"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/mykafka"
)

func TestCreateAndListProducts(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db, Producer: &mykafka.Producer{}}
	e := echo.New()

	c, rec := jsonRequest(t, e, http.MethodPost, "/admin/products", map[string]any{
		"name":        "Burger",
		"description": "classic",
		"price":       10.0,
		"category_id": 1,
	})
	c.Set("businessID", uint(1))

	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Burger", created.Name)
	require.Equal(t, uint(1), created.BusinessID)
	require.True(t, created.Available)

	// Same name under another tenant does not leak across businessId.
	db.Create(&models.Product{BusinessID: 2, Name: "Burger", Price: 12, Available: true})

	req := httptest.NewRequest(http.MethodGet, "/products?businessId=1", nil)
	recList := httptest.NewRecorder()
	cList := e.NewContext(req, recList)

	require.NoError(t, h.GetProducts(cList))
	require.Equal(t, http.StatusOK, recList.Code)

	var listResp struct {
		Data []models.Product `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	require.Equal(t, created.ID, listResp.Data[0].ID)
}

func TestPatchProduct(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db, Producer: &mykafka.Producer{}}
	e := echo.New()

	prod := models.Product{BusinessID: 1, Name: "Burger", Price: 10, Available: true}
	db.Create(&prod)

	unavailable := false
	c, rec := jsonRequest(t, e, http.MethodPatch, "/admin/products/1", map[string]any{
		"price":     11.5,
		"available": unavailable,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("businessID", uint(1))

	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Product
	require.NoError(t, db.First(&updated, prod.ID).Error)
	require.Equal(t, 11.5, updated.Price)
	require.Equal(t, "Burger", updated.Name)
	require.False(t, updated.Available)
}

func TestDeleteProduct(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db, Producer: &mykafka.Producer{}}
	e := echo.New()

	prod := models.Product{BusinessID: 1, Name: "Burger", Price: 10}
	db.Create(&prod)

	req := httptest.NewRequest(http.MethodDelete, "/admin/products/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("businessID", uint(1))

	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	require.Zero(t, count)
}

func TestGetToppingGroupsByIDs(t *testing.T) {
	db := InitTestDB(t)
	h := &ToppingHandler{DB: db}
	e := echo.New()

	group := models.ToppingGroup{
		BusinessID: 1,
		Name:       "Extras",
		MaxSelect:  3,
		Toppings: []models.Topping{
			{Name: "Cheese", Price: 1.5},
			{Name: "Bacon", Price: 2},
		},
	}
	db.Create(&group)
	db.Create(&models.ToppingGroup{BusinessID: 1, Name: "Sauces"})

	req := httptest.NewRequest(http.MethodGet, "/topping-groups?ids=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetToppingGroups(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []models.ToppingGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	require.Equal(t, "Extras", groups[0].Name)
	require.Len(t, groups[0].Toppings, 2)
}
