package handlers_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-backend/internal/handlers"
	"tienda-backend/internal/models"
)

func catalogRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewCatalogHandler(store)

	router := gin.New()
	router.GET("/", h.Home)
	router.GET("/catalogo/", h.ListCatalog)
	router.GET("/producto/:id/", h.GetProduct)
	return router
}

func seedCatalog(store *fakeStore) {
	store.categories = []models.Category{
		{ID: 100, Name: "Tazas"},
		{ID: 101, Name: "Remeras"},
	}
	for i := 0; i < 8; i++ {
		store.addProduct(models.Product{
			Name:       fmt.Sprintf("Taza %d", i+1),
			BasePrice:  10.5,
			CategoryID: sql.NullInt64{Int64: 100, Valid: true},
			Active:     true,
		})
	}
	store.addProduct(models.Product{
		Name:       "Remera",
		BasePrice:  25,
		CategoryID: sql.NullInt64{Int64: 101, Valid: true},
		Active:     true,
	})
	store.addProduct(models.Product{
		Name:   "Descontinuada",
		Active: false,
	})
}

func TestHome_FeaturedCapAndCategories(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	router := catalogRouter(store)

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Featured, 6)
	assert.Len(t, resp.Categories, 2)
	for _, p := range resp.Featured {
		assert.True(t, p.Active)
	}
}

func TestListCatalog_CategoryFilter(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	router := catalogRouter(store)

	req, _ := http.NewRequest("GET", "/catalogo/?categoria=101", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Remera", resp.Products[0].Name)
	require.NotNil(t, resp.Category)
	assert.Equal(t, uint64(101), *resp.Category)
	assert.Equal(t, int64(1), resp.Total)
	// categories list always accompanies the products for the filter bar
	assert.Len(t, resp.Categories, 2)
}

func TestListCatalog_Pagination(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	router := catalogRouter(store)

	req, _ := http.NewRequest("GET", "/catalogo/?page=2&page_size=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.PageSize)
	assert.Equal(t, int64(9), resp.Total)
	assert.Len(t, resp.Products, 4)
}

func TestListCatalog_InvalidQuery(t *testing.T) {
	store := newFakeStore()
	router := catalogRouter(store)

	req, _ := http.NewRequest("GET", "/catalogo/?page=-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProduct(t *testing.T) {
	store := newFakeStore()
	active := store.addProduct(models.Product{Name: "Taza personalizada", BasePrice: 12, Active: true})
	inactive := store.addProduct(models.Product{Name: "Descontinuada", Active: false})
	router := catalogRouter(store)

	t.Run("active product", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/producto/%d/", active.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Taza personalizada")
	})

	t.Run("inactive product is hidden", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/producto/%d/", inactive.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/producto/9999/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/producto/abc/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
