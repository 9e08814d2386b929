package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/database"
	"tienda-backend/internal/models"
)

const (
	featuredLimit   = 6
	defaultPageSize = 12
)

type CatalogHandler struct {
	store database.Store
}

func NewCatalogHandler(store database.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

type catalogQuery struct {
	Category *uint64 `form:"categoria" binding:"omitempty,gte=1"`
	Page     int     `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize int     `form:"page_size,default=12" binding:"omitempty,gte=1,lte=100"`
}

// Home godoc
// @Summary     Home page listing
// @Description Returns up to six featured active products and all categories
// @Tags        catalog
// @Produce     json
// @Success     200 {object} models.HomeResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      / [get]
func (h *CatalogHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	products, _, err := h.store.ListProducts(ctx, database.ProductFilter{
		ActiveOnly: true,
		Limit:      featuredLimit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list products",
			Message: err.Error(),
		})
		return
	}

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list categories",
			Message: err.Error(),
		})
		return
	}

	resp := models.HomeResponse{
		Featured:   make([]models.ProductResponse, 0, len(products)),
		Categories: make([]models.CategoryResponse, 0, len(categories)),
	}
	for i := range products {
		resp.Featured = append(resp.Featured, products[i].ToResponse())
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, categories[i].ToResponse())
	}

	c.JSON(http.StatusOK, resp)
}

// ListCatalog godoc
// @Summary     Paginated product catalog
// @Description Lists active products, optionally scoped to one category
// @Tags        catalog
// @Produce     json
// @Param       categoria query int false "Category id filter"
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(12)
// @Success     200 {object} models.CatalogResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /catalogo/ [get]
func (h *CatalogHandler) ListCatalog(c *gin.Context) {
	var q catalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid query parameters",
			Message: err.Error(),
		})
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	ctx := c.Request.Context()

	products, total, err := h.store.ListProducts(ctx, database.ProductFilter{
		CategoryID: q.Category,
		ActiveOnly: true,
		Limit:      q.PageSize,
		Offset:     (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list products",
			Message: err.Error(),
		})
		return
	}

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list categories",
			Message: err.Error(),
		})
		return
	}

	resp := models.CatalogResponse{
		Products:   make([]models.ProductResponse, 0, len(products)),
		Categories: make([]models.CategoryResponse, 0, len(categories)),
		Category:   q.Category,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
	}
	for i := range products {
		resp.Products = append(resp.Products, products[i].ToResponse())
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, categories[i].ToResponse())
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct godoc
// @Summary     Product detail
// @Description Returns one active product; inactive and unknown products 404
// @Tags        catalog
// @Produce     json
// @Param       id path int true "Product id"
// @Success     200 {object} models.ProductResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /producto/{id}/ [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "product not found"})
		return
	}

	product, err := h.store.GetProduct(c.Request.Context(), id, true)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get product",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product.ToResponse())
}
