package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tienda-backend/internal/config"
	"tienda-backend/internal/database"
	"tienda-backend/internal/models"
	"tienda-backend/internal/realtime"
)

// maxUploadMemory caps in-memory multipart parsing at 32MB.
const maxUploadMemory = 32 << 20

// ImageStore is the slice of the storage client the admin surface needs.
type ImageStore interface {
	UploadReferenceImage(orderID uint64, filename, contentType string, data []byte) (string, string, error)
	DeleteFile(storagePath string) error
	DeleteOrderFiles(orderID uint64) error
}

// EventPublisher pushes order lifecycle events to subscribed tracking pages.
type EventPublisher interface {
	PublishOrderEvent(token uuid.UUID, event string, payload map[string]interface{}) error
}

type AdminHandler struct {
	store  database.Store
	images ImageStore
	events EventPublisher
	site   config.SiteConfig
}

func NewAdminHandler(store database.Store, images ImageStore, events EventPublisher, site config.SiteConfig) *AdminHandler {
	return &AdminHandler{
		store:  store,
		images: images,
		events: events,
		site:   site,
	}
}

type adminOrderQuery struct {
	Status         string `form:"status" binding:"omitempty,oneof=received in_review in_production completed cancelled"`
	PaymentStatus  string `form:"payment_status" binding:"omitempty,oneof=unpaid partially_approved approved"`
	SocialPlatform string `form:"platform" binding:"omitempty,oneof=instagram facebook tiktok whatsapp other"`
	Page           int    `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize       int    `form:"page_size,default=20" binding:"omitempty,gte=1,lte=100"`
}

// ListOrders godoc
// @Summary     List orders
// @Description Paginated staff listing, filterable by fulfillment status, payment status and platform
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       status query string false "Fulfillment status filter"
// @Param       payment_status query string false "Payment status filter"
// @Param       platform query string false "Social platform filter"
// @Success     200 {object} models.AdminOrderListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var q adminOrderQuery
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
		q.PageSize = 20
	}

	orders, total, err := h.store.ListOrders(c.Request.Context(), database.OrderFilter{
		Status:         q.Status,
		PaymentStatus:  q.PaymentStatus,
		SocialPlatform: q.SocialPlatform,
		Limit:          q.PageSize,
		Offset:         (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	resp := models.AdminOrderListResponse{
		Orders:   make([]models.AdminOrderResponse, 0, len(orders)),
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    total,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, orders[i].Admin(nil))
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder godoc
// @Summary     Order detail
// @Description Full staff view including approved budget, internal notes and reference images
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order id"
// @Success     200 {object} models.AdminOrderResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id} [get]
func (h *AdminHandler) GetOrder(c *gin.Context) {
	order, ok := h.orderFromParam(c)
	if !ok {
		return
	}

	images, err := h.store.GetReferenceImages(c.Request.Context(), order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get reference images",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order.Admin(images))
}

// UpdateOrderStatus godoc
// @Summary     Transition order statuses
// @Description Updates fulfillment and/or payment status and refreshes the last-update timestamp
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order id"
// @Param       request body models.UpdateOrderStatusRequest true "Status transitions"
// @Success     200 {object} models.AdminOrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idFromParam(c, "order_id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid status update",
			Message: err.Error(),
		})
		return
	}
	if req.Status == "" && req.PaymentStatus == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no status fields provided"})
		return
	}

	order, err := h.store.UpdateOrderStatus(c.Request.Context(), id, database.StatusUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update order status",
			Message: err.Error(),
		})
		return
	}

	if h.events != nil {
		payload := realtime.StatusChangedPayload(order.TrackingToken, order.Status, order.PaymentStatus)
		if err := h.events.PublishOrderEvent(order.TrackingToken, "status_changed", payload); err != nil {
			log.Printf("Failed to publish status event for order %d: %v", order.ID, err)
		}
	}

	c.JSON(http.StatusOK, order.Admin(nil))
}

// UpdateOrderDetails godoc
// @Summary     Update staff-only order fields
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order id"
// @Param       request body models.UpdateOrderDetailsRequest true "Budget and notes"
// @Success     200 {object} models.AdminOrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id} [patch]
func (h *AdminHandler) UpdateOrderDetails(c *gin.Context) {
	id, ok := idFromParam(c, "order_id")
	if !ok {
		return
	}

	var req models.UpdateOrderDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid details update",
			Message: err.Error(),
		})
		return
	}

	order, err := h.store.UpdateOrderDetails(c.Request.Context(), id, database.DetailsUpdate{
		ApprovedBudget: req.ApprovedBudget,
		InternalNotes:  req.InternalNotes,
	})
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order.Admin(nil))
}

// DeleteOrder godoc
// @Summary     Delete an order
// @Description Removes stored image files best-effort, then deletes the order; reference image rows cascade
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order id"
// @Success     200 {object} map[string]string
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id} [delete]
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	order, ok := h.orderFromParam(c)
	if !ok {
		return
	}

	if h.images != nil {
		if err := h.images.DeleteOrderFiles(order.ID); err != nil {
			// Storage cleanup is best-effort; the rows still go away.
			log.Printf("Failed to delete storage files for order %d: %v", order.ID, err)
		}
	}

	if err := h.store.DeleteOrder(c.Request.Context(), order.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted successfully"})
}

// UploadImages godoc
// @Summary     Attach reference images to an order
// @Description Accepts multipart image files; captions align with files by index
// @Tags        admin
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order id"
// @Param       images formData file true "Image files"
// @Param       captions formData string false "Caption per file, repeated"
// @Success     200 {object} models.UploadImagesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id}/images [post]
func (h *AdminHandler) UploadImages(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	order, ok := h.orderFromParam(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	form := c.Request.MultipartForm
	if form == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to parse multipart form"})
		return
	}

	var files []*multipart.FileHeader
	for _, fieldName := range []string{"images", "image", "files", "file"} {
		if f := form.File[fieldName]; len(f) > 0 {
			files = f
			break
		}
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no files uploaded"})
		return
	}

	captions := c.PostFormArray("captions")

	ctx := c.Request.Context()
	resp := models.UploadImagesResponse{OrderID: order.ID}

	for i, fileHeader := range files {
		data, contentType, err := readUpload(fileHeader)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		storagePath, storageURL, err := h.images.UploadReferenceImage(
			order.ID, fileHeader.Filename, contentType, data)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: upload failed: %v", fileHeader.Filename, err))
			continue
		}

		img := &models.ReferenceImage{
			OrderID:     order.ID,
			Filename:    fileHeader.Filename,
			StoragePath: storagePath,
			StorageURL:  storageURL,
			FileSize:    sql.NullInt64{Int64: int64(len(data)), Valid: true},
			MimeType:    contentType,
		}
		if i < len(captions) && captions[i] != "" {
			img.Caption = sql.NullString{String: captions[i], Valid: true}
		}

		img, err = h.store.CreateReferenceImage(ctx, img)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		resp.Images = append(resp.Images, img.ToResponse())
	}

	if h.events != nil && len(resp.Images) > 0 {
		_ = h.events.PublishOrderEvent(order.TrackingToken, "images_updated",
			realtime.ImagesUpdatedPayload(order.TrackingToken, len(resp.Images)))
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteImage godoc
// @Summary     Delete one reference image
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       image_id path int true "Image id"
// @Success     200 {object} map[string]string
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/images/{image_id} [delete]
func (h *AdminHandler) DeleteImage(c *gin.Context) {
	id, ok := idFromParam(c, "image_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	img, err := h.store.GetReferenceImage(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get image",
			Message: err.Error(),
		})
		return
	}

	if h.images != nil {
		if err := h.images.DeleteFile(img.StoragePath); err != nil {
			log.Printf("Failed to delete storage file %s: %v", img.StoragePath, err)
		}
	}

	if err := h.store.DeleteReferenceImage(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete image",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted successfully"})
}

// Catalog management

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid category",
			Message: err.Error(),
		})
		return
	}

	cat, err := h.store.CreateCategory(c.Request.Context(), &models.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create category",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, cat.ToResponse())
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid product",
			Message: err.Error(),
		})
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Active:      true,
	}
	if req.CategoryID != nil {
		product.CategoryID = sql.NullInt64{Int64: int64(*req.CategoryID), Valid: true}
	}
	if req.ImageURL != "" {
		product.ImageURL = sql.NullString{String: req.ImageURL, Valid: true}
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	product, err := h.store.CreateProduct(c.Request.Context(), product)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create product",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, product.ToResponse())
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := idFromParam(c, "product_id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid product update",
			Message: err.Error(),
		})
		return
	}

	product, err := h.store.UpdateProduct(c.Request.Context(), id, req)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update product",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product.ToResponse())
}

// Inventory

func (h *AdminHandler) ListSupplies(c *gin.Context) {
	supplies, err := h.store.ListSupplies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list supplies",
			Message: err.Error(),
		})
		return
	}

	resp := models.SuppliesResponse{Supplies: make([]models.SupplyResponse, 0, len(supplies))}
	for i := range supplies {
		resp.Supplies = append(resp.Supplies, supplies[i].ToResponse())
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CreateSupply(c *gin.Context) {
	var req models.CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid supply",
			Message: err.Error(),
		})
		return
	}

	supply, err := h.store.CreateSupply(c.Request.Context(), &models.Supply{
		Name:              req.Name,
		Kind:              req.Kind,
		QuantityAvailable: req.QuantityAvailable,
		Unit:              req.Unit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create supply",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, supply.ToResponse())
}

func (h *AdminHandler) UpdateSupply(c *gin.Context) {
	id, ok := idFromParam(c, "supply_id")
	if !ok {
		return
	}

	var req models.UpdateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid supply update",
			Message: err.Error(),
		})
		return
	}

	supply, err := h.store.UpdateSupplyQuantity(c.Request.Context(), id, *req.QuantityAvailable)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "supply not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update supply",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, supply.ToResponse())
}

// Site returns the configured admin branding.
func (h *AdminHandler) Site(c *gin.Context) {
	c.JSON(http.StatusOK, h.site)
}

// Helpers

func idFromParam(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) orderFromParam(c *gin.Context) (*models.Order, bool) {
	id, ok := idFromParam(c, "order_id")
	if !ok {
		return nil, false
	}

	order, err := h.store.GetOrder(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get order",
			Message: err.Error(),
		})
		return nil, false
	}

	return order, true
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !isImageType(contentType) {
		return nil, "", fmt.Errorf("unsupported content type %s", contentType)
	}

	return data, contentType, nil
}

func isImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
