package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tienda-backend/internal/database"
	"tienda-backend/internal/models"
)

type TrackingHandler struct {
	store database.Store
}

func NewTrackingHandler(store database.Store) *TrackingHandler {
	return &TrackingHandler{store: store}
}

// Track godoc
// @Summary     Track an order by token
// @Description Returns the customer-facing order snapshot and its reference images in upload order. Possession of the token is the only access control.
// @Tags        tracking
// @Produce     json
// @Param       token path string true "Tracking token"
// @Success     200 {object} models.TrackingResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /seguimiento/{token}/ [get]
func (h *TrackingHandler) Track(c *gin.Context) {
	// Anything that is not a well-formed token cannot match an order, so it
	// gets the same not-found response as an unknown token.
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return
	}

	ctx := c.Request.Context()

	order, err := h.store.GetOrderByToken(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get order",
			Message: err.Error(),
		})
		return
	}

	images, err := h.store.GetReferenceImages(ctx, order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get reference images",
			Message: err.Error(),
		})
		return
	}

	var product *models.Product
	if order.ProductID.Valid {
		product, _ = h.store.GetProduct(ctx, uint64(order.ProductID.Int64), false)
	}

	resp := models.TrackingResponse{
		Order:  order.Public(product),
		Images: make([]models.ReferenceImageResponse, 0, len(images)),
	}
	for i := range images {
		resp.Images = append(resp.Images, images[i].ToResponse())
	}

	c.JSON(http.StatusOK, resp)
}
