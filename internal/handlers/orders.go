package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/database"
	"tienda-backend/internal/models"
	"tienda-backend/internal/session"
)

const dateLayout = "2006-01-02"

type OrdersHandler struct {
	store    database.Store
	sessions *session.Manager
	baseURL  string
}

func NewOrdersHandler(store database.Store, sessions *session.Manager, baseURL string) *OrdersHandler {
	return &OrdersHandler{
		store:    store,
		sessions: sessions,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// OrderForm godoc
// @Summary     Order submission form data
// @Description Pre-fills the order form. A producto query parameter that does not resolve is silently ignored.
// @Tags        orders
// @Produce     json
// @Param       producto query int false "Reference product id"
// @Success     200 {object} models.OrderFormResponse
// @Router      /solicitar-pedido/ [get]
func (h *OrdersHandler) OrderForm(c *gin.Context) {
	resp := models.OrderFormResponse{Platforms: models.SocialPlatforms}

	if raw := c.Query("producto"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			if product, err := h.store.GetProduct(c.Request.Context(), id, false); err == nil {
				pr := product.ToResponse()
				resp.Product = &pr
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitOrder godoc
// @Summary     Submit a custom order
// @Description Creates an order with a server-assigned tracking token and default statuses, then redirects to the one-time confirmation page. Status fields are never client-settable.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Order form"
// @Success     303 "Redirect to /pedido-exitoso/"
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /solicitar-pedido/ [post]
func (h *OrdersHandler) SubmitOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid order submission",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	order := &models.Order{
		CustomerName:      req.CustomerName,
		Email:             req.Email,
		Phone:             req.Phone,
		SocialPlatform:    req.SocialPlatform,
		DesignDescription: req.DesignDescription,
	}

	// A missing reference product is fine (fully custom order); a reference
	// that does not resolve is rejected.
	if req.ProductID != nil {
		if _, err := h.store.GetProduct(ctx, *req.ProductID, false); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown reference product"})
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to resolve reference product",
				Message: err.Error(),
			})
			return
		}
		order.ProductID = sql.NullInt64{Int64: int64(*req.ProductID), Valid: true}
	}

	if req.RequiredBy != "" {
		requiredBy, err := time.Parse(dateLayout, req.RequiredBy)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid required_by date"})
			return
		}
		order.RequiredBy = sql.NullTime{Time: requiredBy, Valid: true}
	}

	order, err := h.store.CreateOrder(ctx, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create order",
			Message: err.Error(),
		})
		return
	}

	// Stash (order id, token) in the signed confirmation cookie; the token is
	// deliberately absent from both the response body and the redirect URL.
	if err := h.sessions.Issue(c, session.Confirmation{
		OrderID:       order.ID,
		TrackingToken: order.TrackingToken,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to issue confirmation",
			Message: err.Error(),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/pedido-exitoso/")
}

// Confirmation godoc
// @Summary     One-time order confirmation
// @Description Shows the shareable tracking URL exactly once. Without a valid confirmation cookie (direct navigation, refresh, expiry) the request redirects home.
// @Tags        orders
// @Produce     json
// @Success     200 {object} models.ConfirmationResponse
// @Success     302 "Redirect to /"
// @Router      /pedido-exitoso/ [get]
func (h *OrdersHandler) Confirmation(c *gin.Context) {
	conf, ok := h.sessions.Read(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ctx := c.Request.Context()

	order, err := h.store.GetOrder(ctx, conf.OrderID)
	if err != nil {
		// Order deleted between creation and confirmation, or the lookup
		// failed; either way the safe default is home, with the cookie gone.
		h.sessions.Clear(c)
		c.Redirect(http.StatusFound, "/")
		return
	}

	// One-time disclosure: the cookie dies with this response no matter what.
	h.sessions.Clear(c)

	var product *models.Product
	if order.ProductID.Valid {
		product, _ = h.store.GetProduct(ctx, uint64(order.ProductID.Int64), false)
	}

	c.JSON(http.StatusOK, models.ConfirmationResponse{
		Order:       order.Public(product),
		TrackingURL: h.baseURL + "/seguimiento/" + order.TrackingToken.String() + "/",
	})
}
