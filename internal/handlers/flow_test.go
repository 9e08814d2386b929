package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-backend/internal/handlers"
	"tienda-backend/internal/models"
	"tienda-backend/internal/session"
)

// Covers the full customer journey: submit an order, follow the redirect to the
// one-time confirmation, then open the tracking URL it disclosed.
func TestOrderFlow_SubmitConfirmTrack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStore()
	sessions := session.NewManager("test-session-secret", 30*time.Minute, false)

	orders := handlers.NewOrdersHandler(store, sessions, testBaseURL)
	tracking := handlers.NewTrackingHandler(store)

	router := gin.New()
	router.POST("/solicitar-pedido/", orders.SubmitOrder)
	router.GET("/pedido-exitoso/", orders.Confirmation)
	router.GET("/seguimiento/:token/", tracking.Track)

	// submit
	req, _ := http.NewRequest("POST", "/solicitar-pedido/", strings.NewReader(validOrderBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/pedido-exitoso/", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// confirmation discloses the tracking URL exactly once
	req, _ = http.NewRequest("GET", "/pedido-exitoso/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var conf models.ConfirmationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conf))
	require.True(t, strings.HasPrefix(conf.TrackingURL, testBaseURL+"/seguimiento/"))

	// the disclosed URL resolves to the same order
	path := strings.TrimPrefix(conf.TrackingURL, testBaseURL)
	req, _ = http.NewRequest("GET", path, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var tracked models.TrackingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracked))
	assert.Equal(t, conf.Order.TrackingToken, tracked.Order.TrackingToken)
	assert.Equal(t, "Ana García", tracked.Order.CustomerName)
	assert.Equal(t, models.OrderStatusReceived, tracked.Order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, tracked.Order.PaymentStatus)

	// revisiting the confirmation without the cookie goes home
	req, _ = http.NewRequest("GET", "/pedido-exitoso/", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
