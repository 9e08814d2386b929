package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"tienda-backend/internal/config"
	"tienda-backend/internal/middleware"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func staffRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.StaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestStaffAuth_NoToken(t *testing.T) {
	router := staffRouter(&config.Config{AdminJWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuth_InvalidToken(t *testing.T) {
	router := staffRouter(&config.Config{AdminJWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuth_MalformedHeader(t *testing.T) {
	router := staffRouter(&config.Config{AdminJWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuth_ExpiredToken(t *testing.T) {
	cfg := &config.Config{AdminJWTSecret: testSecret}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "staff-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, _ := token.SignedString([]byte(cfg.AdminJWTSecret))

	router := staffRouter(cfg)
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestStaffAuth_ValidToken(t *testing.T) {
	cfg := &config.Config{AdminJWTSecret: testSecret}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "staff-1",
	})
	tokenString, _ := token.SignedString([]byte(cfg.AdminJWTSecret))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.StaffAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		staffID, exists := c.Get(middleware.StaffIDKey)
		assert.True(t, exists)
		assert.Equal(t, "staff-1", staffID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
