package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName holds the signed one-time confirmation state between the order
// submission response and the confirmation request.
const CookieName = "pedido_confirmacion"

// Confirmation is the ephemeral (order id, tracking token) pair stashed after
// a successful order creation and disclosed at most once.
type Confirmation struct {
	OrderID       uint64
	TrackingToken uuid.UUID
}

type confirmationClaims struct {
	OrderID       uint64 `json:"order_id"`
	TrackingToken string `json:"tracking_token"`
	jwt.RegisteredClaims
}

// Manager signs and verifies the confirmation cookie. The state lives entirely
// client-side under an HS256 signature; nothing durable records whether the
// token was shown, so a client that keeps a copy of the cookie can replay it
// until the TTL expires. The TTL is the replay bound.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Issue sets the confirmation cookie on the response. HttpOnly keeps it out of
// page scripts; the short TTL bounds replay of a never-visited confirmation.
func (m *Manager) Issue(c *gin.Context, conf Confirmation) error {
	now := time.Now()
	claims := confirmationClaims{
		OrderID:       conf.OrderID,
		TrackingToken: conf.TrackingToken.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	c.SetCookie(CookieName, signed, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}

// Read returns the confirmation state, or false when the cookie is absent,
// expired, tampered with, or malformed. All failure modes look the same to the
// caller; the confirmation page redirects home for any of them.
func (m *Manager) Read(c *gin.Context) (*Confirmation, bool) {
	value, err := c.Cookie(CookieName)
	if err != nil || value == "" {
		return nil, false
	}

	claims := &confirmationClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, false
	}

	trackingToken, err := uuid.Parse(claims.TrackingToken)
	if err != nil || claims.OrderID == 0 {
		return nil, false
	}

	return &Confirmation{
		OrderID:       claims.OrderID,
		TrackingToken: trackingToken,
	}, true
}

// Clear expires the cookie. Called unconditionally after the first successful
// confirmation read so the tracking token is never shown twice.
func (m *Manager) Clear(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}
