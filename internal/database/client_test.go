package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-backend/internal/models"
)

func TestIsUniqueViolation(t *testing.T) {
	tokenErr := &pq.Error{Code: "23505", Constraint: "orders_tracking_token_key"}

	assert.True(t, isUniqueViolation(tokenErr, "orders_tracking_token_key"))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", tokenErr), "orders_tracking_token_key"))

	// other unique constraints are not retried as token collisions
	otherErr := &pq.Error{Code: "23505", Constraint: "categories_name_key"}
	assert.False(t, isUniqueViolation(otherErr, "orders_tracking_token_key"))

	// other error classes
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, "orders_tracking_token_key"))
	assert.False(t, isUniqueViolation(errors.New("connection reset"), "orders_tracking_token_key"))
	assert.False(t, isUniqueViolation(nil, "orders_tracking_token_key"))
}

// stubInserter fails the first n inserts with a tracking-token unique
// violation, then succeeds, recording the token of every attempt.
type stubInserter struct {
	collisions int
	failWith   error

	calls  int
	tokens []uuid.UUID
}

func (s *stubInserter) insertOrder(ctx context.Context, o *models.Order) error {
	s.calls++
	s.tokens = append(s.tokens, o.TrackingToken)
	if s.failWith != nil {
		return s.failWith
	}
	if s.calls <= s.collisions {
		return &pq.Error{Code: "23505", Constraint: "orders_tracking_token_key"}
	}
	o.ID = uint64(s.calls)
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	return nil
}

func TestCreateOrder_RetriesOnTokenCollision(t *testing.T) {
	stub := &stubInserter{collisions: 1}
	c := &Client{inserts: stub}

	order, err := c.CreateOrder(context.Background(), &models.Order{
		CustomerName:      "Ana",
		SocialPlatform:    "instagram",
		DesignDescription: "taza",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
	require.Len(t, stub.tokens, 2)
	assert.NotEqual(t, stub.tokens[0], stub.tokens[1], "collision must regenerate the token")
	assert.Equal(t, stub.tokens[1], order.TrackingToken)
	assert.Equal(t, models.OrderStatusReceived, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
}

func TestCreateOrder_TokenCollisionExhaustion(t *testing.T) {
	stub := &stubInserter{collisions: tokenInsertAttempts}
	c := &Client{inserts: stub}

	_, err := c.CreateOrder(context.Background(), &models.Order{CustomerName: "Ana"})
	require.Error(t, err)

	assert.Equal(t, tokenInsertAttempts, stub.calls)
	assert.Contains(t, err.Error(), "unique tracking token")
}

func TestCreateOrder_OtherErrorsAbort(t *testing.T) {
	stub := &stubInserter{failWith: errors.New("connection reset")}
	c := &Client{inserts: stub}

	_, err := c.CreateOrder(context.Background(), &models.Order{CustomerName: "Ana"})
	require.Error(t, err)

	// a non-collision failure is not worth retrying
	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, err.Error(), "failed to create order")
}
