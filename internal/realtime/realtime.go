package realtime

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"tienda-backend/internal/models"
)

// Client publishes order lifecycle events so a tracking page subscribed to its
// order channel can refresh without polling.
type Client struct {
	client *supabase.Client
}

func NewClient(supabaseURL, publishableKey string) (*Client, error) {
	client, err := supabase.NewClient(supabaseURL, publishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{client: client}, nil
}

func (r *Client) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Supabase Go client has no direct Realtime publish; row updates on the
	// orders table trigger Realtime change events automatically. This remains
	// the hook for explicit event publishing via the Realtime REST API.
	return nil
}

// PublishOrderEvent addresses the channel by tracking token, never by internal
// id, so subscribing requires the same capability as viewing the page.
func (r *Client) PublishOrderEvent(token uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("order:%s", token.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads

func StatusChangedPayload(token uuid.UUID, status models.OrderStatus, payment models.PaymentStatus) map[string]interface{} {
	return map[string]interface{}{
		"tracking_token": token.String(),
		"status":         string(status),
		"payment_status": string(payment),
	}
}

func ImagesUpdatedPayload(token uuid.UUID, imageCount int) map[string]interface{} {
	return map[string]interface{}{
		"tracking_token": token.String(),
		"image_count":    imageCount,
	}
}
