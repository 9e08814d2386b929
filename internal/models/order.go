package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks fulfillment progress. Transitions are staff-only.
type OrderStatus string

const (
	OrderStatusReceived     OrderStatus = "received"
	OrderStatusInReview     OrderStatus = "in_review"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// PaymentStatus is independent of fulfillment progress.
type PaymentStatus string

const (
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusPartiallyApproved PaymentStatus = "partially_approved"
	PaymentStatusApproved          PaymentStatus = "approved"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusInReview, OrderStatusInProduction,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartiallyApproved, PaymentStatusApproved:
		return true
	}
	return false
}

// SocialPlatforms are the accepted values for the originating platform field.
var SocialPlatforms = []string{"instagram", "facebook", "tiktok", "whatsapp", "other"}

type Order struct {
	ID uint64

	// TrackingToken is the only identifier exposed to customers. It is
	// assigned once at insert and never regenerated.
	TrackingToken uuid.UUID

	CustomerName   string
	Email          string
	Phone          string
	SocialPlatform string

	ProductID         sql.NullInt64
	DesignDescription string
	RequiredBy        sql.NullTime

	Status        OrderStatus
	PaymentStatus PaymentStatus

	// Staff-only fields, never rendered on customer-facing pages.
	ApprovedBudget sql.NullFloat64
	InternalNotes  sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReferenceImage struct {
	ID          uint64
	OrderID     uint64
	Filename    string
	StoragePath string
	StorageURL  string
	FileSize    sql.NullInt64
	MimeType    string
	Caption     sql.NullString
	UploadedAt  time.Time
}

// NewTrackingToken returns a fresh high-entropy tracking token. Uniqueness is
// enforced by the store's unique index, not here.
func NewTrackingToken() uuid.UUID {
	return uuid.New()
}
