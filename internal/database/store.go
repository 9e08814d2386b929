package database

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tienda-backend/internal/models"
)

// ErrNotFound is returned when a row does not exist. Handlers map it to 404 or
// a safe redirect; it is never surfaced as a crash.
var ErrNotFound = errors.New("not found")

// ProductFilter scopes catalog listings.
type ProductFilter struct {
	CategoryID *uint64
	ActiveOnly bool
	Limit      int
	Offset     int
}

// OrderFilter scopes the staff order listing.
type OrderFilter struct {
	Status         string
	PaymentStatus  string
	SocialPlatform string
	Limit          int
	Offset         int
}

// StatusUpdate carries staff status transitions; empty strings leave the
// corresponding field unchanged.
type StatusUpdate struct {
	Status        string
	PaymentStatus string
}

// DetailsUpdate carries staff-only fields; nil pointers leave fields unchanged.
type DetailsUpdate struct {
	ApprovedBudget *float64
	InternalNotes  *string
}

// Store is the persistence surface used by handlers. Keeping it as an
// interface lets handler tests run against an in-memory fake.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error)

	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id uint64, activeOnly bool) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint64, upd models.UpdateProductRequest) (*models.Product, error)

	ListSupplies(ctx context.Context) ([]models.Supply, error)
	CreateSupply(ctx context.Context, s *models.Supply) (*models.Supply, error)
	UpdateSupplyQuantity(ctx context.Context, id uint64, quantity float64) (*models.Supply, error)

	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id uint64) (*models.Order, error)
	GetOrderByToken(ctx context.Context, token uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id uint64, upd StatusUpdate) (*models.Order, error)
	UpdateOrderDetails(ctx context.Context, id uint64, upd DetailsUpdate) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint64) error

	CreateReferenceImage(ctx context.Context, img *models.ReferenceImage) (*models.ReferenceImage, error)
	GetReferenceImages(ctx context.Context, orderID uint64) ([]models.ReferenceImage, error)
	GetReferenceImage(ctx context.Context, id uint64) (*models.ReferenceImage, error)
	DeleteReferenceImage(ctx context.Context, id uint64) error
}
