package handlers_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tienda-backend/internal/database"
	"tienda-backend/internal/models"
)

// fakeStore is an in-memory Store for handler tests. It mirrors the database
// client's behavior where handlers depend on it: server-assigned tracking
// tokens, forced default statuses and images returned in upload order.
type fakeStore struct {
	categories []models.Category
	products   map[uint64]*models.Product
	supplies   map[uint64]*models.Supply
	orders     map[uint64]*models.Order
	images     []models.ReferenceImage

	nextID uint64

	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uint64]*models.Product),
		supplies: make(map[uint64]*models.Supply),
		orders:   make(map[uint64]*models.Order),
	}
}

func (f *fakeStore) id() uint64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addProduct(p models.Product) *models.Product {
	if p.ID == 0 {
		p.ID = f.id()
	}
	p.CreatedAt = time.Now()
	f.products[p.ID] = &p
	return &p
}

func (f *fakeStore) addOrder(o models.Order) *models.Order {
	created, _ := f.CreateOrder(context.Background(), &o)
	return created
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.categories, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	cat.ID = f.id()
	cat.CreatedAt = time.Now()
	f.categories = append(f.categories, *cat)
	return cat, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, filter database.ProductFilter) ([]models.Product, int64, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}

	var matched []models.Product
	for id := uint64(1); id <= f.nextID; id++ {
		p, ok := f.products[id]
		if !ok {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		if filter.CategoryID != nil {
			if !p.CategoryID.Valid || uint64(p.CategoryID.Int64) != *filter.CategoryID {
				continue
			}
		}
		matched = append(matched, *p)
	}

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id uint64, activeOnly bool) (*models.Product, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.products[id]
	if !ok || (activeOnly && !p.Active) {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.addProduct(*p), nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, id uint64, upd models.UpdateProductRequest) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.BasePrice != nil {
		p.BasePrice = *upd.BasePrice
	}
	if upd.Active != nil {
		p.Active = *upd.Active
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListSupplies(ctx context.Context) ([]models.Supply, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var supplies []models.Supply
	for id := uint64(1); id <= f.nextID; id++ {
		if s, ok := f.supplies[id]; ok {
			supplies = append(supplies, *s)
		}
	}
	return supplies, nil
}

func (f *fakeStore) CreateSupply(ctx context.Context, s *models.Supply) (*models.Supply, error) {
	s.ID = f.id()
	s.UpdatedAt = time.Now()
	cp := *s
	f.supplies[s.ID] = &cp
	return s, nil
}

func (f *fakeStore) UpdateSupplyQuantity(ctx context.Context, id uint64, quantity float64) (*models.Supply, error) {
	s, ok := f.supplies[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	s.QuantityAvailable = quantity
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	o.ID = f.id()
	o.TrackingToken = models.NewTrackingToken()
	o.Status = models.OrderStatusReceived
	o.PaymentStatus = models.PaymentStatusUnpaid
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	f.orders[o.ID] = &cp
	return o, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetOrderByToken(ctx context.Context, token uuid.UUID) (*models.Order, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, o := range f.orders {
		if o.TrackingToken == token {
			cp := *o
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) ListOrders(ctx context.Context, filter database.OrderFilter) ([]models.Order, int64, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}

	var matched []models.Order
	for id := uint64(1); id <= f.nextID; id++ {
		o, ok := f.orders[id]
		if !ok {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && string(o.PaymentStatus) != filter.PaymentStatus {
			continue
		}
		if filter.SocialPlatform != "" && o.SocialPlatform != filter.SocialPlatform {
			continue
		}
		matched = append(matched, *o)
	}

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, id uint64, upd database.StatusUpdate) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Status != "" {
		o.Status = models.OrderStatus(upd.Status)
	}
	if upd.PaymentStatus != "" {
		o.PaymentStatus = models.PaymentStatus(upd.PaymentStatus)
	}
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (f *fakeStore) UpdateOrderDetails(ctx context.Context, id uint64, upd database.DetailsUpdate) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.ApprovedBudget != nil {
		o.ApprovedBudget.Float64 = *upd.ApprovedBudget
		o.ApprovedBudget.Valid = true
	}
	if upd.InternalNotes != nil {
		o.InternalNotes.String = *upd.InternalNotes
		o.InternalNotes.Valid = true
	}
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, id uint64) error {
	if _, ok := f.orders[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.orders, id)

	// reference_images rows cascade with the order
	remaining := f.images[:0]
	for _, img := range f.images {
		if img.OrderID != id {
			remaining = append(remaining, img)
		}
	}
	f.images = remaining
	return nil
}

func (f *fakeStore) CreateReferenceImage(ctx context.Context, img *models.ReferenceImage) (*models.ReferenceImage, error) {
	img.ID = f.id()
	img.UploadedAt = time.Now()
	f.images = append(f.images, *img)
	return img, nil
}

func (f *fakeStore) GetReferenceImages(ctx context.Context, orderID uint64) ([]models.ReferenceImage, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var images []models.ReferenceImage
	for _, img := range f.images {
		if img.OrderID == orderID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (f *fakeStore) GetReferenceImage(ctx context.Context, id uint64) (*models.ReferenceImage, error) {
	for _, img := range f.images {
		if img.ID == id {
			cp := img
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) DeleteReferenceImage(ctx context.Context, id uint64) error {
	for i, img := range f.images {
		if img.ID == id {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

var _ database.Store = (*fakeStore)(nil)
