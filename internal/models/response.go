package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type CategoryResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProductResponse struct {
	ID          uint64    `json:"id"`
	CategoryID  *uint64   `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type HomeResponse struct {
	Featured   []ProductResponse  `json:"featured"`
	Categories []CategoryResponse `json:"categories"`
}

type CatalogResponse struct {
	Products   []ProductResponse  `json:"products"`
	Categories []CategoryResponse `json:"categories"`
	Category   *uint64            `json:"category,omitempty"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Total      int64              `json:"total"`
}

// OrderFormResponse pre-fills the submission form. Product is present only when
// the referenced id resolves to an active product.
type OrderFormResponse struct {
	Product   *ProductResponse `json:"product,omitempty"`
	Platforms []string         `json:"platforms"`
}

// OrderPublic is the customer-facing order snapshot. Staff-only fields
// (approved budget, internal notes) and the internal id are never included.
type OrderPublic struct {
	TrackingToken     string           `json:"tracking_token"`
	CustomerName      string           `json:"customer_name"`
	SocialPlatform    string           `json:"social_platform"`
	Product           *ProductResponse `json:"product,omitempty"`
	DesignDescription string           `json:"design_description"`
	RequiredBy        string           `json:"required_by,omitempty"`
	Status            OrderStatus      `json:"status"`
	PaymentStatus     PaymentStatus    `json:"payment_status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type ConfirmationResponse struct {
	Order       OrderPublic `json:"order"`
	TrackingURL string      `json:"tracking_url"`
}

type TrackingResponse struct {
	Order  OrderPublic              `json:"order"`
	Images []ReferenceImageResponse `json:"images"`
}

type ReferenceImageResponse struct {
	ID         uint64    `json:"id"`
	Filename   string    `json:"filename"`
	StorageURL string    `json:"storage_url"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type AdminOrderResponse struct {
	ID                uint64                   `json:"id"`
	TrackingToken     string                   `json:"tracking_token"`
	CustomerName      string                   `json:"customer_name"`
	Email             string                   `json:"email"`
	Phone             string                   `json:"phone"`
	SocialPlatform    string                   `json:"social_platform"`
	ProductID         *uint64                  `json:"product_id,omitempty"`
	DesignDescription string                   `json:"design_description"`
	RequiredBy        string                   `json:"required_by,omitempty"`
	Status            OrderStatus              `json:"status"`
	PaymentStatus     PaymentStatus            `json:"payment_status"`
	ApprovedBudget    *float64                 `json:"approved_budget,omitempty"`
	InternalNotes     string                   `json:"internal_notes,omitempty"`
	Images            []ReferenceImageResponse `json:"images,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

type AdminOrderListResponse struct {
	Orders   []AdminOrderResponse `json:"orders"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Total    int64                `json:"total"`
}

type SupplyResponse struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	Kind              string    `json:"kind"`
	QuantityAvailable float64   `json:"quantity_available"`
	Unit              string    `json:"unit"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type SuppliesResponse struct {
	Supplies []SupplyResponse `json:"supplies"`
}

type UploadImagesResponse struct {
	OrderID uint64                   `json:"order_id"`
	Images  []ReferenceImageResponse `json:"images"`
	Errors  []string                 `json:"errors,omitempty"`
}

const dateLayout = "2006-01-02"

// ToResponse maps a catalog product to its API shape.
func (p *Product) ToResponse() ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
	if p.CategoryID.Valid {
		id := uint64(p.CategoryID.Int64)
		resp.CategoryID = &id
	}
	if p.ImageURL.Valid {
		resp.ImageURL = p.ImageURL.String
	}
	return resp
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (i *ReferenceImage) ToResponse() ReferenceImageResponse {
	resp := ReferenceImageResponse{
		ID:         i.ID,
		Filename:   i.Filename,
		StorageURL: i.StorageURL,
		UploadedAt: i.UploadedAt,
	}
	if i.Caption.Valid {
		resp.Caption = i.Caption.String
	}
	return resp
}

// Public maps an order to its customer-facing snapshot. product may be nil for
// fully custom orders.
func (o *Order) Public(product *Product) OrderPublic {
	pub := OrderPublic{
		TrackingToken:     o.TrackingToken.String(),
		CustomerName:      o.CustomerName,
		SocialPlatform:    o.SocialPlatform,
		DesignDescription: o.DesignDescription,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.RequiredBy.Valid {
		pub.RequiredBy = o.RequiredBy.Time.Format(dateLayout)
	}
	if product != nil {
		pr := product.ToResponse()
		pub.Product = &pr
	}
	return pub
}

// Admin maps an order to the staff view, including staff-only fields.
func (o *Order) Admin(images []ReferenceImage) AdminOrderResponse {
	resp := AdminOrderResponse{
		ID:                o.ID,
		TrackingToken:     o.TrackingToken.String(),
		CustomerName:      o.CustomerName,
		Email:             o.Email,
		Phone:             o.Phone,
		SocialPlatform:    o.SocialPlatform,
		DesignDescription: o.DesignDescription,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.ProductID.Valid {
		id := uint64(o.ProductID.Int64)
		resp.ProductID = &id
	}
	if o.RequiredBy.Valid {
		resp.RequiredBy = o.RequiredBy.Time.Format(dateLayout)
	}
	if o.ApprovedBudget.Valid {
		v := o.ApprovedBudget.Float64
		resp.ApprovedBudget = &v
	}
	if o.InternalNotes.Valid {
		resp.InternalNotes = o.InternalNotes.String
	}
	for _, img := range images {
		resp.Images = append(resp.Images, img.ToResponse())
	}
	return resp
}

func (s *Supply) ToResponse() SupplyResponse {
	return SupplyResponse{
		ID:                s.ID,
		Name:              s.Name,
		Kind:              s.Kind,
		QuantityAvailable: s.QuantityAvailable,
		Unit:              s.Unit,
		UpdatedAt:         s.UpdatedAt,
	}
}
