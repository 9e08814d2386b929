package models

// CreateOrderRequest is the customer submission form. Status fields are
// deliberately absent: fulfillment and payment state are never client-settable.
// Field validation is delegated to gin's binding layer.
type CreateOrderRequest struct {
	CustomerName   string `json:"customer_name" binding:"required,max=120"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,max=32"`
	SocialPlatform string `json:"social_platform" binding:"required,oneof=instagram facebook tiktok whatsapp other"`

	// ProductID references a catalog product; a fully custom order omits it.
	ProductID         *uint64 `json:"product_id,omitempty"`
	DesignDescription string  `json:"design_description" binding:"required"`
	RequiredBy        string  `json:"required_by,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateOrderStatusRequest carries either or both staff status transitions.
type UpdateOrderStatusRequest struct {
	Status        string `json:"status,omitempty" binding:"omitempty,oneof=received in_review in_production completed cancelled"`
	PaymentStatus string `json:"payment_status,omitempty" binding:"omitempty,oneof=unpaid partially_approved approved"`
}

type UpdateOrderDetailsRequest struct {
	ApprovedBudget *float64 `json:"approved_budget,omitempty" binding:"omitempty,gte=0"`
	InternalNotes  *string  `json:"internal_notes,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description,omitempty"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price" binding:"gte=0"`
	CategoryID  *uint64 `json:"category_id,omitempty"`
	ImageURL    string  `json:"image_url,omitempty" binding:"omitempty,url"`
	Active      *bool   `json:"active,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=200"`
	Description *string  `json:"description,omitempty"`
	BasePrice   *float64 `json:"base_price,omitempty" binding:"omitempty,gte=0"`
	CategoryID  *uint64  `json:"category_id,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty" binding:"omitempty,url"`
	Active      *bool    `json:"active,omitempty"`
}

type CreateSupplyRequest struct {
	Name              string  `json:"name" binding:"required,max=120"`
	Kind              string  `json:"kind" binding:"required,max=64"`
	QuantityAvailable float64 `json:"quantity_available" binding:"gte=0"`
	Unit              string  `json:"unit" binding:"required,max=32"`
}

type UpdateSupplyRequest struct {
	QuantityAvailable *float64 `json:"quantity_available" binding:"required,gte=0"`
}
