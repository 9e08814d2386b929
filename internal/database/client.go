package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tienda-backend/internal/models"
)

// tokenInsertAttempts bounds the retry loop on tracking token collisions.
// With 122 bits of entropy per token a collision is already vanishingly rare.
const tokenInsertAttempts = 3

// orderInserter is the single-row insert behind CreateOrder, kept as its own
// seam so the token-collision retry loop can be driven against a stub.
type orderInserter interface {
	insertOrder(ctx context.Context, o *models.Order) error
}

type Client struct {
	db      *sql.DB
	inserts orderInserter
}

var _ Store = (*Client)(nil)

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c := &Client{db: db}
	c.inserts = c
	return c, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, description, created_at
		FROM categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

func (c *Client) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, cat.Name, cat.Description).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return cat, nil
}

// Products

func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.ActiveOnly {
		where = append(where, "active = TRUE")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products "+clause, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, category_id, name, description, base_price, image_url, active, created_at, updated_at
		FROM products %s
		ORDER BY created_at DESC, id DESC
	`, clause)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description,
			&p.BasePrice, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

func (c *Client) GetProduct(ctx context.Context, id uint64, activeOnly bool) (*models.Product, error) {
	query := `
		SELECT id, category_id, name, description, base_price, image_url, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	if activeOnly {
		query += " AND active = TRUE"
	}

	var p models.Product
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description,
		&p.BasePrice, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO products (category_id, name, description, base_price, image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.CategoryID, p.Name, p.Description, p.BasePrice, p.ImageURL, p.Active).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint64, upd models.UpdateProductRequest) (*models.Product, error) {
	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.BasePrice != nil {
		add("base_price", *upd.BasePrice)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Active != nil {
		add("active", *upd.Active)
	}
	if len(set) == 0 {
		return c.GetProduct(ctx, id, false)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE products
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING id, category_id, name, description, base_price, image_url, active, created_at, updated_at
	`, strings.Join(set, ", "), len(args))

	var p models.Product
	err := c.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description,
		&p.BasePrice, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &p, nil
}

// Supplies

func (c *Client) ListSupplies(ctx context.Context) ([]models.Supply, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, kind, quantity_available, unit, updated_at
		FROM supplies
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplies: %w", err)
	}
	defer rows.Close()

	var supplies []models.Supply
	for rows.Next() {
		var s models.Supply
		if err := rows.Scan(&s.ID, &s.Name, &s.Kind, &s.QuantityAvailable, &s.Unit, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supply: %w", err)
		}
		supplies = append(supplies, s)
	}

	return supplies, rows.Err()
}

func (c *Client) CreateSupply(ctx context.Context, s *models.Supply) (*models.Supply, error) {
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO supplies (name, kind, quantity_available, unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at
	`, s.Name, s.Kind, s.QuantityAvailable, s.Unit).Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create supply: %w", err)
	}

	return s, nil
}

func (c *Client) UpdateSupplyQuantity(ctx context.Context, id uint64, quantity float64) (*models.Supply, error) {
	var s models.Supply
	err := c.db.QueryRowContext(ctx, `
		UPDATE supplies
		SET quantity_available = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, kind, quantity_available, unit, updated_at
	`, quantity, id).Scan(&s.ID, &s.Name, &s.Kind, &s.QuantityAvailable, &s.Unit, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update supply: %w", err)
	}

	return &s, nil
}

// Orders

// CreateOrder inserts a new order with a freshly generated tracking token and
// the server-side defaults for both status enums. On the off chance the token
// collides with an existing one, a new token is generated and the insert
// retried; the unique index is the source of truth for uniqueness.
func (c *Client) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	o.Status = models.OrderStatusReceived
	o.PaymentStatus = models.PaymentStatusUnpaid

	var lastErr error
	for attempt := 0; attempt < tokenInsertAttempts; attempt++ {
		o.TrackingToken = models.NewTrackingToken()

		err := c.inserts.insertOrder(ctx, o)
		if err == nil {
			return o, nil
		}
		if isUniqueViolation(err, "orders_tracking_token_key") {
			lastErr = err
			continue
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return nil, fmt.Errorf("failed to allocate a unique tracking token after %d attempts: %w",
		tokenInsertAttempts, lastErr)
}

func (c *Client) insertOrder(ctx context.Context, o *models.Order) error {
	return c.db.QueryRowContext(ctx, `
		INSERT INTO orders (tracking_token, customer_name, email, phone, social_platform,
			product_id, design_description, required_by, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, o.TrackingToken, o.CustomerName, o.Email, o.Phone, o.SocialPlatform,
		o.ProductID, o.DesignDescription, o.RequiredBy, o.Status, o.PaymentStatus,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

const orderColumns = `id, tracking_token, customer_name, email, phone, social_platform,
	product_id, design_description, required_by, status, payment_status,
	approved_budget, internal_notes, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.TrackingToken, &o.CustomerName, &o.Email, &o.Phone, &o.SocialPlatform,
		&o.ProductID, &o.DesignDescription, &o.RequiredBy, &o.Status, &o.PaymentStatus,
		&o.ApprovedBudget, &o.InternalNotes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	o, err := scanOrder(c.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (c *Client) GetOrderByToken(ctx context.Context, token uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(c.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE tracking_token = $1", token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by token: %w", err)
	}
	return o, nil
}

func (c *Client) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("status", filter.Status)
	add("payment_status", filter.PaymentStatus)
	add("social_platform", filter.SocialPlatform)
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders "+clause, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := "SELECT " + orderColumns + " FROM orders " + clause +
		" ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, total, rows.Err()
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uint64, upd StatusUpdate) (*models.Order, error) {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if upd.Status != "" {
		args = append(args, upd.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if upd.PaymentStatus != "" {
		args = append(args, upd.PaymentStatus)
		set = append(set, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if len(set) == 0 {
		return c.GetOrder(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE orders SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), orderColumns)

	o, err := scanOrder(c.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return o, nil
}

func (c *Client) UpdateOrderDetails(ctx context.Context, id uint64, upd DetailsUpdate) (*models.Order, error) {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if upd.ApprovedBudget != nil {
		args = append(args, *upd.ApprovedBudget)
		set = append(set, fmt.Sprintf("approved_budget = $%d", len(args)))
	}
	if upd.InternalNotes != nil {
		args = append(args, *upd.InternalNotes)
		set = append(set, fmt.Sprintf("internal_notes = $%d", len(args)))
	}
	if len(set) == 0 {
		return c.GetOrder(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE orders SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), orderColumns)

	o, err := scanOrder(c.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order details: %w", err)
	}
	return o, nil
}

// DeleteOrder removes an order; reference image rows go with it via the
// cascade on the foreign key.
func (c *Client) DeleteOrder(ctx context.Context, id uint64) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reference images

func (c *Client) CreateReferenceImage(ctx context.Context, img *models.ReferenceImage) (*models.ReferenceImage, error) {
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO reference_images (order_id, filename, storage_path, storage_url, file_size, mime_type, caption)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uploaded_at
	`, img.OrderID, img.Filename, img.StoragePath, img.StorageURL,
		img.FileSize, img.MimeType, img.Caption,
	).Scan(&img.ID, &img.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference image: %w", err)
	}

	return img, nil
}

func (c *Client) GetReferenceImages(ctx context.Context, orderID uint64) ([]models.ReferenceImage, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, order_id, filename, storage_path, storage_url, file_size, mime_type, caption, uploaded_at
		FROM reference_images
		WHERE order_id = $1
		ORDER BY uploaded_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference images: %w", err)
	}
	defer rows.Close()

	var images []models.ReferenceImage
	for rows.Next() {
		var img models.ReferenceImage
		if err := rows.Scan(&img.ID, &img.OrderID, &img.Filename, &img.StoragePath,
			&img.StorageURL, &img.FileSize, &img.MimeType, &img.Caption, &img.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reference image: %w", err)
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

func (c *Client) GetReferenceImage(ctx context.Context, id uint64) (*models.ReferenceImage, error) {
	var img models.ReferenceImage
	err := c.db.QueryRowContext(ctx, `
		SELECT id, order_id, filename, storage_path, storage_url, file_size, mime_type, caption, uploaded_at
		FROM reference_images
		WHERE id = $1
	`, id).Scan(&img.ID, &img.OrderID, &img.Filename, &img.StoragePath,
		&img.StorageURL, &img.FileSize, &img.MimeType, &img.Caption, &img.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reference image: %w", err)
	}

	return &img, nil
}

func (c *Client) DeleteReferenceImage(ctx context.Context, id uint64) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM reference_images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete reference image: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}
