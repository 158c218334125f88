package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Common errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidTenant = errors.New("invalid tenant")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ProductRepository reads catalog products with their variants.
type ProductRepository struct {
	db DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListByTenant returns every product owned by the given tenant, variants
// included.
func (r *ProductRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrInvalidTenant
	}

	query := `
		SELECT id, tenant_id, name, COALESCE(description, ''), price, stock,
		       COALESCE(category, ''), COALESCE(images, ''), created_at, updated_at
		FROM products
		WHERE tenant_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.Category, &p.ImagesRaw, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// attachVariants loads variants for the given products in one query.
func (r *ProductRepository) attachVariants(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT id, product_id, name, type, price, stock, COALESCE(images, '')
		FROM product_variants
		WHERE product_id = ANY($1)
		ORDER BY product_id, name
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Type, &v.Price, &v.Stock, &v.ImagesRaw); err != nil {
			return fmt.Errorf("scan variant: %w", err)
		}
		if i, ok := index[v.ProductID]; ok {
			products[i].Variants = append(products[i].Variants, v)
		}
	}
	return rows.Err()
}

// FAQRepository reads the shared FAQ entries.
type FAQRepository struct {
	db DB
}

// NewFAQRepository creates a new FAQ repository.
func NewFAQRepository(db DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// ListAll returns every FAQ entry.
func (r *FAQRepository) ListAll(ctx context.Context) ([]FAQ, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, question, answer FROM faqs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []FAQ
	for rows.Next() {
		var f FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// PolicyRepository reads the shared policy documents.
type PolicyRepository struct {
	db DB
}

// NewPolicyRepository creates a new policy repository.
func NewPolicyRepository(db DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// ListAll returns every policy document.
func (r *PolicyRepository) ListAll(ctx context.Context) ([]Policy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, body FROM policies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Title, &p.Body); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// OrderRepository reads customer order history.
type OrderRepository struct {
	db DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListRecentByCustomer returns a customer's most recent orders for the
// given tenant, newest first.
func (r *OrderRepository) ListRecentByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]Order, error) {
	if tenantID == uuid.Nil {
		return nil, ErrInvalidTenant
	}
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT id, tenant_id, customer_id, status, total, product_names, created_at
		FROM orders
		WHERE tenant_id = $1 AND customer_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.TenantID, &o.CustomerID, &o.Status, &o.Total,
			pq.Array(&o.ProductNames), &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
