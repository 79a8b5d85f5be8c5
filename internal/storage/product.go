package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductStorage describes the catalog table. Read-mostly; rows are appended by
// the admin and never mutated or deleted.
type ProductStorage interface {
	// ListProducts returns all products, optionally filtered by category
	// (empty string means no filter). Order unspecified.
	ListProducts(ctx context.Context, category string) ([]*models.Product, error)
	// GetProductByID returns a single product row.
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// CreateProduct appends a new product row and returns the assigned id.
	CreateProduct(ctx context.Context, p *models.Product) (int64, error)
	// CountProducts returns the number of catalog rows.
	CountProducts(ctx context.Context) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository returns the concrete repository; it satisfies both
// ProductStorage and Seeder.
func NewProductRepository(db *sql.DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	query := "SELECT id, name, category, price, image FROM products"
	args := []any{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	row := r.db.QueryRowContext(ctx, "SELECT id, name, category, price, image FROM products WHERE id = $1", id)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (name, category, price, image) VALUES ($1, $2, $3, $4) RETURNING id",
		p.Name, p.Category, p.Price, p.Image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	row := r.db.QueryRowContext(ctx, "SELECT count(*) FROM products")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
