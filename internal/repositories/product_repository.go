package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int, featuredOnly bool) ([]*models.Product, int, error)
	SetFeatured(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (id, name, description, version)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, category.ID, category.Name, category.Description, category.Version).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	return nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, name, description, version, created_at, updated_at FROM categories ORDER BY name`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}

	for rows.Next() {
		category := &models.Category{}

		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.Version, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if product.Comments == nil {
		product.Comments = []uuid.UUID{}
	}

	query := `
		INSERT INTO products (id, name, description, price, promo_percentage, images, is_featured, category_id, comment_ids, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.Name, product.Description, product.Price, product.PromoPercentage,
		pq.Array(product.Images), product.IsFeatured, product.CategoryID, pq.Array(product.Comments), product.Version,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	return nil
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.promo_percentage, p.images, p.is_featured,
	p.category_id, p.comment_ids, p.version, p.created_at, p.updated_at,
	c.id, c.name, c.description
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}

	var (
		categoryID          uuid.NullUUID
		categoryName        sql.NullString
		categoryDescription sql.NullString
	)

	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.PromoPercentage,
		pq.Array(&product.Images), &product.IsFeatured, &product.CategoryID, pq.Array(&product.Comments),
		&product.Version, &product.CreatedAt, &product.UpdatedAt,
		&categoryID, &categoryName, &categoryDescription,
	)
	if err != nil {
		return nil, err
	}

	if product.Comments == nil {
		product.Comments = []uuid.UUID{}
	}

	// The category may have been deleted; the reference is kept regardless.
	if categoryID.Valid {
		product.Category = &models.Category{
			Document:    models.Document{ID: categoryID.UUID},
			Name:        categoryName.String,
			Description: categoryDescription.String,
		}
	}

	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int, featuredOnly bool) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products WHERE ($1 = FALSE OR is_featured)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, featuredOnly).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE ($1 = FALSE OR p.is_featured)
		ORDER BY p.created_at DESC, p.id
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, featuredOnly, size, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SetFeatured writes is_featured against the revision the caller read.
// sql.ErrNoRows means the product is gone or was changed concurrently.
func (r *productRepository) SetFeatured(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET is_featured = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.IsFeatured, product.ID, product.Version).Scan(&product.Version, &product.UpdatedAt)
}

// DeleteProduct leaves comments and cart lines that reference the product in place.
func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}
