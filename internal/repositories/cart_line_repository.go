package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type CartLineRepository interface {
	CreateLine(ctx context.Context, line *models.CartLine) error
	GetLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error)
	ListLines(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error)
	UpdateLineQuantity(ctx context.Context, line *models.CartLine) error
	DeleteLines(ctx context.Context, userID, productID uuid.UUID) error
	ClearLines(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartLineRepository struct {
	DB *sql.DB
}

func NewCartLineRepo(db *sql.DB) CartLineRepository {
	return &cartLineRepository{DB: db}
}

func (r *cartLineRepository) CreateLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_lines (id, user_id, product_id, quantity, version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, line.ID, line.UserID, line.ProductID, line.Quantity, line.Version).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	return nil
}

// GetLine returns the oldest line for the (user, product) pair.
func (r *cartLineRepository) GetLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, product_id, quantity, version, created_at, updated_at
		FROM cart_lines
		WHERE user_id = $1 AND product_id = $2
		ORDER BY created_at
		LIMIT 1
	`

	line := &models.CartLine{}

	err := r.DB.QueryRowContext(dbCtx, query, userID, productID).Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.Version, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return line, nil
}

func (r *cartLineRepository) ListLines(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, product_id, quantity, version, created_at, updated_at
		FROM cart_lines
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	lines := []*models.CartLine{}

	for rows.Next() {
		line := &models.CartLine{}

		if err := rows.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.Version, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// UpdateLineQuantity only succeeds against the revision the caller read;
// otherwise sql.ErrNoRows is returned.
func (r *cartLineRepository) UpdateLineQuantity(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_lines
		SET quantity = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, line.Quantity, line.ID, line.Version).Scan(&line.Version, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return translateError(err)
	}

	return nil
}

func (r *cartLineRepository) DeleteLines(ctx context.Context, userID, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart lines: %w", err)
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

func (r *cartLineRepository) ClearLines(ctx context.Context, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart lines: %w", err)
	}

	return result.RowsAffected()
}
