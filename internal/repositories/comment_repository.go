package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByProduct(ctx context.Context, productID uuid.UUID) ([]*models.Comment, error)
}

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepo(db *sql.DB) CommentRepository {
	return &commentRepository{DB: db}
}

// CreateComment inserts the comment and appends its id to the product's
// comment list in one transaction. A missing product rolls both back and
// returns sql.ErrNoRows.
func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	insertQuery := `
		INSERT INTO comments (id, content, rate, user_id, product_id, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, insertQuery, comment.ID, comment.Content, comment.Rate, comment.UserID, comment.ProductID, comment.Version).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return translateError(err)
	}

	appendQuery := `
		UPDATE products
		SET comment_ids = array_append(comment_ids, $1), version = version + 1
		WHERE id = $2
	`

	result, err := tx.ExecContext(dbCtx, appendQuery, comment.ID, comment.ProductID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to append comment: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment: %w", err)
	}

	return nil
}

func (r *commentRepository) ListCommentsByProduct(ctx context.Context, productID uuid.UUID) ([]*models.Comment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, content, rate, user_id, product_id, version, created_at, updated_at
		FROM comments
		WHERE product_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}

	for rows.Next() {
		comment := &models.Comment{}

		if err := rows.Scan(&comment.ID, &comment.Content, &comment.Rate, &comment.UserID, &comment.ProductID, &comment.Version, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
