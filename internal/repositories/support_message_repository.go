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

type SupportMessageRepository interface {
	CreateMessage(ctx context.Context, message *models.SupportMessage) error
	GetMessageByID(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error)
	ListMessages(ctx context.Context, page, size int, unreadOnly bool) ([]*models.SupportMessage, int, error)
	MarkRead(ctx context.Context, message *models.SupportMessage) error
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type supportMessageRepository struct {
	DB *sql.DB
}

func NewSupportMessageRepo(db *sql.DB) SupportMessageRepository {
	return &supportMessageRepository{DB: db}
}

func (r *supportMessageRepository) CreateMessage(ctx context.Context, message *models.SupportMessage) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO support_messages (id, subject, body, user_id, guest_name, guest_email, is_read, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, message.ID, message.Subject, message.Body, message.UserID, message.GuestName, message.GuestEmail, message.IsRead, message.Version).Scan(&message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	return nil
}

const supportMessageColumns = `id, subject, body, user_id, guest_name, guest_email, is_read, version, created_at, updated_at`

func scanSupportMessage(row rowScanner) (*models.SupportMessage, error) {
	message := &models.SupportMessage{}

	var userID uuid.NullUUID

	err := row.Scan(&message.ID, &message.Subject, &message.Body, &userID, &message.GuestName, &message.GuestEmail, &message.IsRead, &message.Version, &message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		message.UserID = &userID.UUID
	}

	return message, nil
}

func (r *supportMessageRepository) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + supportMessageColumns + ` FROM support_messages WHERE id = $1`

	message, err := scanSupportMessage(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return message, nil
}

func (r *supportMessageRepository) ListMessages(ctx context.Context, page, size int, unreadOnly bool) ([]*models.SupportMessage, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM support_messages WHERE ($1 = FALSE OR NOT is_read)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, unreadOnly).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `SELECT ` + supportMessageColumns + `
		FROM support_messages
		WHERE ($1 = FALSE OR NOT is_read)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, unreadOnly, size, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []*models.SupportMessage{}

	for rows.Next() {
		message, err := scanSupportMessage(rows)
		if err != nil {
			return nil, 0, err
		}

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *supportMessageRepository) MarkRead(ctx context.Context, message *models.SupportMessage) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE support_messages
		SET is_read = TRUE, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING is_read, version, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, message.ID, message.Version).Scan(&message.IsRead, &message.Version, &message.UpdatedAt)
}

func (r *supportMessageRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM support_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete support message: %w", err)
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
