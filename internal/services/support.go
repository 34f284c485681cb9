package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

type SupportService interface {
	SubmitMessage(ctx context.Context, userID *uuid.UUID, attrs models.Attributes) (*models.SupportMessage, error)
	ListMessages(ctx context.Context, page, size int, unreadOnly bool) ([]*models.SupportMessage, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type supportService struct {
	repo    repository.SupportMessageRepository
	limiter repository.SubmissionLimiter
	store   *store.Store
}

func NewSupportService(repo repository.SupportMessageRepository, limiter repository.SubmissionLimiter, entities *store.Store) SupportService {
	return &supportService{repo: repo, limiter: limiter, store: entities}
}

// SenderKey identifies who is submitting: the user id when signed in,
// otherwise a hash of the guest email so addresses never reach Redis.
func SenderKey(message *models.SupportMessage) string {
	if message.UserID != nil {
		return "user:" + message.UserID.String()
	}

	email := strings.ToLower(strings.TrimSpace(message.GuestEmail))
	if email == "" {
		return "anonymous"
	}

	sum := blake2b.Sum256([]byte(email))

	return "guest:" + hex.EncodeToString(sum[:16])
}

// SubmitMessage accepts messages from users and guests alike. When the
// limiter itself is unavailable the message is accepted.
func (s *supportService) SubmitMessage(ctx context.Context, userID *uuid.UUID, attrs models.Attributes) (*models.SupportMessage, error) {

	logger := middleware.LoggerFromContext(ctx)

	// The user id only ever comes from the verified token.
	if userID != nil {
		attrs = withAttrs(attrs, models.Attributes{"user_id": userID.String()})
	} else {
		attrs = withoutAttrs(attrs, "user_id")
	}

	message, err := store.Construct[*models.SupportMessage](ctx, s.store, models.EntitySupportMessage, attrs)
	if err != nil {
		return nil, err
	}

	allowed, retryAfter, err := s.limiter.Allow(ctx, SenderKey(message))
	if err != nil {
		logger.Warn("Submission limiter unavailable", slog.String("error", err.Error()))
	} else if !allowed {
		seconds := int(math.Ceil(retryAfter.Seconds()))
		return nil, appErrors.TooManyRequestsError("Too many support messages, please try again later").
			WithDetail(fmt.Sprintf("retry after %d seconds", seconds))
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, repoError(err, "Failed to submit support message")
	}

	logger.Info("Support message submitted", slog.String("messageId", message.ID.String()))

	return message, nil
}

func (s *supportService) ListMessages(ctx context.Context, page, size int, unreadOnly bool) ([]*models.SupportMessage, int, error) {

	messages, total, err := s.repo.ListMessages(ctx, page, size, unreadOnly)
	if err != nil {
		return nil, 0, repoError(err, "Failed to list support messages")
	}

	return messages, total, nil
}

func (s *supportService) MarkRead(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {

	message, err := s.repo.GetMessageByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Support message not found", "Failed to get support message")
	}

	if message.IsRead {
		return message, nil
	}

	if err := s.repo.MarkRead(ctx, message); err != nil {
		return nil, writeError(err, "Failed to update support message")
	}

	return message, nil
}

func (s *supportService) DeleteMessage(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteMessage(ctx, id); err != nil {
		return lookupError(err, "Support message not found", "Failed to delete support message")
	}

	return nil
}
