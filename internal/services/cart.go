package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/google/uuid"
)

type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, attrs models.Attributes) (*models.CartLine, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req *models.UpdateQuantityRequest) (*models.CartLine, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartService struct {
	repo  repository.CartLineRepository
	store *store.Store
}

func NewCartService(repo repository.CartLineRepository, entities *store.Store) CartService {
	return &cartService{repo: repo, store: entities}
}

// AddItem keeps one line per (user, product): adding a product already in the
// cart raises that line's quantity instead of creating another.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, attrs models.Attributes) (*models.CartLine, error) {

	logger := middleware.LoggerFromContext(ctx)

	attrs = withAttrs(attrs, models.Attributes{"user_id": userID.String()})

	line, err := store.Construct[*models.CartLine](ctx, s.store, models.EntityCartLine, attrs)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLine(ctx, userID, line.ProductID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, repoError(err, "Failed to read cart")
	}

	if existing == nil {
		if err := s.repo.CreateLine(ctx, line); err != nil {
			return nil, repoError(err, "Failed to add item to cart")
		}

		logger.Info("Cart line created", slog.String("productId", line.ProductID.String()), slog.Int("quantity", line.Quantity))
		return line, nil
	}

	existing.Quantity += line.Quantity

	if err := s.repo.UpdateLineQuantity(ctx, existing); err != nil {
		return nil, writeError(err, "Failed to update cart")
	}

	logger.Info("Cart line merged", slog.String("productId", existing.ProductID.String()), slog.Int("quantity", existing.Quantity))
	return existing, nil
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error) {

	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, repoError(err, "Failed to read cart")
	}

	return lines, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req *models.UpdateQuantityRequest) (*models.CartLine, error) {

	if req.Quantity < 1 {
		return nil, appErrors.ConstraintError("quantity", "min")
	}

	line, err := s.repo.GetLine(ctx, userID, productID)
	if err != nil {
		return nil, lookupError(err, "Item not found in the cart", "Failed to read cart")
	}

	line.Quantity = req.Quantity

	if err := s.repo.UpdateLineQuantity(ctx, line); err != nil {
		return nil, writeError(err, "Failed to update cart")
	}

	return line, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {

	if err := s.repo.DeleteLines(ctx, userID, productID); err != nil {
		return lookupError(err, "Item not found in the cart", "Failed to remove item from cart")
	}

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {

	cleared, err := s.repo.ClearLines(ctx, userID)
	if err != nil {
		return 0, repoError(err, "Failed to clear cart")
	}

	return cleared, nil
}
