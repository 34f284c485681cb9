package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/store"
)

type CouponService interface {
	CreateCoupon(ctx context.Context, attrs models.Attributes) (*models.Coupon, error)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
	RedeemCoupon(ctx context.Context, code string) (*models.Coupon, error)
	DeactivateCoupon(ctx context.Context, code string) (*models.Coupon, error)
}

type couponService struct {
	repo  repository.CouponRepository
	store *store.Store
	now   func() time.Time
}

func NewCouponService(repo repository.CouponRepository, entities *store.Store) CouponService {
	return &couponService{repo: repo, store: entities, now: time.Now}
}

// NewCouponServiceWithClock is NewCouponService with a fixed time source for
// expiry checks.
func NewCouponServiceWithClock(repo repository.CouponRepository, entities *store.Store, now func() time.Time) CouponService {
	return &couponService{repo: repo, store: entities, now: now}
}

// CreateCoupon relies on the store's uniqueness pre-check; a concurrent
// insert of the same code still fails on the unique index.
func (s *couponService) CreateCoupon(ctx context.Context, attrs models.Attributes) (*models.Coupon, error) {

	coupon, err := store.Construct[*models.Coupon](ctx, s.store, models.EntityCoupon, attrs)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, repoError(err, "Failed to create coupon")
	}

	middleware.LoggerFromContext(ctx).Info("Coupon created", slog.String("code", coupon.Code))

	return coupon, nil
}

// GetCoupon matches codes case-insensitively.
func (s *couponService) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {

	coupon, err := s.repo.GetCouponByCode(ctx, store.NormalizeCouponCode(code))
	if err != nil {
		return nil, lookupError(err, "Coupon not found", "Failed to get coupon")
	}

	return coupon, nil
}

// RedeemCoupon returns the coupon only if it can currently be applied.
func (s *couponService) RedeemCoupon(ctx context.Context, code string) (*models.Coupon, error) {

	coupon, err := s.GetCoupon(ctx, code)
	if err != nil {
		return nil, err
	}

	if !coupon.IsActive {
		return nil, appErrors.BadRequestError("Coupon is not active").WithField("code")
	}

	if coupon.Expired(s.now()) {
		return nil, appErrors.BadRequestError("Coupon has expired").WithField("code")
	}

	return coupon, nil
}

func (s *couponService) DeactivateCoupon(ctx context.Context, code string) (*models.Coupon, error) {

	coupon, err := s.GetCoupon(ctx, code)
	if err != nil {
		return nil, err
	}

	if !coupon.IsActive {
		return coupon, nil
	}

	coupon.IsActive = false

	if err := s.repo.SetCouponActive(ctx, coupon); err != nil {
		return nil, writeError(err, "Failed to deactivate coupon")
	}

	return coupon, nil
}
