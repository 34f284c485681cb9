package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type CouponRepository interface {
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	CouponCodeExists(ctx context.Context, code string) (bool, error)
	SetCouponActive(ctx context.Context, coupon *models.Coupon) error
}

type couponRepository struct {
	DB *sql.DB
}

func NewCouponRepo(db *sql.DB) CouponRepository {
	return &couponRepository{DB: db}
}

func (r *couponRepository) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO coupons (id, code, discount, expires_at, is_active, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, coupon.ID, coupon.Code, coupon.Discount, coupon.ExpiresAt, coupon.IsActive, coupon.Version).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	return nil
}

// GetCouponByCode expects an already normalized code.
func (r *couponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, code, discount, expires_at, is_active, version, created_at, updated_at
		FROM coupons
		WHERE code = $1
	`

	coupon := &models.Coupon{}

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(&coupon.ID, &coupon.Code, &coupon.Discount, &coupon.ExpiresAt, &coupon.IsActive, &coupon.Version, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return coupon, nil
}

func (r *couponRepository) CouponCodeExists(ctx context.Context, code string) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	if err := r.DB.QueryRowContext(dbCtx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("querying database: %w", err)
	}

	return exists, nil
}

func (r *couponRepository) SetCouponActive(ctx context.Context, coupon *models.Coupon) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE coupons
		SET is_active = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, coupon.IsActive, coupon.ID, coupon.Version).Scan(&coupon.Version, &coupon.UpdatedAt)
}
