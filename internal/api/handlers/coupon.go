package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CouponHandler struct {
	couponService service.CouponService
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func couponCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := r.PathValue("code")
	if code == "" {
		response.Error(w, errors.BadRequestError("Missing coupon code").WithField("code"))
		return "", false
	}

	return code, true
}

// CreateCoupon godoc
//	@Summary		Create a coupon
//	@Description	Codes are stored upper-cased and must be unique.
//	@Tags			Coupons
//	@Accept			json
//	@Produce		json
//	@Param			coupon	body		object					true	"Coupon attributes (code, discount, expires_at, is_active)"
//	@Success		201		{object}	models.Coupon			"Created coupon"
//	@Failure		400		{object}	response.ErrorResponse	"Constraint violation"
//	@Failure		409		{object}	response.ErrorResponse	"Code already in use"
//	@Security		BearerAuth
//	@Router			/coupons [post]
func (h *CouponHandler) CreateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		attrs, ok := utils.ParseAttributes(r, w, logger)
		if !ok {
			return
		}

		coupon, err := h.couponService.CreateCoupon(r.Context(), attrs)
		if err != nil {
			logger.Error("Failed to create coupon", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, store.Serialize(coupon))
	}
}

// GetCoupon godoc
//	@Summary	Look up a coupon
//	@Tags		Coupons
//	@Produce	json
//	@Param		code	path		string					true	"Coupon code (case-insensitive)"
//	@Success	200		{object}	models.Coupon			"Coupon"
//	@Failure	404		{object}	response.ErrorResponse	"Coupon not found"
//	@Security	BearerAuth
//	@Router		/coupons/{code} [get]
func (h *CouponHandler) GetCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		code, ok := couponCode(w, r)
		if !ok {
			return
		}

		coupon, err := h.couponService.GetCoupon(r.Context(), code)
		if err != nil {
			logger.Warn("Failed to get coupon", slog.String("code", code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.Serialize(coupon))
	}
}

// RedeemCoupon godoc
//	@Summary		Check that a coupon can be applied
//	@Description	Returns the coupon when it is active and not expired.
//	@Tags			Coupons
//	@Produce		json
//	@Param			code	path		string					true	"Coupon code (case-insensitive)"
//	@Success		200		{object}	models.Coupon			"Applicable coupon"
//	@Failure		400		{object}	response.ErrorResponse	"Coupon inactive or expired"
//	@Failure		404		{object}	response.ErrorResponse	"Coupon not found"
//	@Security		BearerAuth
//	@Router			/coupons/{code}/redeem [post]
func (h *CouponHandler) RedeemCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		code, ok := couponCode(w, r)
		if !ok {
			return
		}

		coupon, err := h.couponService.RedeemCoupon(r.Context(), code)
		if err != nil {
			logger.Warn("Coupon redemption rejected", slog.String("code", code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.Serialize(coupon))
	}
}

// DeactivateCoupon godoc
//	@Summary	Deactivate a coupon
//	@Tags		Coupons
//	@Produce	json
//	@Param		code	path		string					true	"Coupon code (case-insensitive)"
//	@Success	200		{object}	models.Coupon			"Deactivated coupon"
//	@Failure	404		{object}	response.ErrorResponse	"Coupon not found"
//	@Failure	409		{object}	response.ErrorResponse	"Concurrent update"
//	@Security	BearerAuth
//	@Router		/coupons/{code}/deactivate [post]
func (h *CouponHandler) DeactivateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		code, ok := couponCode(w, r)
		if !ok {
			return
		}

		coupon, err := h.couponService.DeactivateCoupon(r.Context(), code)
		if err != nil {
			logger.Error("Failed to deactivate coupon", slog.String("code", code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Coupon deactivated", slog.String("code", coupon.Code))
		response.Success(w, http.StatusOK, store.Serialize(coupon))
	}
}
