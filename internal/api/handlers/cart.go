package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: store.NewValidator()}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds a product to the authenticated user's cart. Adding a product that is already in the cart increases its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		object					true	"Cart line attributes (product_id, quantity)"
//	@Success		200		{object}	models.CartLineView		"Cart line after the change"
//	@Failure		400		{object}	response.ErrorResponse	"Constraint violation or malformed body"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409		{object}	response.ErrorResponse	"Concurrent update"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		attrs, ok := utils.ParseAttributes(r, w, logger)
		if !ok {
			return
		}

		line, err := h.cartService.AddItem(r.Context(), claims.UserID, attrs)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.String("productId", line.ProductID.String()), slog.Int("quantity", line.Quantity))
		response.Success(w, http.StatusOK, store.Serialize(line))
	}
}

// GetCart godoc
//	@Summary		Get the cart
//	@Description	Lists the authenticated user's cart lines, oldest first.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{array}		models.CartLineView		"Cart lines"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		lines, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.SerializeAll(lines))
	}
}

// UpdateQuantity godoc
//	@Summary		Set the quantity of a cart line
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			productId	path		string							true	"Product ID (UUID)"	Format(uuid)
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	models.CartLineView				"Updated cart line"
//	@Failure		400			{object}	response.ErrorResponse			"Invalid quantity"
//	@Failure		404			{object}	response.ErrorResponse			"Product not in cart"
//	@Failure		409			{object}	response.ErrorResponse			"Concurrent update"
//	@Security		BearerAuth
//	@Router			/cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator, logger) {
			return
		}

		line, err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, productID, &req)
		if err != nil {
			logger.Error("Failed to update cart quantity", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.Serialize(line))
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			productId	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200			{object}	map[string]string		"Product removed"
//	@Failure		404			{object}	response.ErrorResponse	"Product not in cart"
//	@Security		BearerAuth
//	@Router			/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID); err != nil {
			logger.Error("Failed to remove cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"product_id": productID.String()})
	}
}

// ClearCart godoc
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	map[string]int64		"Number of removed lines"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		removed, err := h.cartService.ClearCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared", slog.Int64("removed", removed))
		response.Success(w, http.StatusOK, map[string]int64{"removed": removed})
	}
}
