package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CatalogHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, validator: store.NewValidator()}
}

// CreateCategory godoc
//	@Summary		Create a category
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			category	body		object					true	"Category attributes (name, description)"
//	@Success		201			{object}	models.Category			"Created category"
//	@Failure		400			{object}	response.ErrorResponse	"Constraint violation"
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *CatalogHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		attrs, ok := utils.ParseAttributes(r, w, logger)
		if !ok {
			return
		}

		category, err := h.catalogService.CreateCategory(r.Context(), attrs)
		if err != nil {
			logger.Error("Failed to create category", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.String("categoryId", category.ID.String()))
		response.Success(w, http.StatusCreated, store.Serialize(category))
	}
}

// ListCategories godoc
//	@Summary	List categories
//	@Tags		Catalog
//	@Produce	json
//	@Success	200	{array}		models.Category			"Categories by name"
//	@Failure	500	{object}	response.ErrorResponse	"Internal server error"
//	@Router		/categories [get]
func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.catalogService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.SerializeAll(categories))
	}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			product	body		object					true	"Product attributes"
//	@Success		201		{object}	models.Product			"Created product"
//	@Failure		400		{object}	response.ErrorResponse	"Constraint violation"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *CatalogHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		attrs, ok := utils.ParseAttributes(r, w, logger)
		if !ok {
			return
		}

		product, err := h.catalogService.CreateProduct(r.Context(), attrs)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, store.Serialize(product))
	}
}

// GetProduct godoc
//	@Summary	Get a product by ID
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success	200	{object}	models.Product			"Product with its category"
//	@Failure	400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure	404	{object}	response.ErrorResponse	"Product not found"
//	@Router		/products/{id} [get]
func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.Serialize(product))
	}
}

// ListProducts godoc
//	@Summary	List products with pagination
//	@Tags		Catalog
//	@Produce	json
//	@Param		page		query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param		size		query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Param		featured	query		bool											false	"Only featured products"
//	@Success	200			{object}	models.PaginatedResponse{Data=[]models.Product}	"Products"
//	@Failure	500			{object}	response.ErrorResponse							"Internal server error"
//	@Router		/products [get]
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, size := utils.PageParams(r, defaultPageSize, maxPageSize)
		featuredOnly, _ := strconv.ParseBool(r.URL.Query().Get("featured"))

		products, total, err := h.catalogService.ListProducts(r.Context(), page, size, featuredOnly)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     store.SerializeAll(products),
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

// SetFeatured godoc
//	@Summary	Feature or unfeature a product
//	@Tags		Catalog
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param		featured	body		models.SetFeaturedRequest	true	"Featured flag"
//	@Success	200			{object}	models.Product				"Updated product"
//	@Failure	404			{object}	response.ErrorResponse		"Product not found"
//	@Failure	409			{object}	response.ErrorResponse		"Concurrent update"
//	@Security	BearerAuth
//	@Router		/products/{id}/featured [patch]
func (h *CatalogHandler) SetFeatured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.SetFeaturedRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator, logger) {
			return
		}

		product, err := h.catalogService.SetFeatured(r.Context(), id, *req.IsFeatured)
		if err != nil {
			logger.Error("Failed to update featured flag", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.Serialize(product))
	}
}

// DeleteProduct godoc
//	@Summary	Delete a product
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success	200	{object}	map[string]string		"Deleted"
//	@Failure	404	{object}	response.ErrorResponse	"Product not found"
//	@Security	BearerAuth
//	@Router		/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.String("productId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"id": id.String()})
	}
}

// AddComment godoc
//	@Summary	Comment on a product
//	@Tags		Catalog
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Param		comment	body		object					true	"Comment attributes (content, rate)"
//	@Success	201		{object}	models.Comment			"Created comment"
//	@Failure	400		{object}	response.ErrorResponse	"Constraint violation"
//	@Failure	404		{object}	response.ErrorResponse	"Product not found"
//	@Security	BearerAuth
//	@Router		/products/{id}/comments [post]
func (h *CatalogHandler) AddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized comment attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		attrs, ok := utils.ParseAttributes(r, w, logger)
		if !ok {
			return
		}

		comment, err := h.catalogService.AddComment(r.Context(), claims.UserID, productID, attrs)
		if err != nil {
			logger.Error("Failed to add comment", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, store.Serialize(comment))
	}
}

// ListComments godoc
//	@Summary	List a product's comments
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success	200	{array}		models.Comment			"Comments, oldest first"
//	@Failure	400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Router		/products/{id}/comments [get]
func (h *CatalogHandler) ListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		comments, err := h.catalogService.ListComments(r.Context(), productID)
		if err != nil {
			logger.Error("Failed to list comments", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.SerializeAll(comments))
	}
}
