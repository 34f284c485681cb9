package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/google/uuid"
)

type CatalogService interface {
	CreateCategory(ctx context.Context, attrs models.Attributes) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateProduct(ctx context.Context, attrs models.Attributes) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int, featuredOnly bool) ([]*models.Product, int, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AddComment(ctx context.Context, userID, productID uuid.UUID, attrs models.Attributes) (*models.Comment, error)
	ListComments(ctx context.Context, productID uuid.UUID) ([]*models.Comment, error)
}

type catalogService struct {
	products repository.ProductRepository
	comments repository.CommentRepository
	cache    cache.Cache
	store    *store.Store
}

func NewCatalogService(products repository.ProductRepository, comments repository.CommentRepository, c cache.Cache, entities *store.Store) CatalogService {
	return &catalogService{products: products, comments: comments, cache: c, store: entities}
}

func (s *catalogService) CreateCategory(ctx context.Context, attrs models.Attributes) (*models.Category, error) {

	category, err := store.Construct[*models.Category](ctx, s.store, models.EntityCategory, attrs)
	if err != nil {
		return nil, err
	}

	if err := s.products.CreateCategory(ctx, category); err != nil {
		return nil, repoError(err, "Failed to create category")
	}

	cache.Invalidate(ctx, s.cache, cache.CategoriesKey)

	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	categories, err := cache.GetOrLoad(ctx, s.cache, cache.CategoriesKey, 0, s.products.ListCategories)
	if err != nil {
		return nil, repoError(err, "Failed to list categories")
	}

	return categories, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, attrs models.Attributes) (*models.Product, error) {

	product, err := store.Construct[*models.Product](ctx, s.store, models.EntityProduct, attrs)
	if err != nil {
		return nil, err
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, repoError(err, "Failed to create product")
	}

	middleware.LoggerFromContext(ctx).Info("Product created", slog.String("productId", product.ID.String()))

	return product, nil
}

// GetProduct reads through the product cache.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := cache.GetOrLoad(ctx, s.cache, cache.Key(cache.ProductKeyPrefix, id.String()), 0, func(ctx context.Context) (*models.Product, error) {
		return s.products.GetProductByID(ctx, id)
	})
	if err != nil {
		return nil, lookupError(err, "Product not found", "Failed to get product")
	}

	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, page, size int, featuredOnly bool) ([]*models.Product, int, error) {

	products, total, err := s.products.ListProducts(ctx, page, size, featuredOnly)
	if err != nil {
		return nil, 0, repoError(err, "Failed to list products")
	}

	return products, total, nil
}

// SetFeatured works on a fresh read so the revision check sees the latest
// stored version rather than a cached one.
func (s *catalogService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Product, error) {

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Product not found", "Failed to get product")
	}

	product.IsFeatured = featured

	if err := s.products.SetFeatured(ctx, product); err != nil {
		return nil, writeError(err, "Failed to update product")
	}

	cache.Invalidate(ctx, s.cache, cache.Key(cache.ProductKeyPrefix, id.String()))

	return product, nil
}

// DeleteProduct leaves comments and cart lines pointing at the product.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return lookupError(err, "Product not found", "Failed to delete product")
	}

	cache.Invalidate(ctx, s.cache, cache.Key(cache.ProductKeyPrefix, id.String()), cache.Key(cache.CommentsKeyPrefix, id.String()))

	return nil
}

// AddComment stores the comment and appends its id to the product's comment
// list. Both writes commit together or not at all.
func (s *catalogService) AddComment(ctx context.Context, userID, productID uuid.UUID, attrs models.Attributes) (*models.Comment, error) {

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return nil, lookupError(err, "Product not found", "Failed to get product")
	}

	attrs = withAttrs(attrs, models.Attributes{
		"user_id":    userID.String(),
		"product_id": productID.String(),
	})

	comment, err := store.Construct[*models.Comment](ctx, s.store, models.EntityComment, attrs)
	if err != nil {
		return nil, err
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, lookupError(err, "Product not found", "Failed to create comment")
	}

	cache.Invalidate(ctx, s.cache, cache.Key(cache.ProductKeyPrefix, productID.String()), cache.Key(cache.CommentsKeyPrefix, productID.String()))

	return comment, nil
}

func (s *catalogService) ListComments(ctx context.Context, productID uuid.UUID) ([]*models.Comment, error) {

	comments, err := cache.GetOrLoad(ctx, s.cache, cache.Key(cache.CommentsKeyPrefix, productID.String()), 0, func(ctx context.Context) ([]*models.Comment, error) {
		return s.comments.ListCommentsByProduct(ctx, productID)
	})
	if err != nil {
		return nil, repoError(err, "Failed to list comments")
	}

	return comments, nil
}
