package service_test

import (
	"database/sql"
	"errors"
	"testing"

	cacheMocks "github.com/aaravmahajanofficial/storefront/internal/cache/mocks"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	products *mocks.ProductRepository
	comments *mocks.CommentRepository
	cache    *cacheMocks.Cache
	service  service.CatalogService
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products: new(mocks.ProductRepository),
		comments: new(mocks.CommentRepository),
		cache:    new(cacheMocks.Cache),
	}
	f.service = service.NewCatalogService(f.products, f.comments, f.cache, store.New(nil))

	return f
}

func (f *catalogFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.products.AssertExpectations(t)
	f.comments.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestCatalogCreateProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("Success with defaults", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == "Runner" && !p.IsFeatured && p.Comments != nil && len(p.Comments) == 0
		})).Return(nil).Once()

		// Act
		product, err := f.service.CreateProduct(t.Context(), models.Attributes{
			"name":        "Runner",
			"description": "Light shoe",
			"price":       80,
			"images":      []any{"runner.jpg"},
			"category_id": categoryID.String(),
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, categoryID, product.CategoryID)
		f.assertExpectations(t)
	})

	t.Run("Empty image list", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()

		// Act
		_, err := f.service.CreateProduct(t.Context(), models.Attributes{
			"name":        "Runner",
			"description": "Light shoe",
			"price":       80,
			"images":      []any{},
			"category_id": categoryID.String(),
		})

		// Assert
		appErr, ok := appErrors.IsConstraintError(err)
		require.True(t, ok)
		assert.Equal(t, "images", appErr.Field)
		f.assertExpectations(t)
	})
}

func TestCatalogGetProduct(t *testing.T) {
	productID := uuid.New()
	key := "product:" + productID.String()
	product := &models.Product{Document: models.Document{ID: productID}, Name: "Runner"}

	t.Run("Cache hit", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.cache.On("Get", mock.Anything, key, mock.Anything).Return(true, nil, func(v any) {
			*(v.(**models.Product)) = product
		}).Once()

		// Act
		got, err := f.service.GetProduct(t.Context(), productID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
		f.products.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Cache miss reads the repository and fills the cache", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.cache.On("Get", mock.Anything, key, mock.Anything).Return(false, nil).Once()
		f.products.On("GetProductByID", mock.Anything, productID).Return(product, nil).Once()
		f.cache.On("Set", mock.Anything, key, product, mock.Anything).Return(nil).Once()

		// Act
		got, err := f.service.GetProduct(t.Context(), productID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
		f.assertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.cache.On("Get", mock.Anything, key, mock.Anything).Return(false, errors.New("redis down")).Once()
		f.products.On("GetProductByID", mock.Anything, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		got, err := f.service.GetProduct(t.Context(), productID)

		// Assert
		assert.Nil(t, got)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		f.assertExpectations(t)
	})
}

func TestCatalogSetFeatured(t *testing.T) {
	productID := uuid.New()

	t.Run("Success invalidates the cache", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		product := &models.Product{Document: models.Document{ID: productID, Version: 1}}
		f.products.On("GetProductByID", mock.Anything, productID).Return(product, nil).Once()
		f.products.On("SetFeatured", mock.Anything, mock.MatchedBy(func(p *models.Product) bool { return p.IsFeatured })).Return(nil).Once()
		f.cache.On("Delete", mock.Anything, []string{"product:" + productID.String()}).Return(nil).Once()

		// Act
		updated, err := f.service.SetFeatured(t.Context(), productID, true)

		// Assert
		require.NoError(t, err)
		assert.True(t, updated.IsFeatured)
		f.assertExpectations(t)
	})

	t.Run("Stale revision", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		product := &models.Product{Document: models.Document{ID: productID, Version: 1}}
		f.products.On("GetProductByID", mock.Anything, productID).Return(product, nil).Once()
		f.products.On("SetFeatured", mock.Anything, product).Return(sql.ErrNoRows).Once()

		// Act
		_, err := f.service.SetFeatured(t.Context(), productID, true)

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeConflict))
		f.assertExpectations(t)
	})
}

func TestCatalogAddComment(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()

	t.Run("Stores the comment and links it to the product", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		var stored *models.Comment

		f.products.On("GetProductByID", mock.Anything, productID).Return(&models.Product{Document: models.Document{ID: productID}}, nil).Once()
		f.comments.On("CreateComment", mock.Anything, mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.Comment)
		}).Return(nil).Once()
		f.cache.On("Delete", mock.Anything, []string{"product:" + productID.String(), "comments:" + productID.String()}).Return(nil).Once()

		// Act
		comment, err := f.service.AddComment(t.Context(), userID, productID, models.Attributes{
			"content": "<b>Great</b> fit",
			"rate":    5,
		})

		// Assert
		require.NoError(t, err)
		assert.Same(t, stored, comment)
		assert.Equal(t, "Great fit", comment.Content, "markup should be stripped")
		assert.Equal(t, userID, comment.UserID)
		assert.Equal(t, productID, comment.ProductID)
		f.assertExpectations(t)
	})

	t.Run("Rate out of range", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.products.On("GetProductByID", mock.Anything, productID).Return(&models.Product{}, nil).Once()

		// Act
		_, err := f.service.AddComment(t.Context(), userID, productID, models.Attributes{"content": "Meh", "rate": 6})

		// Assert
		appErr, ok := appErrors.IsConstraintError(err)
		require.True(t, ok)
		assert.Equal(t, "rate", appErr.Field)
		assert.Equal(t, "max", appErr.Detail)
		f.assertExpectations(t)
	})

	t.Run("Unknown product", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.products.On("GetProductByID", mock.Anything, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		_, err := f.service.AddComment(t.Context(), userID, productID, models.Attributes{"content": "Nice", "rate": 4})

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		f.assertExpectations(t)
	})

	t.Run("Product removed before the comment is linked", func(t *testing.T) {
		// Arrange
		f := newCatalogFixture()
		f.products.On("GetProductByID", mock.Anything, productID).Return(&models.Product{Document: models.Document{ID: productID}}, nil).Once()
		f.comments.On("CreateComment", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(sql.ErrNoRows).Once()

		// Act
		comment, err := f.service.AddComment(t.Context(), userID, productID, models.Attributes{"content": "Nice", "rate": 4})

		// Assert
		assert.Nil(t, comment)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		f.comments.AssertNotCalled(t, "ListCommentsByProduct", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Server owns the user and product ids", func(t *testing.T) {
		victim := uuid.New()
		otherProduct := uuid.New()

		tests := []struct {
			name  string
			attrs models.Attributes
			field string
		}{
			{name: "Exact user_id is overridden", attrs: models.Attributes{"user_id": victim.String()}},
			{name: "Exact product_id is overridden", attrs: models.Attributes{"product_id": otherProduct.String()}},
			{name: "Case variant user id", attrs: models.Attributes{"User_ID": victim.String()}, field: "User_ID"},
			{name: "Long s user id", attrs: models.Attributes{"u\u017fer_id": victim.String()}, field: "u\u017fer_id"},
			{name: "Upper case product id", attrs: models.Attributes{"product_id": productID.String(), "PRODUCT_ID": otherProduct.String()}, field: "PRODUCT_ID"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				// Arrange
				f := newCatalogFixture()
				f.products.On("GetProductByID", mock.Anything, productID).Return(&models.Product{Document: models.Document{ID: productID}}, nil).Once()

				attrs := models.Attributes{"content": "Nice", "rate": 4}
				for key, value := range tc.attrs {
					attrs[key] = value
				}

				if tc.field == "" {
					f.comments.On("CreateComment", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
						return c.UserID == userID && c.ProductID == productID
					})).Return(nil).Once()
					f.cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()
				}

				// Act
				comment, err := f.service.AddComment(t.Context(), userID, productID, attrs)

				// Assert
				if tc.field == "" {
					require.NoError(t, err)
					assert.Equal(t, userID, comment.UserID)
					assert.Equal(t, productID, comment.ProductID)
				} else {
					appErr, ok := appErrors.IsConstraintError(err)
					require.True(t, ok)
					assert.Equal(t, tc.field, appErr.Field)
					assert.Equal(t, "unknown", appErr.Detail)
					f.comments.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
				}
				f.assertExpectations(t)
			})
		}
	})
}

func TestCatalogCategories(t *testing.T) {
	t.Run("Create invalidates the cached list", func(t *testing.T) {
		f := newCatalogFixture()
		f.products.On("CreateCategory", mock.Anything, mock.AnythingOfType("*models.Category")).Return(nil).Once()
		f.cache.On("Delete", mock.Anything, []string{"categories:all"}).Return(nil).Once()

		category, err := f.service.CreateCategory(t.Context(), models.Attributes{"name": "Shoes"})

		require.NoError(t, err)
		assert.Equal(t, "Shoes", category.Name)
		f.assertExpectations(t)
	})

	t.Run("Missing name", func(t *testing.T) {
		f := newCatalogFixture()

		_, err := f.service.CreateCategory(t.Context(), models.Attributes{"description": "No name"})

		appErr, ok := appErrors.IsConstraintError(err)
		require.True(t, ok)
		assert.Equal(t, "name", appErr.Field)
		f.assertExpectations(t)
	})

	t.Run("List loads on miss", func(t *testing.T) {
		f := newCatalogFixture()
		categories := []*models.Category{{Name: "Shoes"}}
		f.cache.On("Get", mock.Anything, "categories:all", mock.Anything).Return(false, nil).Once()
		f.products.On("ListCategories", mock.Anything).Return(categories, nil).Once()
		f.cache.On("Set", mock.Anything, "categories:all", categories, mock.Anything).Return(nil).Once()

		got, err := f.service.ListCategories(t.Context())

		require.NoError(t, err)
		assert.Equal(t, categories, got)
		f.assertExpectations(t)
	})
}

func TestCatalogDeleteProduct(t *testing.T) {
	productID := uuid.New()

	t.Run("Not found", func(t *testing.T) {
		f := newCatalogFixture()
		f.products.On("DeleteProduct", mock.Anything, productID).Return(sql.ErrNoRows).Once()

		err := f.service.DeleteProduct(t.Context(), productID)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		f.assertExpectations(t)
	})

	t.Run("Success", func(t *testing.T) {
		f := newCatalogFixture()
		f.products.On("DeleteProduct", mock.Anything, productID).Return(nil).Once()
		f.cache.On("Delete", mock.Anything, []string{"product:" + productID.String(), "comments:" + productID.String()}).Return(nil).Once()

		require.NoError(t, f.service.DeleteProduct(t.Context(), productID))
		f.assertExpectations(t)
	})
}
