package service_test

import (
	"database/sql"
	"errors"
	"testing"

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

func TestCartServiceAddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("New product creates a line", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))

		repo.On("GetLine", mock.Anything, userID, productID).Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateLine", mock.Anything, mock.MatchedBy(func(line *models.CartLine) bool {
			return line.UserID == userID && line.ProductID == productID && line.Quantity == 1
		})).Return(nil).Once()

		// Act
		line, err := cartService.AddItem(t.Context(), userID, models.Attributes{"product_id": productID.String()})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity, "quantity should default to 1")
		assert.NotEqual(t, uuid.Nil, line.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Existing product raises the quantity", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		existing := &models.CartLine{Document: models.Document{ID: uuid.New(), Version: 2}, UserID: userID, ProductID: productID, Quantity: 3}

		repo.On("GetLine", mock.Anything, userID, productID).Return(existing, nil).Once()
		repo.On("UpdateLineQuantity", mock.Anything, existing).Return(nil).Once()

		// Act
		line, err := cartService.AddItem(t.Context(), userID, models.Attributes{"product_id": productID.String(), "quantity": 2})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, existing.ID, line.ID)
		assert.Equal(t, 5, line.Quantity)
		repo.AssertNotCalled(t, "CreateLine", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("Concurrent change is a conflict", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		existing := &models.CartLine{Document: models.Document{ID: uuid.New(), Version: 2}, UserID: userID, ProductID: productID, Quantity: 3}

		repo.On("GetLine", mock.Anything, userID, productID).Return(existing, nil).Once()
		repo.On("UpdateLineQuantity", mock.Anything, existing).Return(sql.ErrNoRows).Once()

		// Act
		line, err := cartService.AddItem(t.Context(), userID, models.Attributes{"product_id": productID.String()})

		// Assert
		assert.Nil(t, line)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeConflict))
		repo.AssertExpectations(t)
	})

	t.Run("Invalid quantity never reaches the repository", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))

		// Act
		line, err := cartService.AddItem(t.Context(), userID, models.Attributes{"product_id": productID.String(), "quantity": 0})

		// Assert
		assert.Nil(t, line)
		appErr, ok := appErrors.IsConstraintError(err)
		require.True(t, ok)
		assert.Equal(t, "quantity", appErr.Field)
		repo.AssertExpectations(t)
	})

	t.Run("Caller cannot add to another user's cart", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		attrs := models.Attributes{"product_id": productID.String(), "user_id": uuid.NewString()}

		repo.On("GetLine", mock.Anything, userID, productID).Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateLine", mock.Anything, mock.MatchedBy(func(line *models.CartLine) bool {
			return line.UserID == userID
		})).Return(nil).Once()

		// Act
		_, err := cartService.AddItem(t.Context(), userID, attrs)

		// Assert
		require.NoError(t, err)
		assert.NotEqual(t, userID.String(), attrs["user_id"], "input attributes must not be modified")
		repo.AssertExpectations(t)
	})

	t.Run("Look-alike user id keys are rejected", func(t *testing.T) {
		victim := uuid.NewString()

		tests := []struct {
			name string
			key  string
		}{
			{name: "Mixed case", key: "User_Id"},
			{name: "Upper case", key: "USER_ID"},
			{name: "Long s", key: "u\u017fer_id"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				// Arrange
				repo := new(mocks.CartLineRepository)
				cartService := service.NewCartService(repo, store.New(nil))

				// Act
				line, err := cartService.AddItem(t.Context(), userID, models.Attributes{"product_id": productID.String(), tc.key: victim})

				// Assert
				assert.Nil(t, line)
				appErr, ok := appErrors.IsConstraintError(err)
				require.True(t, ok)
				assert.Equal(t, tc.key, appErr.Field)
				assert.Equal(t, "unknown", appErr.Detail)
				repo.AssertNotCalled(t, "GetLine", mock.Anything, mock.Anything, mock.Anything)
				repo.AssertNotCalled(t, "CreateLine", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		line := &models.CartLine{Document: models.Document{ID: uuid.New()}, UserID: userID, ProductID: productID, Quantity: 1}

		repo.On("GetLine", mock.Anything, userID, productID).Return(line, nil).Once()
		repo.On("UpdateLineQuantity", mock.Anything, line).Return(nil).Once()

		updated, err := cartService.UpdateQuantity(t.Context(), userID, productID, &models.UpdateQuantityRequest{Quantity: 7})

		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("Quantity below one", func(t *testing.T) {
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))

		_, err := cartService.UpdateQuantity(t.Context(), userID, productID, &models.UpdateQuantityRequest{Quantity: 0})

		appErr, ok := appErrors.IsConstraintError(err)
		require.True(t, ok)
		assert.Equal(t, "quantity", appErr.Field)
		repo.AssertExpectations(t)
	})

	t.Run("Line not in cart", func(t *testing.T) {
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))

		repo.On("GetLine", mock.Anything, userID, productID).Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.UpdateQuantity(t.Context(), userID, productID, &models.UpdateQuantityRequest{Quantity: 2})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		repo.AssertExpectations(t)
	})
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Remove missing item", func(t *testing.T) {
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		repo.On("DeleteLines", mock.Anything, userID, productID).Return(sql.ErrNoRows).Once()

		err := cartService.RemoveItem(t.Context(), userID, productID)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		repo.AssertExpectations(t)
	})

	t.Run("Clear", func(t *testing.T) {
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		repo.On("ClearLines", mock.Anything, userID).Return(int64(2), nil).Once()

		cleared, err := cartService.ClearCart(t.Context(), userID)

		require.NoError(t, err)
		assert.Equal(t, int64(2), cleared)
		repo.AssertExpectations(t)
	})

	t.Run("Database failure", func(t *testing.T) {
		repo := new(mocks.CartLineRepository)
		cartService := service.NewCartService(repo, store.New(nil))
		dbErr := errors.New("connection reset")
		repo.On("ListLines", mock.Anything, userID).Return(nil, dbErr).Once()

		lines, err := cartService.GetCart(t.Context(), userID)

		assert.Nil(t, lines)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
		assert.ErrorIs(t, err, dbErr)
		repo.AssertExpectations(t)
	})
}
