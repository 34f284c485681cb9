package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

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

func TestSenderKey(t *testing.T) {
	userID := uuid.New()

	t.Run("Signed-in user", func(t *testing.T) {
		key := service.SenderKey(&models.SupportMessage{UserID: &userID, GuestEmail: "a@example.com"})
		assert.Equal(t, "user:"+userID.String(), key)
	})

	t.Run("Guest email is hashed and case-insensitive", func(t *testing.T) {
		lower := service.SenderKey(&models.SupportMessage{GuestEmail: "jane@example.com"})
		upper := service.SenderKey(&models.SupportMessage{GuestEmail: " Jane@Example.com "})

		assert.Equal(t, lower, upper)
		assert.Regexp(t, `^guest:[0-9a-f]{32}$`, lower)
		assert.NotContains(t, lower, "example")
	})

	t.Run("No identity", func(t *testing.T) {
		assert.Equal(t, "anonymous", service.SenderKey(&models.SupportMessage{}))
	})
}

func TestSubmitMessage(t *testing.T) {
	guestAttrs := models.Attributes{
		"subject":     "Order help",
		"body":        "Where is my parcel?",
		"guest_name":  "Jane",
		"guest_email": "jane@example.com",
	}

	t.Run("Guest submission", func(t *testing.T) {
		// Arrange
		repo := new(mocks.SupportMessageRepository)
		limiter := new(mocks.SubmissionLimiter)
		limiter.On("Allow", mock.Anything, mock.MatchedBy(func(sender string) bool {
			return len(sender) > len("guest:")
		})).Return(true, time.Duration(0), nil).Once()
		repo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*models.SupportMessage")).Return(nil).Once()

		svc := service.NewSupportService(repo, limiter, store.New(nil))

		// Act
		message, err := svc.SubmitMessage(t.Context(), nil, guestAttrs)

		// Assert
		require.NoError(t, err)
		assert.Nil(t, message.UserID)
		assert.False(t, message.IsRead)
		repo.AssertExpectations(t)
		limiter.AssertExpectations(t)
	})

	t.Run("Signed-in user is attached", func(t *testing.T) {
		// Arrange
		userID := uuid.New()
		repo := new(mocks.SupportMessageRepository)
		limiter := new(mocks.SubmissionLimiter)
		limiter.On("Allow", mock.Anything, "user:"+userID.String()).Return(true, time.Duration(0), nil).Once()
		repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil).Once()

		svc := service.NewSupportService(repo, limiter, store.New(nil))

		// Act
		message, err := svc.SubmitMessage(t.Context(), &userID, models.Attributes{"subject": "Hi", "body": "Hello"})

		// Assert
		require.NoError(t, err)
		require.NotNil(t, message.UserID)
		assert.Equal(t, userID, *message.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("Rate limited", func(t *testing.T) {
		// Arrange
		repo := new(mocks.SupportMessageRepository)
		limiter := new(mocks.SubmissionLimiter)
		limiter.On("Allow", mock.Anything, mock.Anything).Return(false, 90*time.Second+time.Millisecond, nil).Once()

		svc := service.NewSupportService(repo, limiter, store.New(nil))

		// Act
		_, err := svc.SubmitMessage(t.Context(), nil, guestAttrs)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appErr.Code)
		assert.Equal(t, "retry after 91 seconds", appErr.Detail)
		repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})

	t.Run("Limiter failure lets the message through", func(t *testing.T) {
		// Arrange
		repo := new(mocks.SupportMessageRepository)
		limiter := new(mocks.SubmissionLimiter)
		limiter.On("Allow", mock.Anything, mock.Anything).Return(false, time.Duration(0), errors.New("redis down")).Once()
		repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil).Once()

		svc := service.NewSupportService(repo, limiter, store.New(nil))

		// Act
		_, err := svc.SubmitMessage(t.Context(), nil, guestAttrs)

		// Assert
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Caller supplied user id", func(t *testing.T) {
		me := uuid.New()
		victim := uuid.New()

		tests := []struct {
			name       string
			userID     *uuid.UUID
			key        string
			wantUserID *uuid.UUID
			wantSender string
			rejected   bool
		}{
			{name: "Guest cannot claim a user", key: "user_id", wantSender: "anonymous"},
			{name: "Signed-in user keeps own id", userID: &me, key: "user_id", wantUserID: &me, wantSender: "user:" + me.String()},
			{name: "Guest with case variant key", key: "User_ID", rejected: true},
			{name: "Signed-in user with long s key", userID: &me, key: "u\u017fer_id", rejected: true},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				// Arrange
				repo := new(mocks.SupportMessageRepository)
				limiter := new(mocks.SubmissionLimiter)
				if !tc.rejected {
					limiter.On("Allow", mock.Anything, tc.wantSender).Return(true, time.Duration(0), nil).Once()
					repo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*models.SupportMessage")).Return(nil).Once()
				}

				svc := service.NewSupportService(repo, limiter, store.New(nil))
				attrs := models.Attributes{"subject": "Hi", "body": "Hello", tc.key: victim.String()}

				// Act
				message, err := svc.SubmitMessage(t.Context(), tc.userID, attrs)

				// Assert
				if tc.rejected {
					assert.Nil(t, message)
					appErr, ok := appErrors.IsConstraintError(err)
					require.True(t, ok)
					assert.Equal(t, tc.key, appErr.Field)
					assert.Equal(t, "unknown", appErr.Detail)
					limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
					repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
					return
				}

				require.NoError(t, err)
				assert.Equal(t, tc.wantUserID, message.UserID)
				assert.Equal(t, victim.String(), attrs[tc.key], "input attributes must not be modified")
				repo.AssertExpectations(t)
				limiter.AssertExpectations(t)
			})
		}
	})

	t.Run("Invalid guest email", func(t *testing.T) {
		// Arrange
		repo := new(mocks.SupportMessageRepository)
		limiter := new(mocks.SubmissionLimiter)
		svc := service.NewSupportService(repo, limiter, store.New(nil))

		// Act
		_, err := svc.SubmitMessage(t.Context(), nil, models.Attributes{
			"subject":     "Hi",
			"body":        "Hello",
			"guest_email": "not-an-email",
		})

		// Assert
		appErr, ok := appErrors.IsConstraintError(err)
		require.True(t, ok)
		assert.Equal(t, "guest_email", appErr.Field)
		limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
	})
}

func TestMarkRead(t *testing.T) {
	id := uuid.New()

	t.Run("Unread message", func(t *testing.T) {
		repo := new(mocks.SupportMessageRepository)
		message := &models.SupportMessage{Document: models.Document{ID: id}}
		repo.On("GetMessageByID", mock.Anything, id).Return(message, nil).Once()
		repo.On("MarkRead", mock.Anything, message).Run(func(args mock.Arguments) {
			args.Get(1).(*models.SupportMessage).IsRead = true
		}).Return(nil).Once()

		svc := service.NewSupportService(repo, new(mocks.SubmissionLimiter), store.New(nil))
		updated, err := svc.MarkRead(t.Context(), id)

		require.NoError(t, err)
		assert.True(t, updated.IsRead)
		repo.AssertExpectations(t)
	})

	t.Run("Already read", func(t *testing.T) {
		repo := new(mocks.SupportMessageRepository)
		repo.On("GetMessageByID", mock.Anything, id).Return(&models.SupportMessage{IsRead: true}, nil).Once()

		svc := service.NewSupportService(repo, new(mocks.SubmissionLimiter), store.New(nil))
		_, err := svc.MarkRead(t.Context(), id)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := new(mocks.SupportMessageRepository)
		repo.On("GetMessageByID", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

		svc := service.NewSupportService(repo, new(mocks.SubmissionLimiter), store.New(nil))
		_, err := svc.MarkRead(t.Context(), id)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})
}

func TestListAndDeleteMessages(t *testing.T) {
	repo := new(mocks.SupportMessageRepository)
	id := uuid.New()
	messages := []*models.SupportMessage{{Subject: "Hi"}}
	repo.On("ListMessages", mock.Anything, 2, 10, true).Return(messages, 11, nil).Once()
	repo.On("DeleteMessage", mock.Anything, id).Return(sql.ErrNoRows).Once()

	svc := service.NewSupportService(repo, new(mocks.SubmissionLimiter), store.New(nil))

	got, total, err := svc.ListMessages(t.Context(), 2, 10, true)
	require.NoError(t, err)
	assert.Equal(t, messages, got)
	assert.Equal(t, 11, total)

	err = svc.DeleteMessage(t.Context(), id)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	repo.AssertExpectations(t)
}
