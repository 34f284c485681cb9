package utils_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{query: "", wantPage: 1, wantSize: 10},
		{query: "page=3&size=20", wantPage: 3, wantSize: 20},
		{query: "page=0&size=-5", wantPage: 1, wantSize: 10},
		{query: "page=abc&size=xyz", wantPage: 1, wantSize: 10},
		{query: "size=1000", wantPage: 1, wantSize: 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items?"+tt.query, nil)

			page, size := utils.PageParams(req, 10, 100)

			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestParseID(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil)
		req.SetPathValue("id", id.String())

		got, err := utils.ParseID(req, "id")

		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("Malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
		req.SetPathValue("id", "42")

		_, err := utils.ParseID(req, "id")

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		assert.Equal(t, "id", appErr.Field)
	})

	t.Run("Missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items/", nil)

		_, err := utils.ParseID(req, "id")

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("Empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

		var dest map[string]any
		err := utils.DecodeJSONBody(req, &dest)

		assert.ErrorIs(t, err, utils.ErrEmptyBody)
	})

	t.Run("Object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))

		var dest map[string]any
		require.NoError(t, utils.DecodeJSONBody(req, &dest))
		assert.Equal(t, map[string]any{"a": float64(1)}, dest)
	})
}
