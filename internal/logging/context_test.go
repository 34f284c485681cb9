package logging_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("Attached logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		ctx := logging.WithLogger(t.Context(), logger)

		assert.Same(t, logger, logging.FromContext(ctx))
	})

	t.Run("Falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), logging.FromContext(t.Context()))
	})
}
