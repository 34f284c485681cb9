package service

import (
	"database/sql"
	"errors"
	"maps"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// withAttrs returns a copy of attrs with the server-controlled keys set.
func withAttrs(attrs models.Attributes, set models.Attributes) models.Attributes {
	merged := make(models.Attributes, len(attrs)+len(set))
	maps.Copy(merged, attrs)
	maps.Copy(merged, set)

	return merged
}

func withoutAttrs(attrs models.Attributes, keys ...string) models.Attributes {
	trimmed := maps.Clone(attrs)
	for _, key := range keys {
		delete(trimmed, key)
	}

	return trimmed
}

// repoError keeps errors that already carry an application code, such as a
// translated constraint violation, and wraps everything else as a database
// error.
func repoError(err error, message string) error {
	if _, ok := appErrors.IsAppError(err); ok {
		return err
	}

	return appErrors.DatabaseError(message).WithError(err)
}

// lookupError maps a missing row to not found.
func lookupError(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NotFoundError(notFound).WithError(err)
	}

	return repoError(err, failed)
}

// writeError maps a missing row on a revision-checked write to a conflict.
func writeError(err error, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.ConflictError("The record was changed or removed by another request").WithError(err)
	}

	return repoError(err, failed)
}
