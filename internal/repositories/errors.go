package repository

import (
	"errors"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation  = "23505"
	pqCheckViolation   = "23514"
	pqNotNullViolation = "23502"
)

// constraintFields maps database constraint names to entity fields.
var constraintFields = map[string]string{
	"coupons_code_key":                "code",
	"coupons_code_upper_check":        "code",
	"coupons_discount_check":          "discount",
	"comments_rate_check":             "rate",
	"cart_lines_quantity_check":       "quantity",
	"products_price_check":            "price",
	"products_promo_percentage_check": "promo_percentage",
	"products_images_check":           "images",
}

// translateError turns constraint violations reported by Postgres into
// constraint errors. Everything else is returned as is.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return appErrors.ConstraintError(fieldFor(pqErr), "unique").WithError(err)
	case pqCheckViolation:
		return appErrors.ConstraintError(fieldFor(pqErr), "check").WithError(err)
	case pqNotNullViolation:
		return appErrors.ConstraintError(fieldFor(pqErr), "required").WithError(err)
	}

	return err
}

func fieldFor(pqErr *pq.Error) string {
	if field, ok := constraintFields[pqErr.Constraint]; ok {
		return field
	}

	if pqErr.Column != "" {
		return pqErr.Column
	}

	return pqErr.Constraint
}
