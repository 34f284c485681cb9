// Package store turns raw attributes into validated entities and entities into
// their public wire form.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// CouponCodeChecker reports whether a normalized coupon code is already taken.
type CouponCodeChecker interface {
	CouponCodeExists(ctx context.Context, code string) (bool, error)
}

type Store struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	coupons   CouponCodeChecker
	now       func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(coupons CouponCodeChecker, opts ...Option) *Store {
	s := &Store{
		validate:  NewValidator(),
		sanitizer: bluemonday.StrictPolicy(),
		coupons:   coupons,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewValidator reports field errors by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	return v
}

// defaults are applied only for keys absent from the raw attributes or set to
// null.
var defaults = map[models.EntityType]models.Attributes{
	models.EntityCartLine:       {"quantity": 1},
	models.EntityCoupon:         {"is_active": true},
	models.EntityProduct:        {"is_featured": false, "comments": []string{}},
	models.EntitySupportMessage: {"is_read": false},
}

var attributeNames = func() map[models.EntityType]map[string]bool {
	types := []models.EntityType{
		models.EntityCartLine,
		models.EntityCategory,
		models.EntityComment,
		models.EntityCoupon,
		models.EntityProduct,
		models.EntitySupportMessage,
	}

	names := make(map[models.EntityType]map[string]bool, len(types))
	for _, entityType := range types {
		fields := map[string]bool{}
		collectJSONNames(reflect.TypeOf(newEntity(entityType)).Elem(), fields)
		names[entityType] = fields
	}

	return names
}()

// collectJSONNames walks embedded structs the way encoding/json does.
func collectJSONNames(t reflect.Type, names map[string]bool) {
	for i := range t.NumField() {
		fld := t.Field(i)
		tag := fld.Tag.Get("json")

		if fld.Anonymous && tag == "" && fld.Type.Kind() == reflect.Struct {
			collectJSONNames(fld.Type, names)
			continue
		}

		if !fld.IsExported() {
			continue
		}

		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			continue
		}

		if name == "" {
			name = fld.Name
		}

		names[name] = true
	}
}

// unknownAttribute returns the first key, in sorted order, that is not an
// exact json name of the entity.
func unknownAttribute(entityType models.EntityType, attrs models.Attributes) (string, bool) {
	known := attributeNames[entityType]

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !known[key] {
			return key, true
		}
	}

	return "", false
}

func newEntity(entityType models.EntityType) models.Entity {
	switch entityType {
	case models.EntityCartLine:
		return &models.CartLine{}
	case models.EntityCategory:
		return &models.Category{}
	case models.EntityComment:
		return &models.Comment{}
	case models.EntityCoupon:
		return &models.Coupon{}
	case models.EntityProduct:
		return &models.Product{}
	case models.EntitySupportMessage:
		return &models.SupportMessage{}
	}

	return nil
}

// ValidateAndConstruct applies defaults, decodes, sanitizes and validates raw
// attributes into a new entity with a fresh identifier and timestamps. Any
// rejected field is reported as a constraint error naming that field, and a
// key that is not one of the entity's fields is rejected as unknown.
func (s *Store) ValidateAndConstruct(ctx context.Context, entityType models.EntityType, attrs models.Attributes) (models.Entity, error) {

	logger := logging.FromContext(ctx)

	entity := newEntity(entityType)
	if entity == nil {
		return nil, s.reject(ctx, entityType, "entity_type", "oneof")
	}

	// Decoding folds case, so a look-alike key could shadow a field the
	// caller already set. Only exact names pass; the metric label is fixed.
	if key, ok := unknownAttribute(entityType, attrs); ok {
		metrics.RecordConstraintViolation(string(entityType), "unknown")
		logger.Warn("Unknown entity attribute", slog.String("entity", string(entityType)), slog.String("field", key))

		return nil, appErrors.ConstraintError(key, "unknown")
	}

	merged := make(models.Attributes, len(attrs))
	for key, value := range defaults[entityType] {
		merged[key] = value
	}

	// null counts as absent so it never clears a default.
	for key, value := range attrs {
		if value == nil {
			continue
		}

		merged[key] = value
	}

	if err := decodeAttributes(merged, entity); err != nil {
		var fieldErr *decodeError
		if errors.As(err, &fieldErr) {
			return nil, s.reject(ctx, entityType, fieldErr.field, "type")
		}

		return nil, appErrors.BadRequestError("Malformed attributes").WithError(err)
	}

	s.normalize(entity)

	if err := s.validate.StructCtx(ctx, entity); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			first := validationErrs[0]
			return nil, s.reject(ctx, entityType, fieldPath(first), first.Tag())
		}

		logger.Error("Unexpected validation error", slog.String("entity", string(entityType)), slog.String("error", err.Error()))
		return nil, appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	if coupon, ok := entity.(*models.Coupon); ok && s.coupons != nil {
		exists, err := s.coupons.CouponCodeExists(ctx, coupon.Code)
		if err != nil {
			logger.Error("Coupon uniqueness check failed", slog.String("code", coupon.Code), slog.String("error", err.Error()))
			return nil, appErrors.StorageUnavailableError("Unable to verify coupon code").WithError(err)
		}

		if exists {
			return nil, s.reject(ctx, entityType, "code", "unique")
		}
	}

	now := s.now().UTC()
	doc := entity.Doc()
	doc.ID = uuid.New()
	doc.Version = 0
	doc.CreatedAt = now
	doc.UpdatedAt = now

	return entity, nil
}

// Construct is ValidateAndConstruct for callers that know the concrete type.
func Construct[T models.Entity](ctx context.Context, s *Store, entityType models.EntityType, attrs models.Attributes) (T, error) {
	var zero T

	entity, err := s.ValidateAndConstruct(ctx, entityType, attrs)
	if err != nil {
		return zero, err
	}

	typed, ok := entity.(T)
	if !ok {
		return zero, appErrors.InternalError(fmt.Sprintf("entity type %s does not match %T", entityType, zero))
	}

	return typed, nil
}

func (s *Store) reject(ctx context.Context, entityType models.EntityType, field, rule string) error {
	metrics.RecordConstraintViolation(string(entityType), field)

	logging.FromContext(ctx).Warn("Entity constraint violated",
		slog.String("entity", string(entityType)),
		slog.String("field", field),
		slog.String("rule", rule),
	)

	return appErrors.ConstraintError(field, rule)
}

func (s *Store) normalize(entity models.Entity) {
	switch e := entity.(type) {
	case *models.Coupon:
		e.Code = NormalizeCouponCode(e.Code)
	case *models.Comment:
		e.Content = s.clean(e.Content)
	case *models.Product:
		e.Name = s.clean(e.Name)
		e.Description = s.clean(e.Description)
		if e.Comments == nil {
			e.Comments = []uuid.UUID{}
		}
	case *models.Category:
		e.Name = s.clean(e.Name)
		e.Description = s.clean(e.Description)
	case *models.SupportMessage:
		e.Subject = s.clean(e.Subject)
		e.Body = s.clean(e.Body)
		e.GuestName = s.clean(e.GuestName)
		e.GuestEmail = strings.TrimSpace(e.GuestEmail)
	}
}

func (s *Store) clean(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// fieldPath drops the struct name validator prefixes to the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}

	return fe.Field()
}

type decodeError struct {
	field string
	err   error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("field %s: %v", e.field, e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

func decodeAttributes(attrs models.Attributes, dest models.Entity) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}

	err = json.Unmarshal(data, dest)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &decodeError{field: typeErr.Field, err: err}
	}

	// Errors raised by a field's own UnmarshalText (uuid, time) carry no field
	// name, so find the attribute that fails on its own.
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		single, marshalErr := json.Marshal(map[string]any{key: attrs[key]})
		if marshalErr != nil {
			return &decodeError{field: key, err: marshalErr}
		}

		probe := reflect.New(reflect.TypeOf(dest).Elem()).Interface()
		if json.Unmarshal(single, probe) != nil {
			return &decodeError{field: key, err: err}
		}
	}

	return err
}
