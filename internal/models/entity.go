package models

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityCartLine       EntityType = "cart_line"
	EntityCategory       EntityType = "category"
	EntityComment        EntityType = "comment"
	EntityCoupon         EntityType = "coupon"
	EntityProduct        EntityType = "product"
	EntitySupportMessage EntityType = "support_message"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityCartLine, EntityCategory, EntityComment, EntityCoupon, EntityProduct, EntitySupportMessage:
		return true
	}

	return false
}

// Attributes is the raw, untyped input an entity is constructed from.
type Attributes map[string]any

type Entity interface {
	EntityType() EntityType
	Doc() *Document
}

// PublicViewer is implemented by entities whose wire form hides the internal
// identifier and revision fields.
type PublicViewer interface {
	PublicView() any
}

// Document holds the bookkeeping fields every stored entity carries.
type Document struct {
	ID        uuid.UUID `json:"_id"`
	Version   int       `json:"__v"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Document) Doc() *Document {
	return d
}
