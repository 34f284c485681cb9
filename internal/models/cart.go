package models

import (
	"time"

	"github.com/google/uuid"
)

type CartLine struct {
	Document
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

func (*CartLine) EntityType() EntityType {
	return EntityCartLine
}

type CartLineView struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *CartLine) PublicView() any {
	return &CartLineView{
		ID:        l.ID,
		UserID:    l.UserID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
