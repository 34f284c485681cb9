package models

import "github.com/google/uuid"

type Category struct {
	Document
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (*Category) EntityType() EntityType {
	return EntityCategory
}

type Product struct {
	Document
	Name            string      `json:"name" validate:"required"`
	Description     string      `json:"description" validate:"required"`
	Price           float64     `json:"price" validate:"required,gt=0"`
	PromoPercentage *int        `json:"promo_percentage,omitempty" validate:"omitempty,min=1,max=99"`
	Images          []string    `json:"images" validate:"required,min=1,dive,required"`
	IsFeatured      bool        `json:"is_featured"`
	CategoryID      uuid.UUID   `json:"category_id" validate:"required"`
	Comments        []uuid.UUID `json:"comments"`
	Category        *Category   `json:"category,omitempty" validate:"-"`
}

func (*Product) EntityType() EntityType {
	return EntityProduct
}

// DiscountedPrice applies the promo percentage, if any.
func (p *Product) DiscountedPrice() float64 {
	if p.PromoPercentage == nil {
		return p.Price
	}

	return p.Price * float64(100-*p.PromoPercentage) / 100
}

type Comment struct {
	Document
	Content   string    `json:"content" validate:"required"`
	Rate      int       `json:"rate" validate:"required,min=1,max=5"`
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

func (*Comment) EntityType() EntityType {
	return EntityComment
}

type SetFeaturedRequest struct {
	IsFeatured *bool `json:"is_featured" validate:"required"`
}
