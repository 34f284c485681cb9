package models

import "time"

type Coupon struct {
	Document
	Code      string    `json:"code" validate:"required"`
	Discount  int       `json:"discount" validate:"required,min=1,max=100"`
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
	IsActive  bool      `json:"is_active"`
}

func (*Coupon) EntityType() EntityType {
	return EntityCoupon
}

func (c *Coupon) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
