package models

import (
	"time"

	"github.com/google/uuid"
)

// SupportMessage may come from a signed-in user or a guest. Neither identity
// is required.
type SupportMessage struct {
	Document
	Subject    string     `json:"subject" validate:"required"`
	Body       string     `json:"body" validate:"required"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	GuestName  string     `json:"guest_name,omitempty"`
	GuestEmail string     `json:"guest_email,omitempty" validate:"omitempty,email"`
	IsRead     bool       `json:"is_read"`
}

func (*SupportMessage) EntityType() EntityType {
	return EntitySupportMessage
}

type SupportMessageView struct {
	ID         uuid.UUID  `json:"id"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	GuestName  string     `json:"guest_name,omitempty"`
	GuestEmail string     `json:"guest_email,omitempty"`
	IsRead     bool       `json:"is_read"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (m *SupportMessage) PublicView() any {
	return &SupportMessageView{
		ID:         m.ID,
		Subject:    m.Subject,
		Body:       m.Body,
		UserID:     m.UserID,
		GuestName:  m.GuestName,
		GuestEmail: m.GuestEmail,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
