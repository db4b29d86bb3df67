package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop holds the Admin API credentials for an installed store. The
// OAuth handshake happens outside this service; the install route
// receives an already-exchanged token.
type Shop struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	Domain      string    `json:"domain" gorm:"unique;not null"`
	AccessToken string    `json:"-" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
