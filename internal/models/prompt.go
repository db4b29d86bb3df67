package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prompt is the per-shop override text for the summarization prompt,
// created blank at install.
type Prompt struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Shop      string    `json:"shop" gorm:"unique;not null"`
	Content   string    `json:"content" gorm:"default:''"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
