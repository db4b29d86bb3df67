package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is an append-only storefront event log. Rows are never
// mutated, only aggregated over a time window.
type Activity struct {
	ID         string       `json:"id" gorm:"type:uuid;primary_key"`
	Shop       string       `json:"shop" gorm:"not null;index:idx_shop_created"`
	ProductID  int64        `json:"productId" gorm:"not null"`
	Type       ActivityType `json:"type" gorm:"not null"`
	VideoURL   string       `json:"videoUrl"`
	PageType   string       `json:"pageType"`
	PageHandle string       `json:"pageHandle"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"index:idx_shop_created"`
}

type ActivityType string

const (
	ActivityPageView  ActivityType = "PAGE_VIEW"
	ActivityVideoPlay ActivityType = "VIDEO_PLAY"
)

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
