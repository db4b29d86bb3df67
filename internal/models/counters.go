package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayCount is a running play counter per (product, video).
type PlayCount struct {
	ID        string `json:"id" gorm:"type:uuid;primary_key"`
	Shop      string `json:"shop" gorm:"not null"`
	ProductID int64  `json:"productId" gorm:"not null;uniqueIndex:idx_product_video"`
	VideoURL  string `json:"videoUrl" gorm:"not null;uniqueIndex:idx_product_video"`
	PlayCount int64  `json:"playCount" gorm:"default:0"`
}

// PageView is a running PDP view counter per page location.
type PageView struct {
	ID         string `json:"id" gorm:"type:uuid;primary_key"`
	Shop       string `json:"shop" gorm:"not null;uniqueIndex:idx_shop_product_page"`
	ProductID  int64  `json:"productId" gorm:"not null;uniqueIndex:idx_shop_product_page"`
	PageType   string `json:"pageType" gorm:"not null;uniqueIndex:idx_shop_product_page"`
	PageHandle string `json:"pageHandle" gorm:"not null;default:'';uniqueIndex:idx_shop_product_page"`
	ViewCount  int64  `json:"viewCount" gorm:"default:0"`
}

func (p *PlayCount) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (p *PageView) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
