package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExtendedInfo caches one video attached to a product. A product can
// carry several rows (carousel candidates); at most one row per
// (shop, product_id) has IsMain set.
type ExtendedInfo struct {
	ID           string       `json:"id" gorm:"type:uuid;primary_key"`
	Shop         string       `json:"shop" gorm:"not null;uniqueIndex:idx_product_shop_video"`
	ProductID    int64        `json:"productId" gorm:"not null;uniqueIndex:idx_product_shop_video"`
	VideoURL     string       `json:"videoUrl" gorm:"not null;uniqueIndex:idx_product_shop_video"`
	ProductTitle string       `json:"productTitle"`
	AISummary    string       `json:"aiSummary"`
	Highlights   string       `json:"highlights" gorm:"type:text"`
	SourceMethod SourceMethod `json:"sourceMethod" gorm:"column:source_method;default:'AUTO'"`
	IsMain       bool         `json:"isMain" gorm:"default:false"`
	IsOpened     bool         `json:"isOpened" gorm:"default:false"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type SourceMethod string

const (
	SourceMethodAuto   SourceMethod = "AUTO"
	SourceMethodManual SourceMethod = "MANUAL"
)

// Highlight is one timestamped demo moment. The Highlights column
// stores a JSON-serialized list of these.
type Highlight struct {
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
}

func (e *ExtendedInfo) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
