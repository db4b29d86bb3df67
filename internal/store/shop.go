package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autovid/internal/models"
)

type ShopStore struct {
	db *gorm.DB
}

func NewShopStore(db *gorm.DB) *ShopStore {
	return &ShopStore{db: db}
}

// Upsert stores or refreshes the access token for a shop domain.
func (s *ShopStore) Upsert(domain, accessToken string) error {
	shop := models.Shop{Domain: domain, AccessToken: accessToken}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "updated_at"}),
	}).Create(&shop).Error
}

func (s *ShopStore) Get(domain string) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.First(&shop, "domain = ?", domain).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}
