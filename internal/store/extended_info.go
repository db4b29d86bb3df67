package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autovid/internal/models"
)

// ExtendedInfoStore owns all writes to the video cache. The
// reconciler is its only writer; analytics and the listing routes
// only read.
type ExtendedInfoStore struct {
	db *gorm.DB
}

func NewExtendedInfoStore(db *gorm.DB) *ExtendedInfoStore {
	return &ExtendedInfoStore{db: db}
}

// ReplaceForProduct drops every cached row for the product and
// inserts the given set. Used after discovery, where the incoming
// candidate set supersedes anything cached.
func (s *ExtendedInfoStore) ReplaceForProduct(shop string, productID int64, rows []models.ExtendedInfo) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop = ? AND product_id = ?", shop, productID).
			Delete(&models.ExtendedInfo{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].Shop = shop
			rows[i].ProductID = productID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertMain clears the main flag on any existing row for the product
// and upserts the given row as the new main video. Both steps commit
// or fail as one unit.
func (s *ExtendedInfoStore) UpsertMain(shop string, productID int64, row models.ExtendedInfo) error {
	row.Shop = shop
	row.ProductID = productID
	row.IsMain = true

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ExtendedInfo{}).
			Where("shop = ? AND product_id = ? AND is_main = ?", shop, productID, true).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "shop"}, {Name: "video_url"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_title", "ai_summary", "highlights", "source_method", "is_main",
			}),
		}).Create(&row).Error
	})
}

// SetMain flips the main flag to the row matching videoURL, updating
// its cached summary/highlights along the way.
func (s *ExtendedInfoStore) SetMain(shop string, productID int64, videoURL, summary, highlights string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ExtendedInfo{}).
			Where("shop = ? AND product_id = ?", shop, productID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.ExtendedInfo{}).
			Where("shop = ? AND product_id = ? AND video_url = ?", shop, productID, videoURL).
			Updates(map[string]interface{}{
				"is_main":    true,
				"ai_summary": summary,
				"highlights": highlights,
			}).Error
	})
}

func (s *ExtendedInfoStore) GetByVideo(shop string, productID int64, videoURL string) (*models.ExtendedInfo, error) {
	var row models.ExtendedInfo
	err := s.db.First(&row, "shop = ? AND product_id = ? AND video_url = ?", shop, productID, videoURL).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *ExtendedInfoStore) ListByProduct(shop string, productID int64) ([]models.ExtendedInfo, error) {
	var rows []models.ExtendedInfo
	err := s.db.Where("shop = ? AND product_id = ?", shop, productID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (s *ExtendedInfoStore) ListByProducts(shop string, productIDs []int64) ([]models.ExtendedInfo, error) {
	var rows []models.ExtendedInfo
	err := s.db.Where("shop = ? AND product_id IN ?", shop, productIDs).Find(&rows).Error
	return rows, err
}

func (s *ExtendedInfoStore) ListByShop(shop string) ([]models.ExtendedInfo, error) {
	var rows []models.ExtendedInfo
	err := s.db.Where("shop = ?", shop).Find(&rows).Error
	return rows, err
}

// MarkOpened records that the merchant opened the video preview.
// Returns the number of rows touched so the route can 404 on unknown
// products.
func (s *ExtendedInfoStore) MarkOpened(shop string, productID int64) (int64, error) {
	result := s.db.Model(&models.ExtendedInfo{}).
		Where("shop = ? AND product_id = ?", shop, productID).
		Update("is_opened", true)
	return result.RowsAffected, result.Error
}

func (s *ExtendedInfoStore) DeleteForProduct(shop string, productID int64) error {
	return s.db.Where("shop = ? AND product_id = ?", shop, productID).
		Delete(&models.ExtendedInfo{}).Error
}
