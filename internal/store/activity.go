package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"autovid/internal/models"
)

// ActivityStore appends storefront events and keeps the running
// counters in step. Both the HTTP beacon routes and the Kafka worker
// write through it.
type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// RecordPlay bumps the play counter for (product, video) and appends
// a VIDEO_PLAY activity. Returns the new counter value.
func (s *ActivityStore) RecordPlay(shop string, productID int64, videoURL string) (int64, error) {
	var total int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var counter models.PlayCount
		err := tx.First(&counter, "product_id = ? AND video_url = ?", productID, videoURL).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			counter = models.PlayCount{
				Shop:      shop,
				ProductID: productID,
				VideoURL:  videoURL,
				PlayCount: 1,
			}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&counter).
				Update("play_count", gorm.Expr("play_count + ?", 1)).Error; err != nil {
				return err
			}
			counter.PlayCount++
		}
		total = counter.PlayCount

		return tx.Create(&models.Activity{
			Shop:      shop,
			ProductID: productID,
			Type:      models.ActivityVideoPlay,
			VideoURL:  videoURL,
		}).Error
	})
	return total, err
}

// RecordPageView bumps the PDP view counter for the page location and
// appends a PAGE_VIEW activity.
func (s *ActivityStore) RecordPageView(shop string, productID int64, pageType, pageHandle string) (int64, error) {
	var total int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var counter models.PageView
		err := tx.First(&counter,
			"shop = ? AND product_id = ? AND page_type = ? AND page_handle = ?",
			shop, productID, pageType, pageHandle).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			counter = models.PageView{
				Shop:       shop,
				ProductID:  productID,
				PageType:   pageType,
				PageHandle: pageHandle,
				ViewCount:  1,
			}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&counter).
				Update("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
				return err
			}
			counter.ViewCount++
		}
		total = counter.ViewCount

		return tx.Create(&models.Activity{
			Shop:       shop,
			ProductID:  productID,
			Type:       models.ActivityPageView,
			PageType:   pageType,
			PageHandle: pageHandle,
		}).Error
	})
	return total, err
}

// ListSince returns the shop's activity rows created after the given
// time. A zero time returns everything.
func (s *ActivityStore) ListSince(shop string, since time.Time) ([]models.Activity, error) {
	query := s.db.Where("shop = ?", shop)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var rows []models.Activity
	err := query.Find(&rows).Error
	return rows, err
}
