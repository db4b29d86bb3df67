package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autovid/internal/models"
)

func TestRecordPlay(t *testing.T) {
	db := newTestDB(t)
	s := NewActivityStore(db)

	total, err := s.RecordPlay(testShop, 1, "https://youtube.com/embed/aaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, err = s.RecordPlay(testShop, 1, "https://youtube.com/embed/aaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// A different video gets its own counter.
	total, err = s.RecordPlay(testShop, 1, "https://youtube.com/embed/bbbbbbbbbbb")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	var activityCount int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("type = ?", models.ActivityVideoPlay).
		Count(&activityCount).Error)
	assert.Equal(t, int64(3), activityCount)
}

func TestRecordPageView(t *testing.T) {
	db := newTestDB(t)
	s := NewActivityStore(db)

	total, err := s.RecordPageView(testShop, 1, "product", "blue-snowboard")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, err = s.RecordPageView(testShop, 1, "product", "blue-snowboard")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	var activityCount int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("type = ?", models.ActivityPageView).
		Count(&activityCount).Error)
	assert.Equal(t, int64(2), activityCount)
}

func TestListSince(t *testing.T) {
	db := newTestDB(t)
	s := NewActivityStore(db)

	now := time.Now()
	rows := []models.Activity{
		{Shop: testShop, ProductID: 1, Type: models.ActivityVideoPlay, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{Shop: testShop, ProductID: 1, Type: models.ActivityVideoPlay, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{Shop: "other.myshopify.com", ProductID: 1, Type: models.ActivityVideoPlay, CreatedAt: now},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	t.Run("window filters by created_at", func(t *testing.T) {
		recent, err := s.ListSince(testShop, now.Add(-7*24*time.Hour))
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})

	t.Run("zero time returns everything for the shop", func(t *testing.T) {
		all, err := s.ListSince(testShop, time.Time{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
