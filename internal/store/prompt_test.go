package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autovid/internal/models"
)

func TestPromptLifecycle(t *testing.T) {
	db := newTestDB(t)
	s := NewPromptStore(db)

	require.NoError(t, s.EnsureForShop(testShop))
	// A second install must not reset anything.
	require.NoError(t, s.EnsureForShop(testShop))

	var count int64
	require.NoError(t, db.Model(&models.Prompt{}).Where("shop = ?", testShop).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	prompt, err := s.Get(testShop)
	require.NoError(t, err)
	assert.Empty(t, prompt.Content)

	require.NoError(t, s.Update(testShop, "custom instructions"))

	prompt, err = s.Get(testShop)
	require.NoError(t, err)
	assert.Equal(t, "custom instructions", prompt.Content)
}
