package store

import (
	"gorm.io/gorm"

	"autovid/internal/models"
)

type PromptStore struct {
	db *gorm.DB
}

func NewPromptStore(db *gorm.DB) *PromptStore {
	return &PromptStore{db: db}
}

// EnsureForShop creates a blank prompt row at install; existing rows
// are left untouched.
func (s *PromptStore) EnsureForShop(shop string) error {
	var prompt models.Prompt
	return s.db.Where(models.Prompt{Shop: shop}).
		FirstOrCreate(&prompt).Error
}

func (s *PromptStore) Get(shop string) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := s.db.First(&prompt, "shop = ?", shop).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (s *PromptStore) Update(shop, content string) error {
	return s.db.Model(&models.Prompt{}).
		Where("shop = ?", shop).
		Update("content", content).Error
}
