package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS shops (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		domain TEXT UNIQUE NOT NULL,
		access_token TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS extended_infos (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop TEXT NOT NULL,
		product_id BIGINT NOT NULL,
		video_url TEXT NOT NULL,
		product_title TEXT,
		ai_summary TEXT,
		highlights TEXT,
		source_method TEXT DEFAULT 'AUTO',
		is_main BOOLEAN DEFAULT false,
		is_opened BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (product_id, shop, video_url)
	);

	CREATE TABLE IF NOT EXISTS activities (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop TEXT NOT NULL,
		product_id BIGINT NOT NULL,
		type TEXT NOT NULL,
		video_url TEXT,
		page_type TEXT,
		page_handle TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS play_counts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop TEXT NOT NULL,
		product_id BIGINT NOT NULL,
		video_url TEXT NOT NULL,
		play_count BIGINT DEFAULT 0,
		UNIQUE (product_id, video_url)
	);

	CREATE TABLE IF NOT EXISTS page_views (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop TEXT NOT NULL,
		product_id BIGINT NOT NULL,
		page_type TEXT NOT NULL,
		page_handle TEXT NOT NULL DEFAULT '',
		view_count BIGINT DEFAULT 0,
		UNIQUE (shop, product_id, page_type, page_handle)
	);

	CREATE TABLE IF NOT EXISTS prompts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop TEXT UNIQUE NOT NULL,
		content TEXT DEFAULT '',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_extended_infos_shop_product ON extended_infos (shop, product_id);
	CREATE INDEX IF NOT EXISTS idx_activities_shop_created ON activities (shop, created_at);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
