package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Book{},
		&domain.Chapter{},
		&domain.Summary{},
		&domain.Concept{},
		&domain.Worksheet{},
		&domain.UserProgress{},
	)
}
