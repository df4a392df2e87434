package domain

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Author        string    `gorm:"column:author" json:"author"`
	FilePath      string    `gorm:"column:file_path" json:"file_path"`
	TotalChapters int       `gorm:"column:total_chapters;not null;default:0" json:"total_chapters"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Book) TableName() string { return "book" }
