package domain

import (
	"time"

	"github.com/google/uuid"
)

type Chapter struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookID uuid.UUID `gorm:"type:uuid;not null;index" json:"book_id"`
	Book   *Book     `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookID;references:ID" json:"book,omitempty"`

	ChapterNumber int    `gorm:"column:chapter_number;not null" json:"chapter_number"`
	Title         string `gorm:"column:title;not null" json:"title"`
	Content       string `gorm:"column:content;type:text" json:"content"`
	StartPage     int    `gorm:"column:start_page" json:"start_page"`
	EndPage       int    `gorm:"column:end_page" json:"end_page"`
	IsProcessed   bool   `gorm:"column:is_processed;not null;default:false" json:"is_processed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }
