package domain

import (
	"time"

	"github.com/google/uuid"
)

// Summary is the generated study summary for a chapter. One row per
// chapter; regeneration is not automatic once a row exists.
type Summary struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"chapter_id"`
	Chapter   *Chapter  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`

	SummaryText string `gorm:"column:summary_text;type:text" json:"summary_text"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Summary) TableName() string { return "summary" }
