package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProgress tracks which chapters of a book have been marked
// completed. One row per book. CompletedChapters is a JSON array of
// chapter IDs; membership is what matters, order is insertion order.
type UserProgress struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"book_id"`
	Book   *Book     `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookID;references:ID" json:"book,omitempty"`

	CompletedChapters datatypes.JSON `gorm:"column:completed_chapters" json:"completed_chapters"`
	LastChapterID     *uuid.UUID     `gorm:"type:uuid;column:last_chapter_id" json:"last_chapter_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

// CompletedList decodes the stored chapter-ID array. Malformed or empty
// payloads decode to an empty list rather than an error.
func (p *UserProgress) CompletedList() []uuid.UUID {
	if p == nil || len(p.CompletedChapters) == 0 {
		return []uuid.UUID{}
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(p.CompletedChapters, &ids); err != nil {
		return []uuid.UUID{}
	}
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

// HasCompleted reports membership of chapterID in the completed set.
func (p *UserProgress) HasCompleted(chapterID uuid.UUID) bool {
	for _, id := range p.CompletedList() {
		if id == chapterID {
			return true
		}
	}
	return false
}

// SetCompletedList re-encodes the chapter-ID array into the JSON column.
func (p *UserProgress) SetCompletedList(ids []uuid.UUID) error {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.CompletedChapters = datatypes.JSON(raw)
	return nil
}
