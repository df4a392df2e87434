package domain

import (
	"time"

	"github.com/google/uuid"
)

type Concept struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Chapter   *Chapter  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`

	ConceptName  string `gorm:"column:concept_name;not null" json:"concept_name"`
	Explanation  string `gorm:"column:explanation;type:text" json:"explanation"`
	Example      string `gorm:"column:example;type:text" json:"example"`
	Analogy      string `gorm:"column:analogy;type:text" json:"analogy"`
	IsUnderstood bool   `gorm:"column:is_understood;not null;default:false" json:"is_understood"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Concept) TableName() string { return "concept" }
