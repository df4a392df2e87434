package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorksheetContent is the structured exercise payload stored for a
// chapter. Field names mirror the generator's JSON output.
type WorksheetContent struct {
	MCQs         []MCQ           `json:"mcqs"`
	OneLiners    []ShortQuestion `json:"one_liners"`
	BriefQA      []ShortQuestion `json:"brief_qa"`
	MatchColumns MatchColumns    `json:"match_columns"`
}

type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type ShortQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type MatchColumns struct {
	Column1 []string          `json:"column1"`
	Column2 []string          `json:"column2"`
	Matches map[string]string `json:"matches"`
}

// EmptyWorksheetContent is the degraded payload used when generator
// output cannot be parsed.
func EmptyWorksheetContent() WorksheetContent {
	return WorksheetContent{
		MCQs:      []MCQ{},
		OneLiners: []ShortQuestion{},
		BriefQA:   []ShortQuestion{},
		MatchColumns: MatchColumns{
			Column1: []string{},
			Column2: []string{},
			Matches: map[string]string{},
		},
	}
}

type Worksheet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"chapter_id"`
	Chapter   *Chapter  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`

	WorksheetData datatypes.JSON `gorm:"column:worksheet_data" json:"worksheet_data"`
	WorksheetURL  string         `gorm:"column:worksheet_url" json:"worksheet_url"`
	AnswerKeyURL  string         `gorm:"column:answer_key_url" json:"answer_key_url"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Worksheet) TableName() string { return "worksheet" }
