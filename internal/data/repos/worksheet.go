package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type WorksheetRepo interface {
	Upsert(dbc dbctx.Context, worksheet *domain.Worksheet) (*domain.Worksheet, error)
	GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (*domain.Worksheet, error)
}

type worksheetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorksheetRepo(db *gorm.DB, baseLog *logger.Logger) WorksheetRepo {
	repoLog := baseLog.With("repo", "WorksheetRepo")
	return &worksheetRepo{db: db, log: repoLog}
}

// Upsert overwrites the chapter's worksheet in place. One worksheet per
// chapter; regenerating replaces content and artifact URLs.
func (r *worksheetRepo) Upsert(dbc dbctx.Context, worksheet *domain.Worksheet) (*domain.Worksheet, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByChapterID(dbc, worksheet.ChapterID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.WorksheetData = worksheet.WorksheetData
		existing.WorksheetURL = worksheet.WorksheetURL
		existing.AnswerKeyURL = worksheet.AnswerKeyURL
		if err := transaction.WithContext(dbc.Ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	if err := parentExists(transaction, dbc, &domain.Chapter{}, worksheet.ChapterID); err != nil {
		return nil, fmt.Errorf("%w: chapter %s", err, worksheet.ChapterID)
	}
	if worksheet.ID == uuid.Nil {
		worksheet.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(worksheet).Error; err != nil {
		return nil, err
	}
	return worksheet, nil
}

func (r *worksheetRepo) GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (*domain.Worksheet, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Worksheet
	if err := transaction.WithContext(dbc.Ctx).
		Where("chapter_id = ?", chapterID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
