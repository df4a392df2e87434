package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type SummaryRepo interface {
	Create(dbc dbctx.Context, summary *domain.Summary) (*domain.Summary, error)
	GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (*domain.Summary, error)
}

type summaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	repoLog := baseLog.With("repo", "SummaryRepo")
	return &summaryRepo{db: db, log: repoLog}
}

func (r *summaryRepo) Create(dbc dbctx.Context, summary *domain.Summary) (*domain.Summary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if err := parentExists(transaction, dbc, &domain.Chapter{}, summary.ChapterID); err != nil {
		return nil, fmt.Errorf("%w: chapter %s", err, summary.ChapterID)
	}
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(summary).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *summaryRepo) GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (*domain.Summary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Summary
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
