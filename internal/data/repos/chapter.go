package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapters []*domain.Chapter) ([]*domain.Chapter, error)
	GetByID(dbc dbctx.Context, chapterID uuid.UUID) (*domain.Chapter, error)
	GetByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*domain.Chapter, error)
	SetProcessed(dbc dbctx.Context, chapterID uuid.UUID, processed bool) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	repoLog := baseLog.With("repo", "ChapterRepo")
	return &chapterRepo{db: db, log: repoLog}
}

func (r *chapterRepo) Create(dbc dbctx.Context, chapters []*domain.Chapter) ([]*domain.Chapter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(chapters) == 0 {
		return []*domain.Chapter{}, nil
	}

	// Parent existence is checked here because sqlite does not enforce
	// the declared foreign keys under automigrate.
	for _, c := range chapters {
		if err := parentExists(transaction, dbc, &domain.Book{}, c.BookID); err != nil {
			return nil, fmt.Errorf("%w: book %s", err, c.BookID)
		}
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Chapter
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", chapterID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *chapterRepo) GetByBookID(dbc dbctx.Context, bookID uuid.UUID) ([]*domain.Chapter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Chapter
	if err := transaction.WithContext(dbc.Ctx).
		Where("book_id = ?", bookID).
		Order("chapter_number asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) SetProcessed(dbc dbctx.Context, chapterID uuid.UUID, processed bool) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Chapter{}).
		Where("id = ?", chapterID).
		Update("is_processed", processed).Error
}

func parentExists(transaction *gorm.DB, dbc dbctx.Context, model any, id uuid.UUID) error {
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(model).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrIntegrity
	}
	return nil
}
