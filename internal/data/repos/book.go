package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type BookRepo interface {
	Create(dbc dbctx.Context, book *domain.Book) (*domain.Book, error)
	GetByID(dbc dbctx.Context, bookID uuid.UUID) (*domain.Book, error)
	GetAll(dbc dbctx.Context) ([]*domain.Book, error)
	Delete(dbc dbctx.Context, bookID uuid.UUID) error
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	repoLog := baseLog.With("repo", "BookRepo")
	return &bookRepo{db: db, log: repoLog}
}

func (r *bookRepo) Create(dbc dbctx.Context, book *domain.Book) (*domain.Book, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (r *bookRepo) GetByID(dbc dbctx.Context, bookID uuid.UUID) (*domain.Book, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Book
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", bookID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *bookRepo) GetAll(dbc dbctx.Context) ([]*domain.Book, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Book
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes the book and all dependent rows. Cascades run
// explicitly so sqlite behaves the same as postgres regardless of
// foreign key enforcement.
func (r *bookRepo) Delete(dbc dbctx.Context, bookID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	tx := transaction.WithContext(dbc.Ctx)

	chapterIDs := tx.Model(&domain.Chapter{}).Select("id").Where("book_id = ?", bookID)

	if err := tx.Where("chapter_id IN (?)", chapterIDs).Delete(&domain.Summary{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chapter_id IN (?)", chapterIDs).Delete(&domain.Concept{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chapter_id IN (?)", chapterIDs).Delete(&domain.Worksheet{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&domain.UserProgress{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&domain.Chapter{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id = ?", bookID).Delete(&domain.Book{}).Error; err != nil {
		return err
	}
	return nil
}
