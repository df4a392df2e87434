package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	GetByBookID(dbc dbctx.Context, bookID uuid.UUID) (*domain.UserProgress, error)
	UpdateProgress(dbc dbctx.Context, bookID uuid.UUID, completedChapterID *uuid.UUID) (*domain.UserProgress, error)
	RemoveCompleted(dbc dbctx.Context, bookID uuid.UUID, chapterID uuid.UUID) (*domain.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) GetByBookID(dbc dbctx.Context, bookID uuid.UUID) (*domain.UserProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.UserProgress
	if err := transaction.WithContext(dbc.Ctx).
		Where("book_id = ?", bookID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// UpdateProgress records a chapter visit for the book. The first touch
// creates the row with an empty completed set and only moves the
// last-visited pointer; a chapter joins the completed set on a later
// visit. Recording the same chapter twice is a no-op for the set.
func (r *userProgressRepo) UpdateProgress(dbc dbctx.Context, bookID uuid.UUID, completedChapterID *uuid.UUID) (*domain.UserProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	progress, err := r.GetByBookID(dbc, bookID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		if err := parentExists(transaction, dbc, &domain.Book{}, bookID); err != nil {
			return nil, fmt.Errorf("%w: book %s", err, bookID)
		}
		progress = &domain.UserProgress{
			ID:     uuid.New(),
			BookID: bookID,
		}
		if completedChapterID != nil {
			last := *completedChapterID
			progress.LastChapterID = &last
		}
		if err := progress.SetCompletedList(nil); err != nil {
			return nil, err
		}
		if err := transaction.WithContext(dbc.Ctx).Create(progress).Error; err != nil {
			return nil, err
		}
		return progress, nil
	}

	if completedChapterID != nil {
		completed := progress.CompletedList()
		present := false
		for _, id := range completed {
			if id == *completedChapterID {
				present = true
				break
			}
		}
		if !present {
			completed = append(completed, *completedChapterID)
			if err := progress.SetCompletedList(completed); err != nil {
				return nil, err
			}
		}
		last := *completedChapterID
		progress.LastChapterID = &last
	}

	if err := transaction.WithContext(dbc.Ctx).Save(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

// RemoveCompleted drops the chapter from the completed set. A missing
// progress row or a chapter that was never completed is not an error.
func (r *userProgressRepo) RemoveCompleted(dbc dbctx.Context, bookID uuid.UUID, chapterID uuid.UUID) (*domain.UserProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	progress, err := r.GetByBookID(dbc, bookID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, nil
	}

	completed := progress.CompletedList()
	filtered := completed[:0]
	for _, id := range completed {
		if id != chapterID {
			filtered = append(filtered, id)
		}
	}
	if err := progress.SetCompletedList(filtered); err != nil {
		return nil, err
	}
	if err := transaction.WithContext(dbc.Ctx).Save(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}
