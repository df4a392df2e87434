package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type ConceptRepo interface {
	Create(dbc dbctx.Context, concepts []*domain.Concept) ([]*domain.Concept, error)
	GetByID(dbc dbctx.Context, conceptID uuid.UUID) (*domain.Concept, error)
	GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) ([]*domain.Concept, error)
	SetUnderstood(dbc dbctx.Context, conceptID uuid.UUID, understood bool) (*domain.Concept, error)
	ResetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) error
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	repoLog := baseLog.With("repo", "ConceptRepo")
	return &conceptRepo{db: db, log: repoLog}
}

func (r *conceptRepo) Create(dbc dbctx.Context, concepts []*domain.Concept) ([]*domain.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(concepts) == 0 {
		return []*domain.Concept{}, nil
	}

	for _, c := range concepts {
		if err := parentExists(transaction, dbc, &domain.Chapter{}, c.ChapterID); err != nil {
			return nil, fmt.Errorf("%w: chapter %s", err, c.ChapterID)
		}
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&concepts).Error; err != nil {
		return nil, err
	}
	return concepts, nil
}

func (r *conceptRepo) GetByID(dbc dbctx.Context, conceptID uuid.UUID) (*domain.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Concept
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", conceptID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *conceptRepo) GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) ([]*domain.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Concept
	if err := transaction.WithContext(dbc.Ctx).
		Where("chapter_id = ?", chapterID).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SetUnderstood flips the understanding flag and returns the updated
// row, or nil when the concept does not exist.
func (r *conceptRepo) SetUnderstood(dbc dbctx.Context, conceptID uuid.UUID, understood bool) (*domain.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	concept, err := r.GetByID(dbc, conceptID)
	if err != nil {
		return nil, err
	}
	if concept == nil {
		return nil, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Model(concept).
		Update("is_understood", understood).Error; err != nil {
		return nil, err
	}
	concept.IsUnderstood = understood
	return concept, nil
}

// ResetByChapterID clears understanding flags for every concept of the
// chapter.
func (r *conceptRepo) ResetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Concept{}).
		Where("chapter_id = ?", chapterID).
		Update("is_understood", false).Error
}
