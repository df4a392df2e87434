package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/data/repos"
	"github.com/yungbote/edusummarize-backend/internal/domain"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type ChapterRef struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Number int       `json:"number"`
}

type ConceptView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Explanation  string    `json:"explanation"`
	Example      string    `json:"example"`
	Analogy      string    `json:"analogy"`
	IsUnderstood bool      `json:"is_understood"`
}

type SessionView struct {
	Chapter  ChapterRef    `json:"chapter"`
	Summary  string        `json:"summary"`
	Concepts []ConceptView `json:"concepts"`
}

type ConceptFeedback struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	IsUnderstood bool      `json:"is_understood"`
	// SimplerExplanation is generated fresh on every "not understood"
	// signal and never persisted.
	SimplerExplanation string `json:"simpler_explanation,omitempty"`
}

type ConceptStatus struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	IsUnderstood bool      `json:"is_understood"`
}

type ChapterProgress struct {
	TotalConcepts      int             `json:"total_concepts"`
	UnderstoodConcepts int             `json:"understood_concepts"`
	ProgressPercentage float64         `json:"progress_percentage"`
	Concepts           []ConceptStatus `json:"concepts"`
}

type ChapterStanding struct {
	ChapterID          uuid.UUID `json:"chapter_id"`
	ChapterTitle       string    `json:"chapter_title"`
	ChapterNumber      int       `json:"chapter_number"`
	ProgressPercentage float64   `json:"progress_percentage"`
	IsCompleted        bool      `json:"is_completed"`
}

type BookProgress struct {
	BookID            uuid.UUID         `json:"book_id"`
	OverallProgress   float64           `json:"overall_progress"`
	TotalChapters     int               `json:"total_chapters"`
	CompletedChapters int               `json:"completed_chapters"`
	ChapterProgress   []ChapterStanding `json:"chapter_progress"`
}

type LearningSessionService interface {
	StartSession(ctx context.Context, chapterID uuid.UUID) (*SessionView, error)
	ProcessConceptUnderstanding(ctx context.Context, conceptID uuid.UUID, understood bool) (*ConceptFeedback, error)
	GetChapterProgress(ctx context.Context, chapterID uuid.UUID) (*ChapterProgress, error)
	GetBookProgress(ctx context.Context, bookID uuid.UUID) (*BookProgress, error)
	ResetChapterProgress(ctx context.Context, chapterID uuid.UUID) (string, error)
}

type learningSessionService struct {
	log          *logger.Logger
	summarizer   SummarizerService
	chapterRepo  repos.ChapterRepo
	summaryRepo  repos.SummaryRepo
	conceptRepo  repos.ConceptRepo
	progressRepo repos.UserProgressRepo
}

func NewLearningSessionService(
	baseLog *logger.Logger,
	summarizer SummarizerService,
	chapterRepo repos.ChapterRepo,
	summaryRepo repos.SummaryRepo,
	conceptRepo repos.ConceptRepo,
	progressRepo repos.UserProgressRepo,
) LearningSessionService {
	return &learningSessionService{
		log:          baseLog.With("service", "LearningSessionService"),
		summarizer:   summarizer,
		chapterRepo:  chapterRepo,
		summaryRepo:  summaryRepo,
		conceptRepo:  conceptRepo,
		progressRepo: progressRepo,
	}
}

// StartSession opens a chapter for study. The first visit generates and
// persists a summary, then extracts concepts from it. Summary existence
// alone gates regeneration: a chapter whose concept extraction failed
// keeps its summary and zero concepts on later visits, with no retry.
func (s *learningSessionService) StartSession(ctx context.Context, chapterID uuid.UUID) (*SessionView, error) {
	dbc := dbctx.Context{Ctx: ctx}

	chapter, err := s.chapterRepo.GetByID(dbc, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, fmt.Errorf("%w: chapter %s", apperrors.ErrNotFound, chapterID)
	}

	summary, err := s.summaryRepo.GetByChapterID(dbc, chapterID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		s.log.Info("No summary found, generating", "chapter_id", chapterID)

		summaryText, err := s.summarizer.SummarizeChapter(ctx, chapter.Content)
		if err != nil {
			return nil, err
		}
		summary, err = s.summaryRepo.Create(dbc, &domain.Summary{
			ChapterID:   chapterID,
			SummaryText: summaryText,
		})
		if err != nil {
			return nil, err
		}

		drafts := s.summarizer.ExtractConcepts(ctx, summaryText)
		if len(drafts) == 0 {
			s.log.Warn("Concept extraction yielded no concepts", "chapter_id", chapterID)
		}
		concepts := make([]*domain.Concept, 0, len(drafts))
		for _, d := range drafts {
			concepts = append(concepts, &domain.Concept{
				ChapterID:   chapterID,
				ConceptName: d.Name,
				Explanation: d.Explanation,
				Example:     d.Example,
				Analogy:     d.Analogy,
			})
		}
		if _, err := s.conceptRepo.Create(dbc, concepts); err != nil {
			return nil, err
		}

		if err := s.chapterRepo.SetProcessed(dbc, chapterID, true); err != nil {
			return nil, err
		}
	}

	concepts, err := s.conceptRepo.GetByChapterID(dbc, chapterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.progressRepo.UpdateProgress(dbc, chapter.BookID, &chapterID); err != nil {
		return nil, err
	}

	views := make([]ConceptView, 0, len(concepts))
	for _, c := range concepts {
		views = append(views, ConceptView{
			ID:           c.ID,
			Name:         c.ConceptName,
			Explanation:  c.Explanation,
			Example:      c.Example,
			Analogy:      c.Analogy,
			IsUnderstood: c.IsUnderstood,
		})
	}

	return &SessionView{
		Chapter: ChapterRef{
			ID:     chapter.ID,
			Title:  chapter.Title,
			Number: chapter.ChapterNumber,
		},
		Summary:  summary.SummaryText,
		Concepts: views,
	}, nil
}

// ProcessConceptUnderstanding persists only the positive signal. A "not
// understood" answer leaves the stored flag alone and responds with a
// freshly generated simpler explanation.
func (s *learningSessionService) ProcessConceptUnderstanding(ctx context.Context, conceptID uuid.UUID, understood bool) (*ConceptFeedback, error) {
	dbc := dbctx.Context{Ctx: ctx}

	concept, err := s.conceptRepo.GetByID(dbc, conceptID)
	if err != nil {
		return nil, err
	}
	if concept == nil {
		return nil, fmt.Errorf("%w: concept %s", apperrors.ErrNotFound, conceptID)
	}

	if understood {
		if _, err := s.conceptRepo.SetUnderstood(dbc, conceptID, true); err != nil {
			return nil, err
		}
		return &ConceptFeedback{
			ID:           concept.ID,
			Name:         concept.ConceptName,
			IsUnderstood: true,
		}, nil
	}

	simpler, err := s.summarizer.ExplainConceptSimpler(ctx, concept)
	if err != nil {
		s.log.Warn("Simpler explanation generation failed", "concept_id", conceptID, "error", err)
		simpler = concept.Explanation
	}
	return &ConceptFeedback{
		ID:                 concept.ID,
		Name:               concept.ConceptName,
		IsUnderstood:       false,
		SimplerExplanation: simpler,
	}, nil
}

func (s *learningSessionService) GetChapterProgress(ctx context.Context, chapterID uuid.UUID) (*ChapterProgress, error) {
	dbc := dbctx.Context{Ctx: ctx}

	concepts, err := s.conceptRepo.GetByChapterID(dbc, chapterID)
	if err != nil {
		return nil, err
	}

	understood := 0
	statuses := make([]ConceptStatus, 0, len(concepts))
	for _, c := range concepts {
		if c.IsUnderstood {
			understood++
		}
		statuses = append(statuses, ConceptStatus{
			ID:           c.ID,
			Name:         c.ConceptName,
			IsUnderstood: c.IsUnderstood,
		})
	}

	percentage := 0.0
	if len(concepts) > 0 {
		percentage = float64(understood) / float64(len(concepts)) * 100
	}

	return &ChapterProgress{
		TotalConcepts:      len(concepts),
		UnderstoodConcepts: understood,
		ProgressPercentage: percentage,
		Concepts:           statuses,
	}, nil
}

// GetBookProgress recomputes everything from live rows. Completion is an
// orthogonal signal from understanding: a chapter is "completed" once it
// has been opened, whatever its concept percentage.
func (s *learningSessionService) GetBookProgress(ctx context.Context, bookID uuid.UUID) (*BookProgress, error) {
	dbc := dbctx.Context{Ctx: ctx}

	chapters, err := s.chapterRepo.GetByBookID(dbc, bookID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetByBookID(dbc, bookID)
	if err != nil {
		return nil, err
	}
	completed := map[uuid.UUID]struct{}{}
	if progress != nil {
		for _, id := range progress.CompletedList() {
			completed[id] = struct{}{}
		}
	}

	totalConcepts := 0
	totalUnderstood := 0
	standings := make([]ChapterStanding, 0, len(chapters))
	for _, ch := range chapters {
		stats, err := s.GetChapterProgress(ctx, ch.ID)
		if err != nil {
			return nil, err
		}
		totalConcepts += stats.TotalConcepts
		totalUnderstood += stats.UnderstoodConcepts

		_, isCompleted := completed[ch.ID]
		standings = append(standings, ChapterStanding{
			ChapterID:          ch.ID,
			ChapterTitle:       ch.Title,
			ChapterNumber:      ch.ChapterNumber,
			ProgressPercentage: stats.ProgressPercentage,
			IsCompleted:        isCompleted,
		})
	}

	overall := 0.0
	if totalConcepts > 0 {
		overall = float64(totalUnderstood) / float64(totalConcepts) * 100
	}

	return &BookProgress{
		BookID:            bookID,
		OverallProgress:   overall,
		TotalChapters:     len(chapters),
		CompletedChapters: len(completed),
		ChapterProgress:   standings,
	}, nil
}

// ResetChapterProgress clears every concept's understood flag and drops
// the chapter from its book's completed set. A missing chapter or
// progress row is a quiet no-op, not an error.
func (s *learningSessionService) ResetChapterProgress(ctx context.Context, chapterID uuid.UUID) (string, error) {
	dbc := dbctx.Context{Ctx: ctx}

	if err := s.conceptRepo.ResetByChapterID(dbc, chapterID); err != nil {
		return "", err
	}

	chapter, err := s.chapterRepo.GetByID(dbc, chapterID)
	if err != nil {
		return "", err
	}
	if chapter != nil {
		if _, err := s.progressRepo.RemoveCompleted(dbc, chapter.BookID, chapterID); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("Progress reset for chapter ID: %s", chapterID), nil
}
