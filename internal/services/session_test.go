package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/data/repos"
	"github.com/yungbote/edusummarize-backend/internal/data/repos/testutil"
	"github.com/yungbote/edusummarize-backend/internal/domain"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
)

type stubSummarizer struct {
	summary        string
	summarizeErr   error
	summarizeCalls int

	drafts       []ConceptDraft
	extractCalls int

	simpler    string
	simplerErr error
}

func (s *stubSummarizer) SummarizeChapter(ctx context.Context, chapterText string) (string, error) {
	s.summarizeCalls++
	if s.summarizeErr != nil {
		return "", s.summarizeErr
	}
	return s.summary, nil
}

func (s *stubSummarizer) ExtractConcepts(ctx context.Context, summaryText string) []ConceptDraft {
	s.extractCalls++
	return s.drafts
}

func (s *stubSummarizer) ExplainConceptSimpler(ctx context.Context, concept *domain.Concept) (string, error) {
	if s.simplerErr != nil {
		return "", s.simplerErr
	}
	return s.simpler, nil
}

func newSessionService(tb testing.TB, tx *gorm.DB, summarizer SummarizerService) LearningSessionService {
	tb.Helper()
	log := testutil.Logger(tb)
	return NewLearningSessionService(
		log,
		summarizer,
		repos.NewChapterRepo(tx, log),
		repos.NewSummaryRepo(tx, log),
		repos.NewConceptRepo(tx, log),
		repos.NewUserProgressRepo(tx, log),
	)
}

func TestStartSessionUnknownChapter(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newSessionService(t, tx, &stubSummarizer{})

	_, err := svc.StartSession(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStartSessionGeneratesOnce(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "physics")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	summarizer := &stubSummarizer{
		summary: "generated summary",
		drafts: []ConceptDraft{
			{Name: "Inertia", Explanation: "e1", Example: "x1", Analogy: "a1"},
			{Name: "Momentum", Explanation: "e2", Example: "x2", Analogy: "a2"},
		},
	}
	svc := newSessionService(t, tx, summarizer)

	view, err := svc.StartSession(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if view.Summary != "generated summary" {
		t.Fatalf("summary = %q", view.Summary)
	}
	if len(view.Concepts) != 2 {
		t.Fatalf("concepts = %d, want 2", len(view.Concepts))
	}
	if view.Chapter.ID != chapter.ID || view.Chapter.Number != 1 {
		t.Fatalf("chapter ref = %+v", view.Chapter)
	}

	var reloaded domain.Chapter
	if err := tx.First(&reloaded, "id = ?", chapter.ID).Error; err != nil {
		t.Fatalf("reload chapter: %v", err)
	}
	if !reloaded.IsProcessed {
		t.Fatalf("chapter not marked processed")
	}

	// The first visit only creates the progress row; the chapter is not
	// completed yet.
	var progress domain.UserProgress
	if err := tx.First(&progress, "book_id = ?", book.ID).Error; err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if progress.HasCompleted(chapter.ID) {
		t.Fatalf("chapter completed on first visit")
	}
	if progress.LastChapterID == nil || *progress.LastChapterID != chapter.ID {
		t.Fatalf("last chapter pointer not set")
	}

	// A second visit serves the stored summary and concepts and marks the
	// chapter completed.
	view2, err := svc.StartSession(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("StartSession again: %v", err)
	}
	if summarizer.summarizeCalls != 1 || summarizer.extractCalls != 1 {
		t.Fatalf("generation ran again: summarize=%d extract=%d", summarizer.summarizeCalls, summarizer.extractCalls)
	}
	if len(view2.Concepts) != 2 || view2.Summary != "generated summary" {
		t.Fatalf("second view = %+v", view2)
	}
	if err := tx.First(&progress, "book_id = ?", book.ID).Error; err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if !progress.HasCompleted(chapter.ID) {
		t.Fatalf("chapter not in completed set after second visit")
	}
}

func TestStartSessionSummaryFailureAborts(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "history")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	summarizer := &stubSummarizer{summarizeErr: fmt.Errorf("generator down")}
	svc := newSessionService(t, tx, summarizer)

	if _, err := svc.StartSession(ctx, chapter.ID); err == nil {
		t.Fatalf("expected error")
	}

	var count int64
	if err := tx.Model(&domain.Summary{}).Where("chapter_id = ?", chapter.ID).Count(&count).Error; err != nil {
		t.Fatalf("count summaries: %v", err)
	}
	if count != 0 {
		t.Fatalf("summary persisted despite failure")
	}
}

func TestStartSessionConceptFailureNotRetried(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "biology")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	// Extraction yields nothing; the summary still sticks.
	summarizer := &stubSummarizer{summary: "stuck summary"}
	svc := newSessionService(t, tx, summarizer)

	view, err := svc.StartSession(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if view.Summary != "stuck summary" || len(view.Concepts) != 0 {
		t.Fatalf("view = %+v", view)
	}

	// The stored summary gates regeneration, so extraction is not retried.
	if _, err := svc.StartSession(ctx, chapter.ID); err != nil {
		t.Fatalf("StartSession again: %v", err)
	}
	if summarizer.extractCalls != 1 {
		t.Fatalf("extractCalls = %d, want 1", summarizer.extractCalls)
	}
}

func TestProcessConceptUnderstandingPersistsPositive(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "chem")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	concept := testutil.SeedConcept(t, ctx, tx, chapter.ID, "Bonding")

	svc := newSessionService(t, tx, &stubSummarizer{simpler: "much simpler"})

	feedback, err := svc.ProcessConceptUnderstanding(ctx, concept.ID, true)
	if err != nil {
		t.Fatalf("ProcessConceptUnderstanding: %v", err)
	}
	if !feedback.IsUnderstood || feedback.SimplerExplanation != "" {
		t.Fatalf("feedback = %+v", feedback)
	}

	var reloaded domain.Concept
	if err := tx.First(&reloaded, "id = ?", concept.ID).Error; err != nil {
		t.Fatalf("reload concept: %v", err)
	}
	if !reloaded.IsUnderstood {
		t.Fatalf("flag not persisted")
	}

	// A later "not understood" answer does not regress the stored flag.
	feedback, err = svc.ProcessConceptUnderstanding(ctx, concept.ID, false)
	if err != nil {
		t.Fatalf("ProcessConceptUnderstanding(false): %v", err)
	}
	if feedback.IsUnderstood || feedback.SimplerExplanation != "much simpler" {
		t.Fatalf("feedback = %+v", feedback)
	}
	if err := tx.First(&reloaded, "id = ?", concept.ID).Error; err != nil {
		t.Fatalf("reload concept: %v", err)
	}
	if !reloaded.IsUnderstood {
		t.Fatalf("stored flag regressed")
	}
}

func TestProcessConceptUnderstandingAbsorbsGenerationFailure(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "math")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	concept := testutil.SeedConcept(t, ctx, tx, chapter.ID, "Limits")

	svc := newSessionService(t, tx, &stubSummarizer{simplerErr: fmt.Errorf("generator down")})

	feedback, err := svc.ProcessConceptUnderstanding(ctx, concept.ID, false)
	if err != nil {
		t.Fatalf("ProcessConceptUnderstanding: %v", err)
	}
	if feedback.IsUnderstood {
		t.Fatalf("feedback = %+v", feedback)
	}
	// A failed generation call falls back to the stored explanation.
	if feedback.SimplerExplanation != concept.Explanation {
		t.Fatalf("simpler = %q, want original explanation", feedback.SimplerExplanation)
	}
}

func TestProcessConceptUnderstandingUnknownConcept(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newSessionService(t, tx, &stubSummarizer{})

	_, err := svc.ProcessConceptUnderstanding(context.Background(), uuid.New(), true)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetChapterProgressEmptyChapter(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "empty")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	svc := newSessionService(t, tx, &stubSummarizer{})

	progress, err := svc.GetChapterProgress(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("GetChapterProgress: %v", err)
	}
	if progress.TotalConcepts != 0 || progress.ProgressPercentage != 0 {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestGetChapterProgressCounts(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "counts")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	understood := testutil.SeedConcept(t, ctx, tx, chapter.ID, "A")
	testutil.SeedConcept(t, ctx, tx, chapter.ID, "B")
	testutil.SeedConcept(t, ctx, tx, chapter.ID, "C")
	testutil.SeedConcept(t, ctx, tx, chapter.ID, "D")
	if err := tx.Model(understood).Update("is_understood", true).Error; err != nil {
		t.Fatalf("mark understood: %v", err)
	}

	svc := newSessionService(t, tx, &stubSummarizer{})

	progress, err := svc.GetChapterProgress(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("GetChapterProgress: %v", err)
	}
	if progress.TotalConcepts != 4 || progress.UnderstoodConcepts != 1 {
		t.Fatalf("progress = %+v", progress)
	}
	if progress.ProgressPercentage != 25 {
		t.Fatalf("percentage = %v, want 25", progress.ProgressPercentage)
	}
}

func TestGetBookProgressCompletionOrthogonalToUnderstanding(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "orthogonal")
	ch1 := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	ch2 := testutil.SeedChapter(t, ctx, tx, book.ID, 2)
	testutil.SeedConcept(t, ctx, tx, ch1.ID, "A")
	testutil.SeedConcept(t, ctx, tx, ch1.ID, "B")
	understood := testutil.SeedConcept(t, ctx, tx, ch2.ID, "C")
	testutil.SeedConcept(t, ctx, tx, ch2.ID, "D")
	if err := tx.Model(understood).Update("is_understood", true).Error; err != nil {
		t.Fatalf("mark understood: %v", err)
	}
	// Chapter 1 was opened but nothing in it is understood yet.
	testutil.SeedProgress(t, ctx, tx, book.ID, []uuid.UUID{ch1.ID})

	svc := newSessionService(t, tx, &stubSummarizer{})

	progress, err := svc.GetBookProgress(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBookProgress: %v", err)
	}
	if progress.TotalChapters != 2 || progress.CompletedChapters != 1 {
		t.Fatalf("progress = %+v", progress)
	}
	if progress.OverallProgress != 25 {
		t.Fatalf("overall = %v, want 25", progress.OverallProgress)
	}

	byID := map[uuid.UUID]ChapterStanding{}
	for _, st := range progress.ChapterProgress {
		byID[st.ChapterID] = st
	}
	if st := byID[ch1.ID]; !st.IsCompleted || st.ProgressPercentage != 0 {
		t.Fatalf("chapter 1 standing = %+v", st)
	}
	if st := byID[ch2.ID]; st.IsCompleted || st.ProgressPercentage != 50 {
		t.Fatalf("chapter 2 standing = %+v", st)
	}
}

func TestGetBookProgressNoChapters(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "bare")

	svc := newSessionService(t, tx, &stubSummarizer{})

	progress, err := svc.GetBookProgress(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBookProgress: %v", err)
	}
	if progress.OverallProgress != 0 || progress.TotalChapters != 0 {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestResetChapterProgress(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	book := testutil.SeedBook(t, ctx, tx, "reset")
	chapter := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	understood := testutil.SeedConcept(t, ctx, tx, chapter.ID, "A")
	if err := tx.Model(understood).Update("is_understood", true).Error; err != nil {
		t.Fatalf("mark understood: %v", err)
	}
	testutil.SeedProgress(t, ctx, tx, book.ID, []uuid.UUID{chapter.ID})

	svc := newSessionService(t, tx, &stubSummarizer{})

	msg, err := svc.ResetChapterProgress(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("ResetChapterProgress: %v", err)
	}
	if want := fmt.Sprintf("Progress reset for chapter ID: %s", chapter.ID); msg != want {
		t.Fatalf("msg = %q, want %q", msg, want)
	}

	var reloaded domain.Concept
	if err := tx.First(&reloaded, "id = ?", understood.ID).Error; err != nil {
		t.Fatalf("reload concept: %v", err)
	}
	if reloaded.IsUnderstood {
		t.Fatalf("understanding flag survived reset")
	}

	var progress domain.UserProgress
	if err := tx.First(&progress, "book_id = ?", book.ID).Error; err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if progress.HasCompleted(chapter.ID) {
		t.Fatalf("chapter still in completed set")
	}
}

func TestResetChapterProgressUnknownChapterNoError(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newSessionService(t, tx, &stubSummarizer{})

	id := uuid.New()
	msg, err := svc.ResetChapterProgress(context.Background(), id)
	if err != nil {
		t.Fatalf("ResetChapterProgress: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected confirmation message")
	}
}
