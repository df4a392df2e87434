package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/edusummarize-backend/internal/domain"
)

func SeedBook(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Book {
	tb.Helper()
	b := &domain.Book{
		ID:       uuid.New(),
		Title:    title,
		Author:   "Author",
		FilePath: "/tmp/" + title + ".pdf",
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	return b
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, bookID uuid.UUID, number int) *domain.Chapter {
	tb.Helper()
	c := &domain.Chapter{
		ID:            uuid.New(),
		BookID:        bookID,
		ChapterNumber: number,
		Title:         fmt.Sprintf("Chapter %d", number),
		Content:       fmt.Sprintf("Content of chapter %d.", number),
		StartPage:     number * 10,
		EndPage:       number*10 + 9,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return c
}

func SeedSummary(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) *domain.Summary {
	tb.Helper()
	s := &domain.Summary{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		SummaryText: "summary text",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed summary: %v", err)
	}
	return s
}

func SeedConcept(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, name string) *domain.Concept {
	tb.Helper()
	c := &domain.Concept{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		ConceptName: name,
		Explanation: "explanation of " + name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed concept: %v", err)
	}
	return c
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, bookID uuid.UUID, completed []uuid.UUID) *domain.UserProgress {
	tb.Helper()
	p := &domain.UserProgress{
		ID:     uuid.New(),
		BookID: bookID,
	}
	if err := p.SetCompletedList(completed); err != nil {
		tb.Fatalf("encode completed list: %v", err)
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func SeedMalformedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, bookID uuid.UUID) *domain.UserProgress {
	tb.Helper()
	p := &domain.UserProgress{
		ID:                uuid.New(),
		BookID:            bookID,
		CompletedChapters: datatypes.JSON([]byte("{not valid json")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed malformed progress: %v", err)
	}
	return p
}
