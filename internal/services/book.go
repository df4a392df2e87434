package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/data/repos"
	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/ingestion"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type IngestBookInput struct {
	Title        string
	Author       string
	FilePath     string
	Pattern      string
	CustomRanges map[string]ingestion.PageRange
	Source       ingestion.PageSource
}

type BookService interface {
	IngestBook(ctx context.Context, input IngestBookInput) (*domain.Book, []*domain.Chapter, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	GetChapters(ctx context.Context, bookID uuid.UUID) ([]*domain.Chapter, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

type bookService struct {
	log         *logger.Logger
	segmenter   *ingestion.Segmenter
	bookRepo    repos.BookRepo
	chapterRepo repos.ChapterRepo
}

func NewBookService(
	baseLog *logger.Logger,
	segmenter *ingestion.Segmenter,
	bookRepo repos.BookRepo,
	chapterRepo repos.ChapterRepo,
) BookService {
	return &bookService{
		log:         baseLog.With("service", "BookService"),
		segmenter:   segmenter,
		bookRepo:    bookRepo,
		chapterRepo: chapterRepo,
	}
}

// IngestBook extracts pages from the source, segments them into
// chapters, and persists the book with its chapters. A page-source
// failure aborts the whole ingestion.
func (s *bookService) IngestBook(ctx context.Context, input IngestBookInput) (*domain.Book, []*domain.Chapter, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, fmt.Errorf("%w: title required", apperrors.ErrInvalidArgument)
	}
	if input.Source == nil {
		return nil, nil, fmt.Errorf("%w: page source required", apperrors.ErrInvalidArgument)
	}

	pages, err := input.Source.Pages(ctx)
	if err != nil {
		return nil, nil, err
	}

	chapterTexts, err := s.segmenter.Segment(pages, input.Pattern, input.CustomRanges)
	if err != nil {
		return nil, nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.bookRepo.Create(dbc, &domain.Book{
		Title:         input.Title,
		Author:        input.Author,
		FilePath:      input.FilePath,
		TotalChapters: len(chapterTexts),
	})
	if err != nil {
		return nil, nil, err
	}

	chapters := make([]*domain.Chapter, 0, len(chapterTexts))
	for label, text := range chapterTexts {
		chapter := &domain.Chapter{
			BookID:        book.ID,
			ChapterNumber: chapterNumberFromLabel(label),
			Title:         label,
			Content:       text,
		}
		if r, ok := input.CustomRanges[label]; ok {
			chapter.StartPage = r.Start
			chapter.EndPage = r.End
		}
		chapters = append(chapters, chapter)
	}
	if _, err := s.chapterRepo.Create(dbc, chapters); err != nil {
		return nil, nil, err
	}

	ordered, err := s.chapterRepo.GetByBookID(dbc, book.ID)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("Book ingested", "book_id", book.ID, "chapters", len(ordered))
	return book, ordered, nil
}

func (s *bookService) GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(dbctx.Context{Ctx: ctx}, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: book %s", apperrors.ErrNotFound, bookID)
	}
	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.bookRepo.GetAll(dbctx.Context{Ctx: ctx})
}

func (s *bookService) GetChapters(ctx context.Context, bookID uuid.UUID) ([]*domain.Chapter, error) {
	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.bookRepo.GetByID(dbc, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: book %s", apperrors.ErrNotFound, bookID)
	}
	return s.chapterRepo.GetByBookID(dbc, bookID)
}

func (s *bookService) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	book, err := s.bookRepo.GetByID(dbc, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return fmt.Errorf("%w: book %s", apperrors.ErrNotFound, bookID)
	}
	return s.bookRepo.Delete(dbc, bookID)
}

// chapterNumberFromLabel pulls the numeric identifier out of a label
// like "Chapter 12". Roman numerals and free-form labels fall back to 1.
func chapterNumberFromLabel(label string) int {
	trimmed := strings.TrimSpace(label)
	trimmed = strings.TrimPrefix(trimmed, "Chapter")
	trimmed = strings.TrimPrefix(trimmed, "CHAPTER")
	if n, err := strconv.Atoi(strings.TrimSpace(trimmed)); err == nil {
		return n
	}
	return 1
}
