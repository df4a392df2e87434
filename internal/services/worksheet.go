package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/data/repos"
	"github.com/yungbote/edusummarize-backend/internal/domain"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/pkg/jsonextract"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
	"github.com/yungbote/edusummarize-backend/internal/platform/genai"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
	"github.com/yungbote/edusummarize-backend/internal/render"
)

const worksheetSystemPrompt = `You are an educational AI assistant tasked with creating a practice worksheet for students.`

const worksheetPromptTemplate = `Based on the following chapter summary and concepts, generate a comprehensive worksheet with:

1. 20 Multiple-Choice Questions (MCQs) with 4 options each. Include the correct answer.
2. 10 One-Word or One-Liner Questions. Include answers.
3. 10 Brief Question-Answers (50-100 words each).
4. 10 Match-the-Column Questions (two columns, 10 pairs). Include the correct matches.

Ensure questions cover all key concepts and vary in difficulty (easy, medium, and hard).
Format the output in a clear, structured JSON format like this:

` + "```json" + `
{
    "mcqs": [
        {
            "question": "Question text?",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "answer": "Option A"
        }
    ],
    "one_liners": [
        {
            "question": "Question text?",
            "answer": "Answer text"
        }
    ],
    "brief_qa": [
        {
            "question": "Question text?",
            "answer": "Detailed answer (50-100 words)"
        }
    ],
    "match_columns": {
        "column1": ["Item 1", "Item 2"],
        "column2": ["Match 1", "Match 2"],
        "matches": {
            "Item 1": "Match 1",
            "Item 2": "Match 2"
        }
    }
}
` + "```" + `

Chapter Summary and Concepts:
%s

Output only the JSON. Do not include any other text, explanation or markdown formatting.`

var unsafeFilenameRe = regexp.MustCompile(`[^\w\s-]`)

type WorksheetView struct {
	ChapterID    uuid.UUID              `json:"chapter_id"`
	Content      domain.WorksheetContent `json:"content"`
	WorksheetURL string                 `json:"worksheet_url,omitempty"`
	AnswerKeyURL string                 `json:"answer_key_url,omitempty"`
}

type WorksheetService interface {
	GenerateWorksheet(ctx context.Context, chapterID uuid.UUID) (*WorksheetView, error)
	GetWorksheet(ctx context.Context, chapterID uuid.UUID) (*WorksheetView, error)
}

type worksheetService struct {
	log           *logger.Logger
	client        genai.Client
	renderer      *render.Renderer
	artifacts     ArtifactStore
	chapterRepo   repos.ChapterRepo
	summaryRepo   repos.SummaryRepo
	conceptRepo   repos.ConceptRepo
	worksheetRepo repos.WorksheetRepo
}

func NewWorksheetService(
	baseLog *logger.Logger,
	client genai.Client,
	renderer *render.Renderer,
	artifacts ArtifactStore,
	chapterRepo repos.ChapterRepo,
	summaryRepo repos.SummaryRepo,
	conceptRepo repos.ConceptRepo,
	worksheetRepo repos.WorksheetRepo,
) WorksheetService {
	return &worksheetService{
		log:           baseLog.With("service", "WorksheetService"),
		client:        client,
		renderer:      renderer,
		artifacts:     artifacts,
		chapterRepo:   chapterRepo,
		summaryRepo:   summaryRepo,
		conceptRepo:   conceptRepo,
		worksheetRepo: worksheetRepo,
	}
}

// GenerateWorksheet builds exercises for a chapter from its summary and
// concepts, renders worksheet and answer-key artifacts, and upserts the
// stored row. Unparseable generator output degrades to an empty
// exercise set rather than failing the request.
func (s *worksheetService) GenerateWorksheet(ctx context.Context, chapterID uuid.UUID) (*WorksheetView, error) {
	dbc := dbctx.Context{Ctx: ctx}

	chapter, err := s.chapterRepo.GetByID(dbc, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, fmt.Errorf("%w: chapter %s", apperrors.ErrNotFound, chapterID)
	}

	source, err := s.sourceText(dbc, chapter)
	if err != nil {
		return nil, err
	}

	content := s.generateContent(ctx, source)

	worksheetURL, answerKeyURL := s.renderArtifacts(ctx, chapter.Title, content)

	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode worksheet content: %w", err)
	}
	if _, err := s.worksheetRepo.Upsert(dbc, &domain.Worksheet{
		ChapterID:     chapterID,
		WorksheetData: data,
		WorksheetURL:  worksheetURL,
		AnswerKeyURL:  answerKeyURL,
	}); err != nil {
		return nil, err
	}

	return &WorksheetView{
		ChapterID:    chapterID,
		Content:      content,
		WorksheetURL: worksheetURL,
		AnswerKeyURL: answerKeyURL,
	}, nil
}

func (s *worksheetService) GetWorksheet(ctx context.Context, chapterID uuid.UUID) (*WorksheetView, error) {
	dbc := dbctx.Context{Ctx: ctx}

	worksheet, err := s.worksheetRepo.GetByChapterID(dbc, chapterID)
	if err != nil {
		return nil, err
	}
	if worksheet == nil {
		return nil, fmt.Errorf("%w: worksheet for chapter %s", apperrors.ErrNotFound, chapterID)
	}

	content := domain.EmptyWorksheetContent()
	if len(worksheet.WorksheetData) > 0 {
		if err := json.Unmarshal(worksheet.WorksheetData, &content); err != nil {
			s.log.Warn("Stored worksheet data unparseable", "chapter_id", chapterID, "error", err)
			content = domain.EmptyWorksheetContent()
		}
	}

	return &WorksheetView{
		ChapterID:    chapterID,
		Content:      content,
		WorksheetURL: worksheet.WorksheetURL,
		AnswerKeyURL: worksheet.AnswerKeyURL,
	}, nil
}

// sourceText prefers the generated summary and falls back to raw
// chapter content when no summary exists yet. Stored concepts are
// appended so exercises cover them.
func (s *worksheetService) sourceText(dbc dbctx.Context, chapter *domain.Chapter) (string, error) {
	text := chapter.Content
	summary, err := s.summaryRepo.GetByChapterID(dbc, chapter.ID)
	if err != nil {
		return "", err
	}
	if summary != nil {
		text = summary.SummaryText
	}

	concepts, err := s.conceptRepo.GetByChapterID(dbc, chapter.ID)
	if err != nil {
		return "", err
	}
	if len(concepts) == 0 {
		return text, nil
	}

	parts := make([]string, 0, len(concepts))
	for _, c := range concepts {
		parts = append(parts, fmt.Sprintf(
			"Concept: %s\nExplanation: %s\nExample: %s\nAnalogy: %s",
			c.ConceptName, c.Explanation, c.Example, c.Analogy,
		))
	}
	return text + "\n\nKEY CONCEPTS:\n" + strings.Join(parts, "\n\n"), nil
}

func (s *worksheetService) generateContent(ctx context.Context, source string) domain.WorksheetContent {
	raw, err := s.client.GenerateText(ctx, worksheetSystemPrompt, fmt.Sprintf(worksheetPromptTemplate, source))
	if err != nil {
		s.log.Warn("Worksheet generation failed", "error", err)
		return domain.EmptyWorksheetContent()
	}

	var content domain.WorksheetContent
	if err := jsonextract.Object(raw, &content); err != nil {
		s.log.Warn("Worksheet output unparseable", "error", err)
		return domain.EmptyWorksheetContent()
	}
	return content
}

// renderArtifacts draws and stores the worksheet pair. Rendering and
// storage are best effort: a missing renderer or store, or a failure in
// either, leaves the URLs empty while the content row is still saved.
func (s *worksheetService) renderArtifacts(ctx context.Context, chapterTitle string, content domain.WorksheetContent) (string, string) {
	if s.renderer == nil || s.artifacts == nil {
		s.log.Debug("Artifact rendering disabled")
		return "", ""
	}

	safeTitle := safeFilename(chapterTitle)

	worksheetURL := s.renderOne(ctx, safeTitle+"_worksheet.png", func() ([]byte, error) {
		return s.renderer.RenderWorksheet(chapterTitle, content)
	})
	answerKeyURL := s.renderOne(ctx, safeTitle+"_answer_key.png", func() ([]byte, error) {
		return s.renderer.RenderAnswerKey(chapterTitle, content)
	})
	return worksheetURL, answerKeyURL
}

func (s *worksheetService) renderOne(ctx context.Context, key string, draw func() ([]byte, error)) string {
	data, err := draw()
	if err != nil {
		s.log.Warn("Artifact rendering failed", "key", key, "error", err)
		return ""
	}
	url, err := s.artifacts.Save(ctx, key, data)
	if err != nil {
		s.log.Warn("Artifact storage failed", "key", key, "error", err)
		return ""
	}
	return url
}

func safeFilename(title string) string {
	cleaned := unsafeFilenameRe.ReplaceAllString(title, "")
	return strings.ReplaceAll(strings.TrimSpace(cleaned), " ", "_")
}
