package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/pkg/jsonextract"
	"github.com/yungbote/edusummarize-backend/internal/platform/genai"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

const (
	// Chapters longer than this are summarized chunk by chunk and the
	// partial summaries merged in a final pass.
	longChapterThreshold = 10000
	chunkSize            = 8000
	chunkOverlap         = 200
)

const summarySystemPrompt = `You are an educational AI assistant tasked with summarizing textbook chapters for students.`

const summaryPromptTemplate = `Please summarize the following chapter text in 300-500 words. For each key concept, provide:
1. A clear explanation of the concept.
2. A real-world application or example.
3. An analogy to make it relatable.

Format the output in the following way:

# CHAPTER SUMMARY
[Provide a high-level summary of the chapter in 2-3 paragraphs]

# KEY CONCEPTS

## [Concept Name 1]
- **Explanation**: [Clear explanation of the concept]
- **Example/Application**: [Real-world example or application]
- **Analogy**: [Simple analogy to help understand the concept]

[Continue for all key concepts, usually 4-6 concepts per chapter]

Chapter Text:
%s`

const chunkPromptTemplate = `Summarize this section of a textbook chapter, identifying key concepts, definitions, and examples. Focus on extracting the essential information.

Text section:
%s

Extract and summarize the main points and concepts from this section.`

const mergePromptTemplate = `You are an educational AI assistant tasked with creating a coherent final summary from partial summaries of a textbook chapter. Reorganize and synthesize the information into a comprehensive, well-structured summary.

For each key concept you identify, provide:
1. A clear explanation of the concept.
2. A real-world application or example.
3. An analogy to make it relatable.

Format the output in the following way:

# CHAPTER SUMMARY
[Provide a high-level summary of the chapter in 2-3 paragraphs]

# KEY CONCEPTS

## [Concept Name 1]
- **Explanation**: [Clear explanation of the concept]
- **Example/Application**: [Real-world example or application]
- **Analogy**: [Simple analogy to help understand the concept]

Partial summaries:
%s`

const conceptPromptTemplate = `Extract the key concepts from the following chapter summary. For each concept, provide:
1. The concept name
2. The explanation of the concept
3. The example or application
4. The analogy used

Format the output as JSON like this:
` + "```json" + `
[
    {
        "name": "Concept Name",
        "explanation": "Explanation text",
        "example": "Example text",
        "analogy": "Analogy text"
    }
]
` + "```" + `

Summary Text:
%s

Output only the JSON array. Do not include any other text, explanation or markdown formatting.`

const simplerPromptTemplate = `Explain the following concept in simpler terms, using a longer explanation (200-300 words) and a new analogy. Make it easy to understand for a beginner who has no prior knowledge of the subject. Use simple language, avoid jargon, and break down complex ideas into smaller parts.

Concept: %s
Original explanation: %s
Example: %s
Analogy: %s

Provide:
1. A simpler explanation (200-300 words)
2. A new, more relatable analogy
3. A step-by-step example if applicable`

// ConceptDraft is a generator-extracted concept before persistence.
type ConceptDraft struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
	Example     string `json:"example"`
	Analogy     string `json:"analogy"`
}

type SummarizerService interface {
	SummarizeChapter(ctx context.Context, chapterText string) (string, error)
	// ExtractConcepts absorbs generation and parse failures: it returns
	// an empty slice and logs rather than erroring, so a session can
	// proceed with a summary and no concepts.
	ExtractConcepts(ctx context.Context, summaryText string) []ConceptDraft
	ExplainConceptSimpler(ctx context.Context, concept *domain.Concept) (string, error)
}

type summarizerService struct {
	log    *logger.Logger
	client genai.Client
}

func NewSummarizerService(client genai.Client, baseLog *logger.Logger) SummarizerService {
	return &summarizerService{
		log:    baseLog.With("service", "SummarizerService"),
		client: client,
	}
}

func (s *summarizerService) SummarizeChapter(ctx context.Context, chapterText string) (string, error) {
	if len(chapterText) > longChapterThreshold {
		return s.summarizeLongChapter(ctx, chapterText)
	}

	summary, err := s.client.GenerateText(ctx, summarySystemPrompt, fmt.Sprintf(summaryPromptTemplate, chapterText))
	if err != nil {
		return "", fmt.Errorf("summarize chapter: %w", err)
	}
	return summary, nil
}

func (s *summarizerService) summarizeLongChapter(ctx context.Context, chapterText string) (string, error) {
	chunks := splitText(chapterText, chunkSize, chunkOverlap)
	s.log.Info("Chapter is long, splitting into chunks", "chunks", len(chunks))

	chunkSummaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := s.client.GenerateText(ctx, summarySystemPrompt, fmt.Sprintf(chunkPromptTemplate, chunk))
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		chunkSummaries = append(chunkSummaries, summary)
	}

	combined := strings.Join(chunkSummaries, "\n\n")
	final, err := s.client.GenerateText(ctx, summarySystemPrompt, fmt.Sprintf(mergePromptTemplate, combined))
	if err != nil {
		return "", fmt.Errorf("merge chunk summaries: %w", err)
	}
	return final, nil
}

func (s *summarizerService) ExtractConcepts(ctx context.Context, summaryText string) []ConceptDraft {
	raw, err := s.client.GenerateText(ctx, summarySystemPrompt, fmt.Sprintf(conceptPromptTemplate, summaryText))
	if err != nil {
		s.log.Warn("Concept extraction generation failed", "error", err)
		return []ConceptDraft{}
	}

	var drafts []ConceptDraft
	if err := jsonextract.Array(raw, &drafts); err != nil {
		s.log.Warn("Concept extraction output unparseable", "error", err)
		return []ConceptDraft{}
	}

	out := drafts[:0]
	for _, d := range drafts {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *summarizerService) ExplainConceptSimpler(ctx context.Context, concept *domain.Concept) (string, error) {
	user := fmt.Sprintf(simplerPromptTemplate,
		concept.ConceptName,
		concept.Explanation,
		concept.Example,
		concept.Analogy,
	)
	explanation, err := s.client.GenerateText(ctx, summarySystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("simpler explanation: %w", err)
	}
	return strings.TrimSpace(explanation), nil
}

// splitText cuts text into size-bounded chunks with a small overlap so
// sentences spanning a boundary appear in both chunks.
func splitText(text string, size, overlap int) []string {
	if len(text) <= size {
		return []string{text}
	}
	var chunks []string
	step := size - overlap
	for start := 0; start < len(text); start += step {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
