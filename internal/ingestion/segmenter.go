package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

// DefaultChapterPattern matches textbook chapter headings with an arabic
// or Roman numeral identifier.
const DefaultChapterPattern = `(?:Chapter|CHAPTER)\s+(\d+|[IVXLCDM]+)`

var pageMarkerRe = regexp.MustCompile(`\[PAGE_(\d+)\]\n`)

// PageRange is an inclusive pair of zero-based page indices.
type PageRange struct {
	Start int
	End   int
}

type Segmenter struct {
	log *logger.Logger
}

func NewSegmenter(baseLog *logger.Logger) *Segmenter {
	return &Segmenter{log: baseLog.With("component", "Segmenter")}
}

// Segment splits ordered page texts into labeled chapters.
//
// With customRanges, each valid range becomes a chapter of newline-joined
// pages; invalid entries are skipped. Otherwise pages are joined with
// positional markers and scanned with pattern: each heading match opens a
// chapter running to the next match. A repeated chapter identifier in the
// source (a table of contents entry, say) overwrites the earlier span
// under the same label; that mirrors the source text and is left as is.
func (s *Segmenter) Segment(pages []string, pattern string, customRanges map[string]PageRange) (map[string]string, error) {
	if customRanges != nil {
		return s.segmentByRanges(pages, customRanges), nil
	}

	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultChapterPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: chapter pattern %q: %v", apperrors.ErrInvalidArgument, pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%w: chapter pattern %q has no capture group", apperrors.ErrInvalidArgument, pattern)
	}

	marked := make([]string, len(pages))
	for i, text := range pages {
		marked[i] = fmt.Sprintf("[PAGE_%d]\n%s", i, text)
	}
	fullText := strings.Join(marked, "\n")

	matches := re.FindAllStringSubmatchIndex(fullText, -1)
	if len(matches) == 0 {
		s.log.Warn("No chapters detected, treating document as a single chapter")
		return map[string]string{"Chapter 1": strings.Join(pages, "\n")}, nil
	}

	chapters := make(map[string]string, len(matches))
	for i, m := range matches {
		label := "Chapter " + fullText[m[2]:m[3]]
		start := m[0]
		end := len(fullText)
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}
		chapters[label] = rewritePageMarkers(fullText[start:end])
	}
	s.log.Info("Chapters extracted", "count", len(chapters))
	return chapters, nil
}

func (s *Segmenter) segmentByRanges(pages []string, ranges map[string]PageRange) map[string]string {
	chapters := make(map[string]string, len(ranges))
	for label, r := range ranges {
		if r.Start < 0 || r.End >= len(pages) || r.Start > r.End {
			s.log.Warn("Invalid page range, skipping chapter",
				"chapter", label,
				"start", r.Start,
				"end", r.End,
				"page_count", len(pages),
			)
			continue
		}
		chapters[label] = strings.Join(pages[r.Start:r.End+1], "\n")
	}
	return chapters
}

func rewritePageMarkers(text string) string {
	return pageMarkerRe.ReplaceAllString(text, "\nPage $1:\n")
}
