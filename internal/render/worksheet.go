package render

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/yungbote/edusummarize-backend/internal/domain"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

const (
	pageWidth  = 1240
	marginX    = 80.0
	marginY    = 90.0
	lineGap    = 10.0
	sectionGap = 36.0
)

// Renderer draws worksheet and answer-key PNG artifacts. Artifacts are
// opaque blobs to the rest of the system; only their references are
// persisted.
type Renderer struct {
	log         *logger.Logger
	titleFace   font.Face
	headingFace font.Face
	bodyFace    font.Face
}

func NewRenderer(baseLog *logger.Logger) (*Renderer, error) {
	serviceLog := baseLog.With("service", "WorksheetRenderer")

	fontPath := strings.TrimSpace(os.Getenv("WORKSHEET_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("Env var WORKSHEET_FONT is empty")
	}
	serviceLog.Info("Loading worksheet font", "font", fontPath)

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(parsedFont, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}

	return &Renderer{
		log:         serviceLog,
		titleFace:   face(42),
		headingFace: face(30),
		bodyFace:    face(22),
	}, nil
}

type block struct {
	face font.Face
	text string
}

// RenderWorksheet draws the exercises without answers.
func (r *Renderer) RenderWorksheet(title string, content domain.WorksheetContent) ([]byte, error) {
	return r.render(title+" - Worksheet", r.worksheetBlocks(content, false))
}

// RenderAnswerKey draws the same exercises with answers filled in.
func (r *Renderer) RenderAnswerKey(title string, content domain.WorksheetContent) ([]byte, error) {
	return r.render(title+" - Answer Key", r.worksheetBlocks(content, true))
}

func (r *Renderer) worksheetBlocks(content domain.WorksheetContent, withAnswers bool) []block {
	var blocks []block
	heading := func(text string) {
		blocks = append(blocks, block{face: r.headingFace, text: text})
	}
	body := func(format string, args ...any) {
		blocks = append(blocks, block{face: r.bodyFace, text: fmt.Sprintf(format, args...)})
	}

	if len(content.MCQs) > 0 {
		heading("Multiple Choice Questions")
		for i, q := range content.MCQs {
			body("%d. %s", i+1, q.Question)
			for j, opt := range q.Options {
				body("    %c) %s", 'a'+j, opt)
			}
			if withAnswers {
				body("    Answer: %s", q.Answer)
			}
		}
	}

	if len(content.OneLiners) > 0 {
		heading("One-Line Answers")
		for i, q := range content.OneLiners {
			body("%d. %s", i+1, q.Question)
			if withAnswers {
				body("    Answer: %s", q.Answer)
			} else {
				body("    ____________________________")
			}
		}
	}

	if len(content.BriefQA) > 0 {
		heading("Brief Questions")
		for i, q := range content.BriefQA {
			body("%d. %s", i+1, q.Question)
			if withAnswers {
				body("    Answer: %s", q.Answer)
			}
		}
	}

	if len(content.MatchColumns.Column1) > 0 {
		heading("Match the Columns")
		for i, left := range content.MatchColumns.Column1 {
			right := ""
			if i < len(content.MatchColumns.Column2) {
				right = content.MatchColumns.Column2[i]
			}
			body("%d. %s        |        %s", i+1, left, right)
		}
		if withAnswers {
			body("Answers:")
			for _, left := range content.MatchColumns.Column1 {
				if right, ok := content.MatchColumns.Matches[left]; ok {
					body("    %s -> %s", left, right)
				}
			}
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, block{face: r.bodyFace, text: "No exercises were generated for this chapter."})
	}
	return blocks
}

func (r *Renderer) render(title string, blocks []block) ([]byte, error) {
	maxWidth := float64(pageWidth) - 2*marginX

	// First pass measures wrapped lines to size the canvas.
	measure := gg.NewContext(pageWidth, 1)
	height := 2 * marginY
	layout := make([][]string, 0, len(blocks)+1)
	faces := make([]font.Face, 0, len(blocks)+1)

	addBlock := func(face font.Face, text string, gap float64) {
		measure.SetFontFace(face)
		lines := measure.WordWrap(text, maxWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
		layout = append(layout, lines)
		faces = append(faces, face)
		lineHeight := measure.FontHeight() + lineGap
		height += float64(len(lines))*lineHeight + gap
	}

	addBlock(r.titleFace, title, sectionGap)
	for _, b := range blocks {
		gap := lineGap
		if b.face == r.headingFace {
			gap = sectionGap
		}
		addBlock(b.face, b.text, gap)
	}

	dc := gg.NewContext(pageWidth, int(height))
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	y := marginY
	for i, lines := range layout {
		dc.SetFontFace(faces[i])
		lineHeight := dc.FontHeight() + lineGap
		if faces[i] == r.headingFace {
			y += sectionGap - lineGap
		}
		for _, line := range lines {
			y += lineHeight
			dc.DrawString(line, marginX, y)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
