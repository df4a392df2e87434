package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

// Document extracts per-page text from uploaded documents via the
// Document AI OCR processor. Page order follows the processor's page
// numbering.
type Document interface {
	ExtractPages(ctx context.Context, mimeType string, data []byte) ([]string, error)
	Close() error
}

type documentService struct {
	log       *logger.Logger
	docClient *documentai.DocumentProcessorClient
	processor string
}

func NewDocument(log *logger.Logger) (Document, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Document")

	projectID := strings.TrimSpace(os.Getenv("DOCUMENTAI_PROJECT_ID"))
	processorID := strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID"))
	if projectID == "" || processorID == "" {
		return nil, fmt.Errorf("missing DOCUMENTAI_PROJECT_ID or DOCUMENTAI_PROCESSOR_ID")
	}
	location := strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION"))
	if location == "" {
		location = "us"
	}
	version := strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_VERSION"))

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
	docOpts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	c, err := documentai.NewDocumentProcessorClient(context.Background(), docOpts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	processor := fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID)
	if version != "" {
		processor += "/processorVersions/" + version
	}

	slog.Info("Document AI initialized", "endpoint", endpoint, "processor", processor)

	return &documentService{
		log:       slog,
		docClient: c,
		processor: processor,
	}, nil
}

func (s *documentService) Close() error {
	if s == nil || s.docClient == nil {
		return nil
	}
	return s.docClient.Close()
}

func (s *documentService) ExtractPages(ctx context.Context, mimeType string, data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	req := &documentaipb.ProcessRequest{
		Name: s.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
		FieldMask: &fieldmaskpb.FieldMask{Paths: []string{"text", "pages.page_number", "pages.paragraphs"}},
	}

	resp, err := s.docClient.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil || resp.Document == nil {
		return nil, fmt.Errorf("documentai returned no document")
	}
	doc := resp.Document

	pages := make([]string, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		if p == nil {
			continue
		}
		var pageText strings.Builder
		for _, para := range p.Paragraphs {
			if para == nil || para.Layout == nil || para.Layout.TextAnchor == nil {
				continue
			}
			t := strings.TrimSpace(textFromAnchor(doc.Text, para.Layout.TextAnchor))
			if t == "" {
				continue
			}
			pageText.WriteString(t)
			pageText.WriteString("\n")
		}
		pages = append(pages, strings.TrimSpace(pageText.String()))
	}

	// Some processors populate doc.Text but omit structured paragraphs.
	if len(pages) == 0 && strings.TrimSpace(doc.Text) != "" {
		pages = append(pages, strings.TrimSpace(doc.Text))
	}
	return pages, nil
}

func textFromAnchor(full string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil || len(anchor.TextSegments) == 0 || full == "" {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.TextSegments {
		if seg == nil {
			continue
		}
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > len(full) {
			end = len(full)
		}
		if start >= end {
			continue
		}
		b.WriteString(full[start:end])
	}
	return b.String()
}
