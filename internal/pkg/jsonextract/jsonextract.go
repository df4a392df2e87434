package jsonextract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
)

// Language models wrap JSON in markdown fences or chatty prose more often
// than not. Extraction prefers a fenced block, then falls back to the
// widest bracket span in the raw text.

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// Array unmarshals the first JSON array found in raw into v.
func Array(raw string, v any) error {
	return extract(raw, '[', ']', v)
}

// Object unmarshals the first JSON object found in raw into v.
func Object(raw string, v any) error {
	return extract(raw, '{', '}', v)
}

func extract(raw string, open, close byte, v any) error {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
		// Fenced content can still carry prose around the payload, so the
		// span fallback also runs over the fenced body.
		if err := spanUnmarshal(m[1], open, close, v); err == nil {
			return nil
		}
	}
	if err := spanUnmarshal(raw, open, close, v); err == nil {
		return nil
	}
	return fmt.Errorf("%w: no %c...%c payload in output", apperrors.ErrGenerationParse, open, close)
}

func spanUnmarshal(s string, open, close byte, v any) error {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return apperrors.ErrGenerationParse
	}
	return json.Unmarshal([]byte(s[start:end+1]), v)
}
