package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
)

func TestRespondAppErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"invalid argument", apperrors.ErrInvalidArgument, http.StatusBadRequest},
		{"extraction", apperrors.ErrExtraction, http.StatusBadGateway},
		{"integrity", apperrors.ErrIntegrity, http.StatusInternalServerError},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondAppError(c, fmt.Errorf("context: %w", tc.err))
		if w.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.name, w.Code, tc.status)
		}
	}
}
