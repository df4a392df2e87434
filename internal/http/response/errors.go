package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
)

// RespondAppError maps domain sentinel errors onto HTTP statuses.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrExtraction):
		RespondError(c, http.StatusBadGateway, "extraction_failed", err)
	case errors.Is(err, apperrors.ErrIntegrity):
		RespondError(c, http.StatusInternalServerError, "integrity_violation", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
