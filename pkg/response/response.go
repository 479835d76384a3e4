package response

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"startupconnect/pkg/apperr"
)

type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func SendAPIResponse(c *gin.Context, code int, success bool, message string, data any) {
	resp := APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	c.JSON(code, resp)
}

// SendError writes a failure envelope whose status follows the error kind.
// Untyped errors are logged and reported as a generic internal error.
func SendError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal && isUniqueViolation(err) {
		kind = apperr.Conflict
	}

	status := StatusFor(kind)
	message := err.Error()
	code := apperr.CodeOf(err)
	if kind == apperr.Conflict && code == apperr.Internal.String() {
		code = apperr.Conflict.String()
		message = "resource already exists"
	}
	if kind == apperr.Internal {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		message = "internal server error"
	}

	c.JSON(status, APIResponse{
		Success:   false,
		Message:   message,
		Code:      code,
		CreatedAt: time.Now(),
	})
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.OwnershipMismatch, apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.InvalidState, apperr.Conflict:
		return http.StatusConflict
	case apperr.InvalidRange:
		return http.StatusUnprocessableEntity
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
