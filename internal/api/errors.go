package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/listboard/internal/auth"
	"github.com/thenoetrevino/listboard/internal/board"
)

var (
	ErrShuttingDown = errors.New("server is shutting down")
	ErrMissingToken = errors.New("authorization header is missing")
)

// MsgGeneric is the body of every unexpected failure
const MsgGeneric = "An error occurred. Please try again."

// statusFor maps a domain error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredential),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrNotSignedIn),
		errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, auth.ErrEmailInUse),
		errors.Is(err, board.ErrDefaultColumn),
		errors.Is(err, board.ErrDragInProgress):
		return http.StatusConflict
	case errors.Is(err, board.ErrNotDragging),
		errors.Is(err, board.ErrUnknownKind):
		return http.StatusBadRequest
	case auth.IsValidation(err), board.IsValidation(err):
		return http.StatusUnprocessableEntity
	case board.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrShuttingDown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error": ...}. Unexpected failures are logged and
// answered with the generic message so internals never reach the client.
func (s *Server) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := rootMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		msg = MsgGeneric
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// rootMessage returns the user-facing text for err: the auth message when
// there is one, otherwise the innermost error text without the "failed to"
// wrapping added on the way up.
func rootMessage(err error) string {
	if msg := auth.Message(err); msg != "" {
		return msg
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
