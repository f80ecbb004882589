package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/listboard/internal/types"
)

const (
	ctxUserID = "userId"
	ctxClaims = "claims"
)

// AccessTokenMiddleware verifies the bearer token and stores the caller's
// id under "userId". The websocket route may pass the token as ?token=
// because browsers cannot set headers on a websocket handshake.
func (s *Server) AccessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			s.abortWithError(c, ErrMissingToken)
			return
		}

		claims, err := s.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxUserID, string(claims.UserID))
		c.Next()
	}
}

func userID(c *gin.Context) types.UserID {
	return types.UserID(c.GetString(ctxUserID))
}

// requestLogger logs each request through slog instead of gin's writer
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := s.logger.Debug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = s.logger.Warn
		}
		level("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"user_id", c.GetString(ctxUserID))
	}
}
