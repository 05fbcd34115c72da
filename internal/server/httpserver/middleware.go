package httpserver

import (
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/kracker/internal/common"
	"github.com/dmitrijs2005/kracker/internal/logging"
	"github.com/dmitrijs2005/kracker/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = logging.RequestIDKey
	identityKey  = "identity"
	bearerPrefix = "bearer"
)

// RequestID propagates the caller's X-Request-Id or assigns a new one. The id
// is echoed in the response and attached to the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog writes one line per request once the chain has finished.
func AccessLog(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}

		switch {
		case status >= http.StatusInternalServerError:
			l.Error(c.Request.Context(), "http request", args...)
		case status >= http.StatusBadRequest:
			l.Warn(c.Request.Context(), "http request", args...)
		default:
			l.Info(c.Request.Context(), "http request", args...)
		}
	}
}

// Recovery turns a handler panic into 500 {"error":"internal_error"}.
func Recovery(l logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		l.Error(c.Request.Context(), "panic recovered", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: errCodeInternal})
	})
}

// AuthGate requires "Authorization: Bearer <token>" (scheme matched
// case-insensitively) and a token that verifies. On success the identity is
// stored in the request context for downstream handlers.
func AuthGate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errCodeMissingBearer})
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errCodeInvalidToken})
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// bearerToken splits header at the first whitespace run after the scheme.
func bearerToken(header string) (string, bool) {
	i := strings.IndexFunc(header, unicode.IsSpace)
	if i < 0 || !strings.EqualFold(header[:i], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[i:])
	if token == "" {
		return "", false
	}
	return token, true
}
