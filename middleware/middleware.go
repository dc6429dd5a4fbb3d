package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blogly/metrics"
	"blogly/session"
)

const (
	SessionCookie = "blogly_session"
	sessionKey    = "session_id"
)

// Session makes sure every request carries a session id, reusing the one in
// the signed cookie when it verifies and issuing a new cookie otherwise.
func Session(codec *session.Codec, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sid string
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if sid, err = codec.Decode(raw); err != nil {
				log.DebugContext(c.Request.Context(), "Replacing invalid session cookie", "error", err)
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			token, err := codec.Encode(sid)
			if err != nil {
				log.ErrorContext(c.Request.Context(), "Failed to sign session", "error", err)
			} else {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(SessionCookie, token, int(codec.TTL().Seconds()), "/", "", false, true)
			}
		}

		c.Set(sessionKey, sid)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside it.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.ErrorContext(c.Request.Context(), "request", attrs...)
		default:
			log.InfoContext(c.Request.Context(), "request", attrs...)
		}
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
