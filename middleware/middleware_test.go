package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogly/metrics"
	"blogly/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionEngine(t *testing.T) (*gin.Engine, *session.Codec) {
	t.Helper()
	return newSessionEngineWithLog(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSessionEngineWithLog(t *testing.T, log *slog.Logger) (*gin.Engine, *session.Codec) {
	t.Helper()
	codec, err := session.NewCodec("SECRET!", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Session(codec, log))
	r.GET("/sid", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})
	return r, codec
}

func TestSession_IssuesCookie(t *testing.T) {
	r, codec := newSessionEngine(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sid", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Body.String()
	assert.NotEmpty(t, sid)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	decoded, err := codec.Decode(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, sid, decoded)
}

func TestSession_ReusesValidCookie(t *testing.T) {
	r, codec := newSessionEngine(t)
	token, err := codec.Encode("known-session")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "known-session", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_ReplacesTamperedCookie(t *testing.T) {
	var buf bytes.Buffer
	r, _ := newSessionEngineWithLog(t, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.NotEqual(t, "forged", rec.Body.String())
	assert.Len(t, rec.Result().Cookies(), 1)
	assert.Contains(t, buf.String(), "Replacing invalid session cookie")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(Logger(log))
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "path=/ok")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "status=500")
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/metrics-test/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "/metrics-test/:id", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/2", nil))
	after := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "/metrics-test/:id", "200"))
	assert.Equal(t, 2.0, after-before)

	unmatched := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
