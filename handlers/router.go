package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blogly/middleware"
	"blogly/session"
	"blogly/templates"
)

// NewRouter builds the gin engine: middleware, templates, /metrics and every
// page route of h.
func NewRouter(h *Handler, codec *session.Codec, log *slog.Logger) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.Logger(log),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.ErrorContext(c.Request.Context(), "panic recovered", "error", recovered, "path", c.Request.URL.Path)
			c.AbortWithStatus(http.StatusInternalServerError)
		}),
		middleware.Metrics(),
	)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pages := r.Group("/")
	pages.Use(middleware.Session(codec, log))
	h.Register(pages)

	r.NoRoute(middleware.Session(codec, log), h.notFound)
	return r, nil
}
