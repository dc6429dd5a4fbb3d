// Package handlers serves the blogly pages: one gin handler per resource and
// verb, each making a single service call and then redirecting or rendering.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"blogly/media"
	"blogly/metrics"
	"blogly/middleware"
	"blogly/service"
	"blogly/session"
	"blogly/store"
)

type Deps struct {
	Service *service.Service
	Flash   session.Store
	// Uploader is optional; image uploads are disabled when nil.
	Uploader media.Uploader
	Logger   *slog.Logger
}

type Handler struct {
	svc      *service.Service
	flash    session.Store
	uploader media.Uploader
	log      *slog.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		svc:      d.Service,
		flash:    d.Flash,
		uploader: d.Uploader,
		log:      d.Logger,
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.index)

	r.GET("/users", h.listUsers)
	r.GET("/users/new", h.newUserForm)
	r.POST("/users/new", h.createUser)
	r.GET("/users/:id", h.showUser)
	r.GET("/users/:id/edit", h.editUserForm)
	r.POST("/users/:id/edit", h.updateUser)
	r.GET("/users/:id/delete", h.deleteUser)

	r.GET("/users/:id/posts/new", h.newPostForm)
	r.POST("/users/:id/posts/new", h.createPost)
	r.GET("/posts/:id", h.showPost)
	r.GET("/posts/:id/edit", h.editPostForm)
	r.POST("/posts/:id/edit", h.updatePost)
	r.GET("/posts/:id/delete", h.deletePost)

	r.GET("/tags", h.listTags)
	r.GET("/tags/new", h.newTagForm)
	r.POST("/tags/new", h.createTag)
	r.GET("/tags/:id", h.showTag)
	r.GET("/tags/:id/edit", h.editTagForm)
	r.POST("/tags/:id/edit", h.updateTag)
	r.GET("/tags/:id/delete", h.deleteTag)
}

func (h *Handler) index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/users")
}

// render pops the session's flash messages into data and renders name.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	msgs, err := h.flash.Pop(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "Failed to read flash messages", "error", err)
	}
	data["Flashes"] = msgs
	c.HTML(status, name, data)
}

func (h *Handler) addFlash(c *gin.Context, kind session.Kind, text string) {
	err := h.flash.Push(c.Request.Context(), middleware.SessionID(c), session.Message{Kind: kind, Text: text})
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "Failed to store flash message", "error", err)
	}
}

func (h *Handler) redirect(c *gin.Context, format string, args ...any) {
	c.Redirect(http.StatusFound, fmt.Sprintf(format, args...))
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not Found",
		"Status":  http.StatusNotFound,
		"Message": "The page you asked for does not exist.",
	})
}

// fail renders the page for a read or an unexpected write error.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(c)
		return
	}
	_ = c.Error(err)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Server Error",
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong.",
	})
}

// writeFailed turns user-correctable write errors into a flash message and a
// redirect to back; anything else goes to fail.
func (h *Handler) writeFailed(c *gin.Context, resource string, err error, back string) {
	var ve *service.ValidationError
	var msg, reason string
	switch {
	case errors.As(err, &ve):
		msg = strings.ReplaceAll(ve.Field, "_", " ") + " is required"
		msg = strings.ToUpper(msg[:1]) + msg[1:]
		reason = "validation"
	case errors.Is(err, store.ErrDuplicate):
		msg = fmt.Sprintf("A %s with that name already exists.", resource)
		reason = "duplicate"
	case errors.Is(err, service.ErrUserHasPosts):
		msg = "This user still has posts. Delete them first."
		reason = "has_posts"
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordWriteError(resource, "not_found")
		h.notFound(c)
		return
	default:
		metrics.RecordWriteError(resource, "internal")
		h.fail(c, err)
		return
	}
	metrics.RecordWriteError(resource, reason)
	h.addFlash(c, session.Error, msg)
	c.Redirect(http.StatusFound, back)
}

// idBits bounds ids to the range of a BIGINT primary key.
const idBits = 63

// pathID parses the :id parameter. Ids must fit a signed 64-bit column;
// anything else renders 404.
func (h *Handler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, idBits)
	if err != nil {
		h.notFound(c)
		return 0, false
	}
	return uint(id), true
}

// parseIDs converts submitted ids, dropping anything that is not a positive
// integer.
func parseIDs(raw []string) []uint {
	ids := make([]uint, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(s), 10, idBits)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
