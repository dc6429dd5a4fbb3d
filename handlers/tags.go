package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogly/models"
)

type tagForm struct {
	Name string `form:"name"`
}

func (h *Handler) listTags(c *gin.Context) {
	tags, err := h.svc.ListTags(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "tag_list.html", gin.H{"Title": "Tags", "Tags": tags})
}

func (h *Handler) showTag(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	tag, err := h.svc.GetTag(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "tag_detail.html", gin.H{"Title": tag.Name, "Tag": tag})
}

func (h *Handler) newTagForm(c *gin.Context) {
	h.render(c, http.StatusOK, "tag_form.html", gin.H{"Title": "Create a tag"})
}

func (h *Handler) createTag(c *gin.Context) {
	var form tagForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/tags/new")
		return
	}
	if _, err := h.svc.CreateTag(c.Request.Context(), strings.TrimSpace(form.Name)); err != nil {
		h.writeFailed(c, "tag", err, "/tags/new")
		return
	}
	c.Redirect(http.StatusFound, "/tags")
}

func (h *Handler) editTagForm(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	tag, err := h.svc.GetTag(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "tag_form.html", gin.H{"Title": "Edit tag", "Tag": tag})
}

func (h *Handler) updateTag(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var form tagForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, "/tags/%d/edit", id)
		return
	}
	patch := models.TagPatch{Name: models.Present(strings.TrimSpace(form.Name))}
	if _, err := h.svc.UpdateTag(c.Request.Context(), id, patch); err != nil {
		h.writeFailed(c, "tag", err, c.Request.URL.Path)
		return
	}
	c.Redirect(http.StatusFound, "/tags")
}

func (h *Handler) deleteTag(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTag(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/tags")
}
