package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogly/models"
	"blogly/service"
)

type postForm struct {
	Title   string   `form:"title"`
	Content string   `form:"content"`
	TagIDs  []string `form:"checked_tag"`
}

func (h *Handler) showPost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "post_detail.html", gin.H{"Title": post.Title, "Post": post})
}

func (h *Handler) newPostForm(c *gin.Context) {
	userID, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.svc.GetUser(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	tags, err := h.svc.ListTags(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "post_form.html", gin.H{
		"Title":   "Add post",
		"User":    user,
		"Tags":    tags,
		"Checked": map[uint]bool{},
	})
}

func (h *Handler) createPost(c *gin.Context) {
	userID, ok := h.pathID(c)
	if !ok {
		return
	}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, "/users/%d/posts/new", userID)
		return
	}

	_, err := h.svc.CreatePost(c.Request.Context(), userID, service.NewPost{
		Title:   strings.TrimSpace(form.Title),
		Content: strings.TrimSpace(form.Content),
		TagIDs:  parseIDs(form.TagIDs),
	})
	if err != nil {
		h.writeFailed(c, "post", err, c.Request.URL.Path)
		return
	}
	h.redirect(c, "/users/%d", userID)
}

func (h *Handler) editPostForm(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	post, err := h.svc.GetPost(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	tags, err := h.svc.ListTags(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	checked := make(map[uint]bool, len(post.Tags))
	for _, t := range post.Tags {
		checked[t.ID] = true
	}
	h.render(c, http.StatusOK, "post_form.html", gin.H{
		"Title":   "Edit post",
		"Post":    post,
		"Tags":    tags,
		"Checked": checked,
	})
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, "/posts/%d/edit", id)
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), id, models.PostPatch{
		Title:   models.Present(strings.TrimSpace(form.Title)),
		Content: models.Present(strings.TrimSpace(form.Content)),
		TagIDs:  parseIDs(form.TagIDs),
	})
	if err != nil {
		h.writeFailed(c, "post", err, c.Request.URL.Path)
		return
	}
	h.redirect(c, "/users/%d", post.CreatorID)
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	creatorID, err := h.svc.DeletePost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, "/users/%d", creatorID)
}
