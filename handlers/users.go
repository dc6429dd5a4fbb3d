package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogly/models"
	"blogly/service"
)

type userForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	ImageURL  string `form:"image_url"`
}

func (f *userForm) trim() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_list.html", gin.H{"Title": "Users", "Users": users})
}

func (h *Handler) showUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_detail.html", gin.H{"Title": user.FullName(), "User": user})
}

func (h *Handler) newUserForm(c *gin.Context) {
	h.render(c, http.StatusOK, "user_form.html", gin.H{
		"Title":   "Create a user",
		"Uploads": h.uploader != nil,
	})
}

// uploadedImage stores the "image" file when uploads are enabled and one was
// sent, returning its public URL. It returns "" when there is nothing to do.
func (h *Handler) uploadedImage(c *gin.Context) (string, error) {
	if h.uploader == nil {
		return "", nil
	}
	file, err := c.FormFile("image")
	if err != nil || file.Size == 0 {
		return "", nil
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.uploader.Upload(c.Request.Context(), file.Filename, src, file.Size, file.Header.Get("Content-Type"))
}

func (h *Handler) createUser(c *gin.Context) {
	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/users/new")
		return
	}
	form.trim()

	in := service.NewUser{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		ImageURL:  form.ImageURL,
	}
	// Nothing is uploaded for a submission that will be rejected.
	if err := in.Validate(); err != nil {
		h.writeFailed(c, "user", err, "/users/new")
		return
	}

	url, err := h.uploadedImage(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if url != "" {
		in.ImageURL = url
	}

	if _, err := h.svc.CreateUser(c.Request.Context(), in); err != nil {
		h.writeFailed(c, "user", err, "/users/new")
		return
	}
	c.Redirect(http.StatusFound, "/users")
}

func (h *Handler) editUserForm(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_form.html", gin.H{
		"Title":   "Edit " + user.FullName(),
		"User":    user,
		"Uploads": h.uploader != nil,
	})
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, "/users/%d/edit", id)
		return
	}
	form.trim()

	patch := models.UserPatch{
		FirstName: models.Present(form.FirstName),
		LastName:  models.Present(form.LastName),
		ImageURL:  models.Present(form.ImageURL),
	}
	url, err := h.uploadedImage(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if url != "" {
		patch.ImageURL = &url
	}

	if _, err := h.svc.UpdateUser(c.Request.Context(), id, patch); err != nil {
		h.writeFailed(c, "user", err, c.Request.URL.Path)
		return
	}
	h.redirect(c, "/users/%d", id)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.writeFailed(c, "user", err, fmt.Sprintf("/users/%d", id))
		return
	}
	c.Redirect(http.StatusFound, "/users")
}
