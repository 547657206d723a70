package handler

import (
	"errors"
	"net/http"
	"net/url"

	"Inkwell/internal/middleware"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type AvatarHandler struct {
	*Renderer
	avatars *service.AvatarService
}

func NewAvatarHandler(r *Renderer, avatars *service.AvatarService) *AvatarHandler {
	return &AvatarHandler{Renderer: r, avatars: avatars}
}

// Upload
// POST /avatar
// Form-Data: avatar=BINARY
func (h *AvatarHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		h.render(c, http.StatusBadRequest, gin.H{"errors": gin.H{"avatar": "This field is required."}})
		return
	}
	src, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer src.Close()

	user := middleware.CurrentUser(c)
	_, err = h.avatars.Upload(c.Request.Context(), user, file.Filename, src, file.Size)
	if errors.Is(err, service.ErrInvalidAvatar) {
		h.render(c, http.StatusBadRequest, gin.H{"errors": gin.H{"avatar": err.Error()}})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "Your avatar has been updated.")
	h.redirect(c, "/user/"+url.PathEscape(user.Username))
}

// Serve streams an uploaded avatar.
// GET /avatars/*object
func (h *AvatarHandler) Serve(c *gin.Context) {
	rc, size, contentType, err := h.avatars.Open(c.Request.Context(), c.Param("object"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, size, contentType, rc, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
