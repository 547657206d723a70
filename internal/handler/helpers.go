package handler

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"Inkwell/internal/dto"
	"Inkwell/internal/middleware"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

// baseURL is the scheme and host the request reached us on.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// pageParam reads ?page=, accepting repository.LastPage.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || (page < 1 && page != repository.LastPage) {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pagination[T any](p *repository.Page[T]) dto.Pagination {
	return dto.Pagination{
		Page:    p.Page,
		Pages:   p.Pages(),
		PerPage: p.PerPage,
		Total:   p.Total,
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
	}
}

// safeNext keeps login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func logError(c *gin.Context, err error) {
	log.Printf("❌ [%s] %s %s: %v", middleware.TraceID(c.Request.Context()), c.Request.Method, c.Request.URL.Path, err)
}

// Renderer answers web requests: JSON documents carrying the pending flash
// messages and the current user, or redirects.
type Renderer struct {
	sessions *service.SessionService
}

func NewRenderer(sessions *service.SessionService) *Renderer {
	return &Renderer{sessions: sessions}
}

func (r *Renderer) render(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	flashes, err := r.sessions.Flashes(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		logError(c, err)
	}
	if flashes == nil {
		flashes = []string{}
	}
	body["flashes"] = flashes
	body["current_user"] = dto.NewCurrentUserView(baseURL(c), middleware.CurrentUser(c))
	c.JSON(status, body)
}

func (r *Renderer) flash(c *gin.Context, msg string) {
	if err := r.sessions.Flash(c.Request.Context(), middleware.SessionID(c), msg); err != nil {
		logError(c, err)
	}
}

func (r *Renderer) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// bind decodes a form or JSON body into req.
func (r *Renderer) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		r.render(c, http.StatusBadRequest, gin.H{"error": "invalid form: " + err.Error()})
		return false
	}
	return true
}

// fail maps a service error onto a web response.
func (r *Renderer) fail(c *gin.Context, err error) {
	var fe dto.FieldErrors
	switch {
	case errors.As(err, &fe):
		r.render(c, http.StatusBadRequest, gin.H{"errors": fe})
	case errors.Is(err, service.ErrNotFound):
		r.render(c, http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		r.render(c, http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		logError(c, err)
		r.render(c, http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func apiAbort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResp(status, message))
}

// apiFail maps a service error onto an API error body.
func apiFail(c *gin.Context, err error) {
	var fe dto.FieldErrors
	switch {
	case errors.As(err, &fe):
		apiAbort(c, http.StatusBadRequest, fieldMessages(fe))
	case errors.Is(err, service.ErrNotFound):
		apiAbort(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrForbidden):
		apiAbort(c, http.StatusForbidden, "Insufficient permissions")
	default:
		logError(c, err)
		apiAbort(c, http.StatusInternalServerError, "internal server error")
	}
}

func fieldMessages(fe dto.FieldErrors) string {
	msgs := make([]string, 0, len(fe))
	for _, m := range fe {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	apiAbort(c, http.StatusNotFound, "resource not found")
}
