package middleware

import (
	"log"
	"net/http"
	"net/url"

	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

const LoginMessage = "Please log in to access this page."

// LoginRequired sends anonymous visitors to the login page, remembering
// where they were going.
func LoginRequired(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			if err := sessions.Flash(c.Request.Context(), SessionID(c), LoginMessage); err != nil {
				log.Printf("❌ [%s] flash: %v", TraceID(c.Request.Context()), err)
			}
			c.Redirect(http.StatusFound, "/auth/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PermissionRequired answers 403 unless the current user holds perm.
func PermissionRequired(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).Can(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResp(http.StatusForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return PermissionRequired(model.PermAdmin)
}
