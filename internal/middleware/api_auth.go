package middleware

import (
	"net/http"
	"strings"

	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

const TokenUsedKey = "tokenUsed"

// APIAuth accepts HTTP basic email:password, basic token with an empty
// password, or an Authorization: Bearer token.
func APIAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, tokenUsed, ok := apiCredentials(c, auth)
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Authentication Required"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResp(http.StatusUnauthorized, "Invalid credentials"))
			return
		}
		if !user.Confirmed {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResp(http.StatusForbidden, "Unconfirmed account"))
			return
		}
		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(TokenUsedKey, tokenUsed)
		c.Next()
	}
}

func apiCredentials(c *gin.Context, auth *service.AuthService) (user *model.User, tokenUsed, ok bool) {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		user, ok = auth.UserFromAPIToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		return user, true, ok
	}

	name, password, hasBasic := c.Request.BasicAuth()
	if !hasBasic || name == "" {
		return nil, false, false
	}
	if password == "" {
		user, ok = auth.UserFromAPIToken(name)
		return user, true, ok
	}
	user, err := auth.Authenticate(name, password)
	return user, false, err == nil
}

// TokenUsed reports whether the request authenticated with a token rather
// than a password.
func TokenUsed(c *gin.Context) bool {
	return c.GetBool(TokenUsedKey)
}
