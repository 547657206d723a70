package middleware

import (
	"log"
	"net/http"
	"strings"

	"Inkwell/internal/model"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"

	SessionKey     = "sessionID"
	CurrentUserKey = "currentUser"
	UserIDKey      = "userID"
)

// Session gives every browser a session id, loads the logged in user and
// records their activity. Unconfirmed users are held on /auth/ pages.
func Session(sessions *service.SessionService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		sid, err := c.Cookie(SessionCookie)
		if err != nil || !sessions.ValidID(sid) {
			sid = sessions.NewID()
			SetSessionCookie(c, sid, 0)
		}
		c.Set(SessionKey, sid)

		uid, err := sessions.UserID(ctx, sid)
		if err != nil {
			log.Printf("❌ [%s] session lookup: %v", TraceID(ctx), err)
		}
		if uid == 0 {
			c.Next()
			return
		}

		user, err := users.GetByID(uid)
		if err != nil {
			c.Next()
			return
		}
		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)

		if err := users.Ping(user); err != nil {
			log.Printf("❌ [%s] ping user %d: %v", TraceID(ctx), user.ID, err)
		}

		path := c.Request.URL.Path
		if !user.Confirmed && !strings.HasPrefix(path, "/auth/") && !strings.HasPrefix(path, "/avatars/") {
			c.Redirect(http.StatusFound, "/auth/unconfirmed")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie writes the session cookie. maxAge 0 makes it last until
// the browser closes.
func SetSessionCookie(c *gin.Context, sid string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sid, maxAge, "/", "", c.Request.TLS != nil, true)
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
