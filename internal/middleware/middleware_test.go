package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/data/datatest"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"Inkwell/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	data     *data.Data
	sessions *service.SessionService
	users    *service.UserService
	auth     *service.AuthService
	tokens   *token.Service
}

func newFixture(t *testing.T) *fixture {
	d, _ := datatest.New(t)
	require.NoError(t, repository.NewRoleRepository(d.DB).InsertRoles())
	cfg := conf.AppConfig{TokenTTL: time.Hour, FollowersPerPage: 50}
	tokens := token.NewService("secret")
	return &fixture{
		data:     d,
		sessions: service.NewSessionService(d),
		users:    service.NewUserService(d, cfg),
		auth:     service.NewAuthService(d, cfg, tokens, service.NewMailService(d, "")),
		tokens:   tokens,
	}
}

func (f *fixture) user(t *testing.T, name string, confirmed bool) *model.User {
	role, err := repository.NewRoleRepository(f.data.DB).GetDefault()
	require.NoError(t, err)
	u := &model.User{Username: name, Confirmed: confirmed, RoleID: &role.ID}
	u.SetEmail(name + "@example.com")
	require.NoError(t, u.SetPassword("cat"))
	require.NoError(t, repository.NewUserRepository(f.data.DB).Create(u))
	return u
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, TraceID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-Id", "abc")
	w := serve(r, req)
	require.Equal(t, "abc", w.Header().Get("X-Trace-Id"))
	require.Equal(t, "abc", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, w.Header().Get("X-Trace-Id"), 32)
	require.Equal(t, w.Header().Get("X-Trace-Id"), w.Body.String())
}

func TestSessionIssuesCookieAndLoadsUser(t *testing.T) {
	f := newFixture(t)
	john := f.user(t, "john", true)

	r := gin.New()
	r.Use(Session(f.sessions, f.users))
	r.GET("/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, "anonymous", w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	sid := cookies[0].Value

	_, err := f.sessions.Bind(context.Background(), sid, john.ID, false)
	require.NoError(t, err)

	before := time.Now().Add(-time.Second)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	w = serve(r, req)
	require.Equal(t, "john", w.Body.String())
	require.Empty(t, w.Result().Cookies())

	reloaded, err := f.users.GetByID(john.ID)
	require.NoError(t, err)
	require.True(t, reloaded.LastSeen.After(before))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	w = serve(r, req)
	require.Equal(t, "anonymous", w.Body.String())
	require.NotEqual(t, "forged", w.Result().Cookies()[0].Value)
}

func TestSessionHoldsUnconfirmedUsers(t *testing.T) {
	f := newFixture(t)
	john := f.user(t, "john", false)
	sid := f.sessions.NewID()
	_, err := f.sessions.Bind(context.Background(), sid, john.ID, false)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Session(f.sessions, f.users))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/", ok)
	r.GET("/auth/unconfirmed", ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	w := serve(r, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/unconfirmed", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/auth/unconfirmed", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	require.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestLoginAndPermissionRequired(t *testing.T) {
	f := newFixture(t)
	sid := f.sessions.NewID()
	r := gin.New()
	var current *model.User
	r.Use(func(c *gin.Context) {
		c.Set(SessionKey, sid)
		if current != nil {
			c.Set(CurrentUserKey, current)
		}
	})
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/private", LoginRequired(f.sessions), ok)
	r.GET("/moderate", LoginRequired(f.sessions), PermissionRequired(model.PermModerate), ok)
	r.GET("/admin", AdminRequired(), ok)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/private?page=2", nil))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login?next=%2Fprivate%3Fpage%3D2", w.Header().Get("Location"))
	msgs, err := f.sessions.Flashes(context.Background(), sid)
	require.NoError(t, err)
	require.Equal(t, []string{LoginMessage}, msgs)

	current = &model.User{Role: &model.Role{Permissions: int(model.PermFollow | model.PermComment | model.PermWrite)}}
	require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/private", nil)).Code)
	w = serve(r, httptest.NewRequest(http.MethodGet, "/moderate", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"error":"forbidden","message":"Insufficient permissions"}`, w.Body.String())
	require.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)

	current.Role.Add(model.PermModerate)
	require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/moderate", nil)).Code)
}

func TestAPIAuth(t *testing.T) {
	f := newFixture(t)
	john := f.user(t, "john", true)
	f.user(t, "susan", false)

	r := gin.New()
	r.GET("/api", APIAuth(f.auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Username, "token_used": TokenUsed(c)})
	})
	call := func(setup func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		setup(req)
		return serve(r, req)
	}

	w := call(func(req *http.Request) {})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotEmpty(t, w.Header().Get("WWW-Authenticate"))

	w = call(func(req *http.Request) { req.SetBasicAuth("john@example.com", "dog") })
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(func(req *http.Request) { req.SetBasicAuth("john@example.com", "cat") })
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user":"john","token_used":false}`, w.Body.String())

	w = call(func(req *http.Request) { req.SetBasicAuth("susan@example.com", "cat") })
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Unconfirmed account")

	tok, _, err := f.auth.IssueAPIToken(john)
	require.NoError(t, err)
	w = call(func(req *http.Request) { req.SetBasicAuth(tok, "") })
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user":"john","token_used":true}`, w.Body.String())

	w = call(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) })
	require.Equal(t, http.StatusOK, w.Code)

	confirmTok, err := f.tokens.Generate(token.PurposeConfirm, john.ID, time.Hour)
	require.NoError(t, err)
	w = call(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+confirmTok) })
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
