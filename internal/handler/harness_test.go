package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"Inkwell/internal/bootstrap"
	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/data/datatest"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// harness runs requests against the full router with a per-test database,
// Redis and object store, and carries cookies between requests like a
// browser would.
type harness struct {
	suite.Suite
	data    *data.Data
	redis   *miniredis.Miniredis
	store   *datatest.ObjectStore
	cfg     *conf.Config
	tokens  *token.Service
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (h *harness) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (h *harness) SetupTest() {
	h.data, h.redis = datatest.New(h.T())
	h.store = datatest.NewObjectStore()
	h.cfg = &conf.Config{
		App: conf.AppConfig{
			Mode:             "testing",
			BaseURL:          "http://example.com",
			SecretKey:        "test secret",
			AdminEmail:       "admin@example.com",
			PostsPerPage:     3,
			FollowersPerPage: 50,
			CommentsPerPage:  2,
			TokenTTL:         time.Hour,
		},
		Mail: conf.MailConfig{SubjectPrefix: "[Inkwell]"},
	}
	h.Require().NoError(bootstrap.Seed(h.data))
	h.tokens = token.NewService(h.cfg.App.SecretKey)
	h.router = bootstrap.NewRouter(h.cfg, h.data, h.store)
	h.cookies = map[string]*http.Cookie{}
}

func (h *harness) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(h.cookies, c.Name)
			continue
		}
		h.cookies[c.Name] = c
	}
	return w
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	return h.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.send(req)
}

func (h *harness) sendJSON(method, path string, body interface{}, auth func(*http.Request)) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		h.Require().NoError(err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != nil {
		auth(req)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	h.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (h *harness) flashes(w *httptest.ResponseRecorder) []string {
	raw, _ := h.decode(w)["flashes"].([]interface{})
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		out = append(out, f.(string))
	}
	return out
}

func (h *harness) requireRedirect(w *httptest.ResponseRecorder, location string) {
	h.Require().Equal(http.StatusFound, w.Code, w.Body.String())
	h.Require().Equal(location, w.Header().Get("Location"))
}

// createUser inserts an account directly; its password is "cat".
func (h *harness) createUser(name string, confirmed bool, roleName string) *model.User {
	roles := repository.NewRoleRepository(h.data.DB)
	role, err := roles.GetByName(roleName)
	h.Require().NoError(err)

	now := time.Now().UTC()
	u := &model.User{Username: name, Confirmed: confirmed, RoleID: &role.ID, MemberSince: now, LastSeen: now}
	u.SetEmail(name + "@example.com")
	h.Require().NoError(u.SetPassword("cat"))
	h.Require().NoError(repository.NewUserRepository(h.data.DB).Create(u))
	h.Require().NoError(repository.NewFollowRepository(h.data.DB).Follow(u.ID, u.ID, now))
	u.Role = role
	return u
}

func (h *harness) login(email, password string) {
	w := h.postForm("/auth/login", url.Values{"email": {email}, "password": {password}})
	h.requireRedirect(w, "/")
}

func (h *harness) logout() {
	h.cookies = map[string]*http.Cookie{}
}

func (h *harness) createPost(author *model.User, body string) *model.Post {
	post := &model.Post{Body: body, AuthorID: author.ID}
	h.Require().NoError(repository.NewPostRepository(h.data.DB).Create(post))
	return post
}
