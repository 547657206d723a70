package service_test

import (
	"context"
	"testing"
	"time"

	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/data/datatest"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"Inkwell/internal/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type env struct {
	data     *data.Data
	redis    *miniredis.Miniredis
	cfg      conf.AppConfig
	now      time.Time
	tokens   *token.Service
	mail     *service.MailService
	auth     *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	sessions *service.SessionService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	d, mr := datatest.New(t)
	require.NoError(t, repository.NewRoleRepository(d.DB).InsertRoles())

	e := &env{
		data:  d,
		redis: mr,
		now:   time.Now(),
		cfg: conf.AppConfig{
			BaseURL:          "http://inkwell.test",
			SecretKey:        "test secret",
			AdminEmail:       "Admin@Example.com",
			PostsPerPage:     2,
			FollowersPerPage: 50,
			CommentsPerPage:  2,
			TokenTTL:         time.Hour,
		},
	}
	e.tokens = token.NewService(e.cfg.SecretKey, token.WithClock(func() time.Time { return e.now }))
	e.mail = service.NewMailService(d, "[Inkwell]")
	e.auth = service.NewAuthService(d, e.cfg, e.tokens, e.mail)
	e.users = service.NewUserService(d, e.cfg)
	e.posts = service.NewPostService(d, e.cfg)
	e.comments = service.NewCommentService(d, e.cfg)
	e.sessions = service.NewSessionService(d)
	return e
}

// register creates a confirmed account called name with password "cat".
func (e *env) register(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), dto.RegisterReq{
		Email:     name + "@example.com",
		Username:  name,
		Password:  "cat",
		Password2: "cat",
	})
	require.NoError(t, err)
	tok, err := e.tokens.Generate(token.PurposeConfirm, u.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, e.auth.Confirm(u, tok))
	return u
}

func (e *env) queued(t *testing.T) []string {
	t.Helper()
	if !e.redis.Exists(service.MailQueue) {
		return nil
	}
	items, err := e.redis.List(service.MailQueue)
	require.NoError(t, err)
	return items
}
