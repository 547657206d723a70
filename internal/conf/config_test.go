package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := LoadConfig()

	require.Equal(t, "8080", c.App.Port)
	require.Equal(t, 20, c.App.PostsPerPage)
	require.Equal(t, 50, c.App.FollowersPerPage)
	require.Equal(t, 30, c.App.CommentsPerPage)
	require.Equal(t, time.Hour, c.App.TokenTTL)
	require.Equal(t, 500*time.Millisecond, c.App.SlowQuery)
	require.Equal(t, "postgres", c.Data.DatabaseDriver)
	require.Equal(t, "[Inkwell]", c.Mail.SubjectPrefix)
}

func TestLoadConfigHonorsEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9001")
	t.Setenv("APP_ADMIN_EMAIL", "root@example.com")
	t.Setenv("APP_POSTS_PER_PAGE", "5")
	t.Setenv("APP_TOKEN_TTL", "90s")
	t.Setenv("DATA_DB_DRIVER", "sqlite")
	t.Setenv("MAIL_SMTP_PORT", "587")

	c := LoadConfig()

	require.Equal(t, "9001", c.App.Port)
	require.Equal(t, "root@example.com", c.App.AdminEmail)
	require.Equal(t, 5, c.App.PostsPerPage)
	require.Equal(t, 90*time.Second, c.App.TokenTTL)
	require.Equal(t, "sqlite", c.Data.DatabaseDriver)
	require.Equal(t, 587, c.Mail.SMTPPort)
}

func TestLoadConfigRejectsNonPositivePageSizes(t *testing.T) {
	t.Setenv("APP_COMMENTS_PER_PAGE", "0")
	t.Setenv("APP_TOKEN_TTL", "-1s")

	c := LoadConfig()

	require.Equal(t, 30, c.App.CommentsPerPage)
	require.Equal(t, time.Hour, c.App.TokenTTL)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAIL_SENDER=Blog <blog@example.com>\nAPP_MODE=production\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_MODE", "testing")
	t.Cleanup(func() { os.Unsetenv("MAIL_SENDER") })

	c := LoadConfig()

	require.Equal(t, "Blog <blog@example.com>", c.Mail.Sender)
	require.Equal(t, "testing", c.App.Mode)
}
