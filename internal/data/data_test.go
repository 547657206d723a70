package data_test

import (
	"context"
	"testing"
	"time"

	"Inkwell/internal/data"
	"Inkwell/internal/data/datatest"
	"Inkwell/internal/model"

	"github.com/stretchr/testify/require"
)

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := data.OpenDB("oracle", "whatever", 0)
	require.Error(t, err)
}

func TestMigrateCreatesTables(t *testing.T) {
	d, _ := datatest.New(t)
	for _, m := range []interface{}{&model.Role{}, &model.User{}, &model.Follow{}, &model.Post{}, &model.Comment{}, &model.Notification{}} {
		require.True(t, d.DB.Migrator().HasTable(m))
	}
}

func TestTaskQueueIsFIFO(t *testing.T) {
	d, _ := datatest.New(t)
	ctx := context.Background()

	require.NoError(t, d.PushTask(ctx, "q", "first"))
	require.NoError(t, d.PushTask(ctx, "q", "second"))

	got, err := d.PopTask(ctx, "q", time.Second)
	require.NoError(t, err)
	require.Equal(t, "first", got)

	got, err = d.PopTask(ctx, "q", time.Second)
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

func TestPopTaskTimesOutEmpty(t *testing.T) {
	d, _ := datatest.New(t)

	got, err := d.PopTask(context.Background(), "empty", time.Second)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestObjectStorageRequiresMinio(t *testing.T) {
	d, _ := datatest.New(t)

	_, _, _, err := d.GetObject(context.Background(), "avatars/1.png")
	require.Error(t, err)
}
