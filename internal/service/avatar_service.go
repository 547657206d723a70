package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"Inkwell/internal/model"
	"Inkwell/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxAvatarSize is the largest accepted upload in bytes.
const MaxAvatarSize = 2 << 20

const avatarPrefix = "avatars/"

var avatarTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// ObjectStore is the slice of object storage the avatar service needs.
// *data.Data satisfies it with MinIO behind it.
type ObjectStore interface {
	PutObject(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, name string) (io.ReadCloser, int64, string, error)
}

type AvatarService struct {
	store ObjectStore
	users repository.UserRepository
}

func NewAvatarService(store ObjectStore, db *gorm.DB) *AvatarService {
	return &AvatarService{store: store, users: repository.NewUserRepository(db)}
}

// Upload stores an avatar image and points user at it.
func (s *AvatarService) Upload(ctx context.Context, user *model.User, filename string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := avatarTypes[ext]
	if !ok || size <= 0 || size > MaxAvatarSize {
		return "", ErrInvalidAvatar
	}

	// the bytes must agree with the extension
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	switch {
	case errors.Is(err, io.EOF):
		return "", ErrInvalidAvatar
	case err != nil && !errors.Is(err, io.ErrUnexpectedEOF):
		return "", err
	}
	head = head[:n]
	if http.DetectContentType(head) != contentType {
		return "", ErrInvalidAvatar
	}

	key := fmt.Sprintf("%s%d/%s%s", avatarPrefix, user.ID, uuid.New().String(), ext)
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), size)
	if err := s.store.PutObject(ctx, key, body, size, contentType); err != nil {
		return "", err
	}

	user.Avatar = key
	if err := s.users.Save(user); err != nil {
		return "", err
	}
	return key, nil
}

// Open streams a stored avatar. Keys outside the avatar prefix are not served.
func (s *AvatarService) Open(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, avatarPrefix) || strings.Contains(key, "..") {
		return nil, 0, "", ErrNotFound
	}
	rc, size, contentType, err := s.store.GetObject(ctx, key)
	if err != nil {
		return nil, 0, "", ErrNotFound
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
	}
	return rc, size, contentType, nil
}
