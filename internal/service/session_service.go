package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"Inkwell/internal/data"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "inkwell:session:"
	flashPrefix   = "inkwell:flash:"

	SessionTTL  = 24 * time.Hour
	RememberTTL = 365 * 24 * time.Hour
	flashTTL    = time.Hour
)

// SessionService binds browser session ids to users and keeps their flash
// messages, both in Redis.
type SessionService struct {
	Data *data.Data
}

func NewSessionService(d *data.Data) *SessionService {
	return &SessionService{Data: d}
}

func (s *SessionService) NewID() string {
	return uuid.New().String()
}

// ValidID rejects cookie values that could not have come from NewID.
func (s *SessionService) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Bind logs userID into session id and returns how long it stays valid.
func (s *SessionService) Bind(ctx context.Context, id string, userID uint, remember bool) (time.Duration, error) {
	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}
	key := sessionPrefix + id
	_, err := s.Data.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "user_id", userID)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return ttl, err
}

// UserID returns 0 when nobody is logged into the session.
func (s *SessionService) UserID(ctx context.Context, id string) (uint, error) {
	v, err := s.Data.Redis.HGet(ctx, sessionPrefix+id, "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	uid, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, nil
	}
	return uint(uid), nil
}

func (s *SessionService) Unbind(ctx context.Context, id string) error {
	return s.Data.Redis.Del(ctx, sessionPrefix+id).Err()
}

func (s *SessionService) Flash(ctx context.Context, id, msg string) error {
	key := flashPrefix + id
	_, err := s.Data.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, msg)
		pipe.Expire(ctx, key, flashTTL)
		return nil
	})
	return err
}

// Flashes returns and forgets every pending message of the session.
func (s *SessionService) Flashes(ctx context.Context, id string) ([]string, error) {
	key := flashPrefix + id
	var msgs *redis.StringSliceCmd
	_, err := s.Data.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		msgs = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs.Val(), nil
}
