// Package shortlink maps short codes to recipe ids through redis, backing
// the GET /s/:code redirect. When redis is unavailable the store degrades to
// plain numeric-id codes so links keep resolving.
package shortlink

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("short link not found")

const (
	recipeKeyFmt = "shortlink:recipe:%d"
	codeKeyFmt   = "shortlink:code:%s"
)

type Store struct {
	client *redis.Client
}

// New connects to redis and verifies the connection.
func New(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: rdb}, nil
}

// Code returns the short code for a recipe, creating one on first request.
// A nil store (redis down at startup) falls back to the numeric id.
func (s *Store) Code(ctx context.Context, recipeID int64) (string, error) {
	if s == nil || s.client == nil {
		return strconv.FormatInt(recipeID, 10), nil
	}

	recipeKey := fmt.Sprintf(recipeKeyFmt, recipeID)
	if code, err := s.client.Get(ctx, recipeKey).Result(); err == nil {
		return code, nil
	} else if err != redis.Nil {
		return "", err
	}

	code := newCode()
	// SetNX on the code key guards against a code collision; retry once with
	// a fresh code if we lose.
	for range 2 {
		ok, err := s.client.SetNX(ctx, fmt.Sprintf(codeKeyFmt, code), recipeID, 0).Result()
		if err != nil {
			return "", err
		}
		if ok {
			break
		}
		code = newCode()
	}
	if err := s.client.Set(ctx, recipeKey, code, 0).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Resolve returns the recipe id behind a code. Numeric codes resolve to
// themselves, which also covers the redis-less fallback.
func (s *Store) Resolve(ctx context.Context, code string) (int64, error) {
	if id, err := strconv.ParseInt(code, 10, 64); err == nil {
		return id, nil
	}
	if s == nil || s.client == nil {
		return 0, ErrNotFound
	}

	val, err := s.client.Get(ctx, fmt.Sprintf(codeKeyFmt, code)).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

// Close releases the redis connection.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func newCode() string {
	b := make([]byte, 6)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
