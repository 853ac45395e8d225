package service

import (
	"errors"
	"go-admin-console/internal/cache"
	"go-admin-console/internal/data"
	"time"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = data.ErrNotFound
	// ErrInvalidTransition is returned when a post status change is not
	// allowed from the post's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ListCache is the part of the cache the services use for list snapshots.
type ListCache interface {
	GetJSON(key string, dst any) (bool, error)
	SetJSON(key string, value any) error
	Delete(key string) error
}

var _ ListCache = (*cache.Cache)(nil)

// snapshot wraps an optional list cache. A nil cache disables caching.
// Cache failures never fail the request; the store is the source of truth.
type snapshot struct {
	cache ListCache
	key   string
}

func (s snapshot) load(dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(s.key, dst)
	return err == nil && ok
}

func (s snapshot) store(v any) {
	if s.cache != nil {
		_ = s.cache.SetJSON(s.key, v)
	}
}

func (s snapshot) invalidate() {
	if s.cache != nil {
		_ = s.cache.Delete(s.key)
	}
}

// clock returns the current time in UTC, truncated to seconds so values
// survive a round trip through every supported database.
func clock() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
