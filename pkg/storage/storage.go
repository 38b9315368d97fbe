// Package storage defines the key/value contract that stands in for a
// browser's local storage. Each concern owns exactly one key and always
// writes a complete value; the last write wins.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KeyCart            = "cart"
	KeyLocalPosts      = "localPosts"
	KeyLocalComments   = "localComments"
	KeyLocalProducts   = "localProducts"
	KeyProductComments = "productComments"
	KeyUserToken       = "user_token"
	KeyAuthUser        = "auth_user"
)

var (
	// ErrNotFound is returned by Get when nothing is stored under the key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrCorrupt marks a stored value that could not be decoded.
	ErrCorrupt = errors.New("storage: corrupt value")
)

// Store is implemented by every backend (memory, badger, redis, sql).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// LoadJSON decodes the value under key into dest. It reports false when the
// key is absent. Decode failures wrap ErrCorrupt so callers can degrade to an
// empty value instead of failing.
func LoadJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SaveJSON encodes v and overwrites the value under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
