// Package badgerkv persists local storage keys in an embedded Badger database.
package badgerkv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

// Store wraps a Badger database instance.
type Store struct {
	db        *badger.DB
	namespace string
}

// Open opens (or creates) the database at path. An empty path runs Badger in
// memory, which is what the tests use.
func Open(ctx context.Context, path, namespace string, logg *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "path", path), "badger storage opened")
	}
	return &Store{db: db, namespace: namespace}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("badger get %s: %w", key, err)
	}
	return string(value), nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), []byte(value))
	})
}

func (s *Store) Remove(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Ping reports whether the database is still open.
func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db closed")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) key(k string) []byte {
	if s.namespace == "" {
		return []byte(k)
	}
	return []byte(s.namespace + ":" + k)
}
