// Package sqlkv stores local storage keys in a single relational table
// managed by the goose migrations.
package sqlkv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront/pkg/storage"
)

// Entry is one row of the local_storage table.
type Entry struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey"`
	Value      string    `gorm:"column:value;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "local_storage" }

// Store implements storage.Store on top of GORM.
type Store struct {
	db        *gorm.DB
	namespace string
	now       func() time.Time
}

// New returns a Store. Keys are prefixed with "namespace:" when namespace is set.
func New(db *gorm.DB, namespace string) *Store {
	return &Store{db: db, namespace: namespace, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var row Entry
	err := s.db.WithContext(ctx).Where("storage_key = ?", s.key(key)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sql get %s: %w", key, err)
	}
	return row.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	row := Entry{StorageKey: s.key(key), Value: value, UpdatedAt: s.now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("sql set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("storage_key = ?", s.key(key)).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("sql remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}
