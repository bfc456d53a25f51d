package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ Store = (*SQLiteStore)(nil)

// Document is a singleton document row.
type Document struct {
	Key       string `gorm:"primaryKey;column:doc_key"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLiteStore keeps documents in a single sqlite table.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens the database at dbpath and performs migrations.
func NewSQLiteStore(dbpath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbpath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get reads the document stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key Key) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(ctx).Where("doc_key = ?", string(key)).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Put replaces the document stored under key in a single upsert.
func (s *SQLiteStore) Put(ctx context.Context, key Key, data []byte) error {
	doc := Document{
		Key:       string(key),
		Data:      data,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
