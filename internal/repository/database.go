// File: internal/repository/database.go
package repository

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iyunix/go-brainchat/internal/domain"
)

// OpenDatabase opens (creating if needed) the sqlite file at path and
// migrates the audit tables. Use ":memory:" for a throwaway database.
func OpenDatabase(path string, verbose bool) (*gorm.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrapf(err, "create database directory %s", dir)
			}
		}
	}

	level := logger.Silent
	if verbose {
		level = logger.Warn
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	if err := db.AutoMigrate(&domain.SubmissionRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}
	return db, nil
}

// CloseDatabase releases the underlying connection pool.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.Close()
}
