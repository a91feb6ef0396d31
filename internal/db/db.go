// Package db persists admin accounts and resume records.
package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// Admin is an account allowed to view the dashboard.
type Admin struct {
	ID           uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:150;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Resume is an uploaded document and the text extracted from it.
type Resume struct {
	ID         uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	Filename   string    `json:"filename" gorm:"size:255;not null"`
	StorageKey string    `json:"storage_key" gorm:"size:64;not null;uniqueIndex"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the persistence boundary used by the API layer.
type Store interface {
	CreateAdmin(ctx context.Context, username, email, passwordHash string) (*Admin, error)
	AdminExistsByEmail(ctx context.Context, email string) (bool, error)
	AdminExistsByUsername(ctx context.Context, username string) (bool, error)
	// GetAdminByUsername returns nil, nil when no admin matches.
	GetAdminByUsername(ctx context.Context, username string) (*Admin, error)
	CreateResume(ctx context.Context, filename, storageKey, text string) (*Resume, error)
	// ListResumes returns every resume, oldest first.
	ListResumes(ctx context.Context) ([]Resume, error)
	Close() error
}

// Open picks a backend from the database URL. postgres:// URLs use a pgx
// pool; anything else is treated as a SQLite file path, with an optional
// sqlite:// prefix.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Connect(ctx, databaseURL)
	default:
		return OpenSQLite(sqlitePath(databaseURL))
	}
}

func sqlitePath(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	// sqlite:///data.db is a relative path, sqlite:////tmp/data.db is absolute.
	if path != databaseURL && strings.HasPrefix(path, "/") {
		path = path[1:]
	}
	return path
}
