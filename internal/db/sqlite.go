package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore keeps everything in a single SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file and migrates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := gdb.AutoMigrate(&Admin{}, &Resume{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: gdb}, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateAdmin inserts a new admin account.
func (s *SQLiteStore) CreateAdmin(ctx context.Context, username, email, passwordHash string) (*Admin, error) {
	admin := &Admin{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", translate(err))
	}
	return admin, nil
}

func (s *SQLiteStore) AdminExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = ?", email)
}

func (s *SQLiteStore) AdminExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username = ?", username)
}

func (s *SQLiteStore) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Admin{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return count > 0, nil
}

// GetAdminByUsername returns nil, nil when the username is unknown.
func (s *SQLiteStore) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	var admin Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

// CreateResume inserts a resume record.
func (s *SQLiteStore) CreateResume(ctx context.Context, filename, storageKey, text string) (*Resume, error) {
	resume := &Resume{
		ID:         uuid.New(),
		Filename:   filename,
		StorageKey: storageKey,
		Text:       text,
	}
	if err := s.db.WithContext(ctx).Create(resume).Error; err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", translate(err))
	}
	return resume, nil
}

// ListResumes returns resumes in insertion order.
func (s *SQLiteStore) ListResumes(ctx context.Context) ([]Resume, error) {
	var resumes []Resume
	if err := s.db.WithContext(ctx).Order("rowid ASC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// translate maps unique violations to ErrDuplicate.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
