package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kirankm/resume-ranker/internal/config"
	"github.com/kirankm/resume-ranker/internal/notify"
	"github.com/kirankm/resume-ranker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clearServeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "UPLOAD_DIR", "STORAGE_BACKEND", "MAX_UPLOAD_BYTES", "MAX_JSON_BYTES",
		"LOG_FORMAT", "LOG_LEVEL", "S3_BUCKET", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_DEFAULT_SENDER", "MAIL_PORT", "MAIL_SERVER",
		"BCRYPT_COST", "JWT_EXPIRATION_HOURS", "RATE_LIMIT_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadServeConfig(t *testing.T) {
	clearServeEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOAD_DIR", "/tmp/env-uploads")

	t.Run("environment only", func(t *testing.T) {
		cfg, err := loadServeConfig("")
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "/tmp/env-uploads", cfg.UploadDir)
	})

	t.Run("file overrides environment", func(t *testing.T) {
		path := writeText(t, t.TempDir(), "config.json", `{"port":7070,"log_format":"json"}`)
		cfg, err := loadServeConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Port)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "/tmp/env-uploads", cfg.UploadDir)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeText(t, t.TempDir(), "config.json", `{"storage_backend":"ftp"}`)
		_, err := loadServeConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadServeConfig(filepath.Join(t.TempDir(), "none.json"))
		assert.Error(t, err)
	})
}

func TestOpenBlobStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, err := openBlobStore(context.Background(), &config.Config{StorageBackend: config.StorageLocal, UploadDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, store)
	assert.DirExists(t, dir)

	_, err = openBlobStore(context.Background(), &config.Config{StorageBackend: config.StorageS3})
	assert.Error(t, err, "bucket is required")

	_, err = openBlobStore(context.Background(), &config.Config{StorageBackend: "ftp"})
	assert.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	logger := zap.NewNop()

	m, err := newMailer(&config.MailConfig{Server: "smtp.gmail.com", Port: 587}, logger)
	require.NoError(t, err)
	assert.IsType(t, notify.Disabled{}, m)

	m, err = newMailer(&config.MailConfig{
		Server: "smtp.gmail.com", Port: 587, Username: "hr@example.com", Password: "p", DefaultSender: "hr@example.com",
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.SMTPMailer{}, m)

	_, err = newMailer(&config.MailConfig{Server: "", Port: 587, Username: "hr@example.com", Password: "p"}, logger)
	assert.Error(t, err)
}

func TestBuildDeps(t *testing.T) {
	clearServeEnv(t)
	dir := t.TempDir()
	cfg := &config.Config{
		Port:           8080,
		DatabaseURL:    filepath.Join(dir, "data.db"),
		UploadDir:      filepath.Join(dir, "uploads"),
		StorageBackend: config.StorageLocal,
	}

	t.Run("requires JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, _, err := buildDeps(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("opens everything", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		deps, closeDeps, err := buildDeps(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeDeps()

		assert.NotNil(t, deps.Store)
		assert.NotNil(t, deps.Blobs)
		assert.IsType(t, notify.Disabled{}, deps.Mailer)
		assert.Equal(t, "secret", deps.JWT.Secret)
		assert.Equal(t, config.DefaultBcryptCost, deps.Passwords.BcryptCost)
		assert.True(t, deps.RateLimit.Enabled)
		assert.FileExists(t, cfg.DatabaseURL)
	})
}
