// Package config loads server settings from the environment and optional JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Default request body limits.
const (
	DefaultMaxUploadBytes int64 = 10 << 20
	// Rank requests carry the full text of every candidate resume.
	DefaultMaxJSONBytes int64 = 32 << 20
)

// S3Config holds bucket settings used when StorageBackend is "s3".
type S3Config struct {
	Bucket    string `json:"bucket,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"` // R2 / MinIO endpoint
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
}

// Config represents the server configuration. Values come from the
// environment (FromEnv) and can be overlaid by a JSON file (LoadConfig).
type Config struct {
	Port           int      `json:"port,omitempty"`
	DatabaseURL    string   `json:"database_url,omitempty"` // SQLite file path or postgres:// URL
	UploadDir      string   `json:"upload_dir,omitempty"`
	StorageBackend string   `json:"storage_backend,omitempty"` // local | s3
	S3             S3Config `json:"s3,omitempty"`
	MaxUploadBytes int64    `json:"max_upload_bytes,omitempty"`
	MaxJSONBytes   int64    `json:"max_json_bytes,omitempty"`
	LogFormat      string   `json:"log_format,omitempty"` // console | json
	LogLevel       string   `json:"log_level,omitempty"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:           8080,
		DatabaseURL:    "data.db",
		UploadDir:      "uploads",
		StorageBackend: StorageLocal,
		MaxUploadBytes: DefaultMaxUploadBytes,
		MaxJSONBytes:   DefaultMaxJSONBytes,
		LogFormat:      "console",
		LogLevel:       "info",
	}
}

// FromEnv reads the configuration from environment variables, falling back
// to Defaults for anything unset.
func FromEnv() (*Config, error) {
	def := Defaults()

	port, err := envInt("PORT", def.Port)
	if err != nil {
		return nil, err
	}
	maxUpload, err := envInt64("MAX_UPLOAD_BYTES", def.MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	maxJSON, err := envInt64("MAX_JSON_BYTES", def.MaxJSONBytes)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           port,
		DatabaseURL:    envString("DATABASE_URL", def.DatabaseURL),
		UploadDir:      envString("UPLOAD_DIR", def.UploadDir),
		StorageBackend: strings.ToLower(envString("STORAGE_BACKEND", def.StorageBackend)),
		S3: S3Config{
			Bucket:    envString("S3_BUCKET", ""),
			Region:    envString("S3_REGION", ""),
			Endpoint:  envString("S3_ENDPOINT", ""),
			AccessKey: envString("S3_ACCESS_KEY_ID", ""),
			SecretKey: envString("S3_SECRET_ACCESS_KEY", ""),
			Prefix:    envString("S3_PREFIX", ""),
		},
		MaxUploadBytes: maxUpload,
		MaxJSONBytes:   maxJSON,
		LogFormat:      strings.ToLower(envString("LOG_FORMAT", def.LogFormat)),
		LogLevel:       strings.ToLower(envString("LOG_LEVEL", def.LogLevel)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.MaxJSONBytes < 0 {
		return fmt.Errorf("config error: 'max_json_bytes' must be non-negative")
	}

	switch c.StorageBackend {
	case "", StorageLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("config error: 'upload_dir' is required for local storage")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("config error: 's3.bucket' is required for s3 storage")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return fmt.Errorf("config error: s3 access key and secret key must be set together")
		}
	default:
		return fmt.Errorf("config error: unknown storage backend %q", c.StorageBackend)
	}

	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("config error: unknown log format %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// A file loaded with LoadConfig is merged over FromEnv this way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}
	if result.StorageBackend == "" {
		result.StorageBackend = defaults.StorageBackend
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.MaxJSONBytes == 0 {
		result.MaxJSONBytes = defaults.MaxJSONBytes
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// S3 settings travel together
	if result.S3 == (S3Config{}) {
		result.S3 = defaults.S3
	}

	return result
}
