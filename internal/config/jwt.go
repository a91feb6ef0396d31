package config

import (
	"fmt"
	"time"
)

// DefaultJWTIssuer is the iss claim of issued tokens.
const DefaultJWTIssuer = "resume-ranker"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	hours, err := envInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}

	cfg := &JWTConfig{
		Secret:          envString("JWT_SECRET", ""),
		ExpirationHours: hours,
		Issuer:          DefaultJWTIssuer,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TTL is the lifetime of an issued token.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.Issuer == "" {
		c.Issuer = DefaultJWTIssuer
	}
	return nil
}
