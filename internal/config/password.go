package config

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds accepted from BCRYPT_COST.
const (
	MinBcryptCost     = 10
	MaxBcryptCost     = 14
	DefaultBcryptCost = 12
)

// MaxPasswordBytes is the bcrypt input limit. The pepper counts against it.
const MaxPasswordBytes = 72

// PasswordConfig hashes and verifies admin passwords.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional server-side secret appended before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default 12) and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost, err := envInt("BCRYPT_COST", DefaultBcryptCost)
	if err != nil {
		return nil, err
	}

	cfg := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}
	if cfg.BcryptCost < MinBcryptCost || cfg.BcryptCost > MaxBcryptCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", cfg.BcryptCost, MinBcryptCost, MaxBcryptCost)
	}
	return cfg, nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// Fits reports whether the peppered password is within MaxPasswordBytes.
func (c *PasswordConfig) Fits(pw string) bool {
	return len(c.peppered(pw)) <= MaxPasswordBytes
}

// HashPassword returns the bcrypt hash of the peppered password.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
