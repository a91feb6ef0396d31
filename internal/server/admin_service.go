package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirankm/resume-ranker/internal/config"
	"github.com/kirankm/resume-ranker/internal/db"
	"github.com/kirankm/resume-ranker/internal/types"
)

// AdminService registers and authenticates admin accounts.
type AdminService struct {
	store          db.Store
	passwordConfig *config.PasswordConfig
}

// NewAdminService creates a new AdminService with the given dependencies
func NewAdminService(store db.Store, passwordConfig *config.PasswordConfig) *AdminService {
	return &AdminService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// Register creates an admin account. Email and username must both be unused.
func (s *AdminService) Register(ctx context.Context, req *types.AdminSignupRequest) (*db.Admin, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	if !s.passwordConfig.Fits(req.Password) {
		return nil, &ErrValidation{Field: "password", Message: fmt.Sprintf("longer than %d bytes", config.MaxPasswordBytes)}
	}

	exists, err := s.store.AdminExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	exists, err = s.store.AdminExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, &ErrUsernameTaken{Username: username}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// A concurrent signup can still win the race; the unique index reports it
	admin, err := s.store.CreateAdmin(ctx, username, email, passwordHash)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Login authenticates an admin by username and password.
func (s *AdminService) Login(ctx context.Context, req *types.AdminLoginRequest) (*db.Admin, error) {
	admin, err := s.store.GetAdminByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by username: %w", err)
	}

	// Same error for unknown user and wrong password
	if admin == nil || !s.passwordConfig.VerifyPassword(req.Password, admin.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return admin, nil
}

// isConflict reports whether err is any duplicate-account error.
func isConflict(err error) bool {
	var emailExists *ErrEmailAlreadyExists
	var usernameUsed *ErrUsernameTaken
	return errors.As(err, &emailExists) || errors.As(err, &usernameUsed) || errors.Is(err, db.ErrDuplicate)
}
