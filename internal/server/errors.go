// Package server provides the HTTP API of the resume ranker.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kirankm/resume-ranker/internal/db"
	"github.com/kirankm/resume-ranker/internal/notify"
	"github.com/kirankm/resume-ranker/internal/ranking"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrUsernameTaken indicates the username belongs to another admin
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return fmt.Sprintf("username already taken: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrExtractionFailed indicates an upload in a supported format that could not be parsed
type ErrExtractionFailed struct {
	Filename string
	Err      error
}

func (e *ErrExtractionFailed) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Filename, e.Err)
}

func (e *ErrExtractionFailed) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Duplicate accounts map to 400 rather than 409 to keep the public contract.
func HTTPStatus(err error) int {
	var (
		emailExists  *ErrEmailAlreadyExists
		usernameUsed *ErrUsernameTaken
		badCreds     *ErrInvalidCredentials
		invalid      *ErrValidation
		validation   validator.ValidationErrors
		extraction   *ErrExtractionFailed
		delivery     *notify.DeliveryError
		tooLarge     *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists), errors.As(err, &usernameUsed), errors.Is(err, db.ErrDuplicate):
		return http.StatusBadRequest
	case errors.As(err, &badCreds):
		return http.StatusUnauthorized
	case errors.As(err, &invalid), errors.As(err, &validation), errors.Is(err, ranking.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &delivery):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
