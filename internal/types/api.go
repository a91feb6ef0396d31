// Package types defines the JSON request and response bodies of the HTTP API.
package types

import (
	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per type.
var validate = validator.New(validator.WithRequiredStructEnabled())

// AdminSignupRequest is the body of POST /admin_signup.
type AdminSignupRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,max=72"`
}

// AdminLoginRequest is the body of POST /admin_login.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupResponse mirrors both outcomes of signup; Error is set on failure.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoginResponse carries the bearer token for the dashboard.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ResumeView is one entry of /get_resumes and /admin_dashboard.
type ResumeView struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Message       string `json:"message"`
	ExtractedText string `json:"extracted_text"`
}

// RankRequest is the body of POST /rank_resumes. Individual resumes may be
// empty strings; they score zero.
type RankRequest struct {
	JobDescription string   `json:"job_description" validate:"required"`
	Resumes        []string `json:"resumes" validate:"required,min=1"`
}

// RankedCandidate is one row of a ranking.
type RankedCandidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// RankResponse lists candidates by descending score.
type RankResponse struct {
	RankedCandidates []RankedCandidate `json:"ranked_candidates"`
}

// SendEmailRequest is the body of POST /send_email.
type SendEmailRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Validate validates the AdminSignupRequest using the validator.
func (r *AdminSignupRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AdminLoginRequest using the validator.
func (r *AdminLoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RankRequest using the validator.
func (r *RankRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SendEmailRequest using the validator.
func (r *SendEmailRequest) Validate() error {
	return validate.Struct(r)
}
