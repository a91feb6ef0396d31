package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kirankm/resume-ranker/internal/types"
	"go.uber.org/zap"
)

// AuthHandler handles admin signup and login.
type AuthHandler struct {
	admins     *AdminService
	jwtService *JWTService
	logger     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(admins *AdminService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{admins: admins, jwtService: jwtService, logger: logger}
}

// Signup registers a new admin. Both success and failure bodies carry a
// "success" flag.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.AdminSignupRequest
	if err := decodeJSON(r, &req, maxAuthBody); err != nil {
		if bodyTooLarge(err) {
			writeJSON(w, h.logger, http.StatusRequestEntityTooLarge, types.SignupResponse{Error: tooLargeMessage(maxAuthBody)})
			return
		}
		writeJSON(w, h.logger, http.StatusBadRequest, types.SignupResponse{Error: "Missing fields"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, types.SignupResponse{Error: signupValidationMessage(err)})
		return
	}

	_, err := h.admins.Register(r.Context(), &req)
	if err != nil {
		status := HTTPStatus(err)
		msg := "internal server error"
		var emailExists *ErrEmailAlreadyExists
		var usernameUsed *ErrUsernameTaken
		var invalid *ErrValidation
		switch {
		case errors.As(err, &invalid):
			msg = "Invalid " + invalid.Field
		case errors.As(err, &emailExists):
			msg = "Email already exists"
		case errors.As(err, &usernameUsed):
			msg = "Username already exists"
		case isConflict(err):
			msg = "Email or username already exists"
		default:
			h.logger.Error("signup failed", zap.Error(err))
		}
		writeJSON(w, h.logger, status, types.SignupResponse{Error: msg})
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, types.SignupResponse{
		Success: true,
		Message: "Admin registered successfully",
	})
}

// Login exchanges valid credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.AdminLoginRequest
	if err := decodeJSON(r, &req, maxAuthBody); err != nil {
		if bodyTooLarge(err) {
			writeTooLarge(w, h.logger, maxAuthBody)
			return
		}
		writeError(w, h.logger, http.StatusBadRequest, "Username and password are required")
		return
	}
	if req.Validate() != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.admins.Login(r.Context(), &req)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusUnauthorized {
			writeError(w, h.logger, status, "Invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, h.logger, status, "internal server error")
		return
	}

	token, err := h.jwtService.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, types.LoginResponse{
		Message: "Login successful!",
		Token:   token,
	})
}

// signupValidationMessage keeps the "Missing fields" wording for absent
// values and names the field for malformed ones.
func signupValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Missing fields"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Missing fields"
		}
	}
	fe := verrs[0]
	return "Invalid " + fieldName(fe.Field())
}

func fieldName(goName string) string {
	switch goName {
	case "Email":
		return "email"
	case "Username":
		return "username"
	case "Password":
		return "password"
	default:
		return goName
	}
}
