package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirankm/resume-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postJSON(t, "/admin_signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[types.SignupResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Admin registered successfully", resp.Message)

	tests := []struct {
		name    string
		body    map[string]string
		wantMsg string
	}{
		{"missing password", map[string]string{"username": "bob", "email": "bob@example.com"}, "Missing fields"},
		{"empty body", map[string]string{}, "Missing fields"},
		{"bad email", map[string]string{"username": "bob", "email": "not-an-email", "password": "x"}, "Invalid email"},
		{"email taken", map[string]string{"username": "bob", "email": "alice@example.com", "password": "x"}, "Email already exists"},
		{"username taken", map[string]string{"username": "alice", "email": "new@example.com", "password": "x"}, "Username already exists"},
		{"password over 72 bytes", map[string]string{"username": "bob", "email": "bob@example.com", "password": strings.Repeat("é", 40)}, "Invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postJSON(t, "/admin_signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeBody[types.SignupResponse](t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}

	t.Run("body too large", func(t *testing.T) {
		rec := env.postJSON(t, "/admin_signup", map[string]string{
			"username": "bob", "email": "bob@example.com", "password": strings.Repeat("x", maxAuthBody),
		})
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		resp := decodeBody[types.SignupResponse](t, rec)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "byte limit")
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin_signup", strings.NewReader("{"))
		rec := env.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing fields", decodeBody[types.SignupResponse](t, rec).Error)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.postJSON(t, "/admin_signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("success", func(t *testing.T) {
		rec := env.postJSON(t, "/admin_login", map[string]string{"username": "alice", "password": "s3cret"})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[types.LoginResponse](t, rec)
		assert.Equal(t, "Login successful!", resp.Message)
		assert.NotEmpty(t, resp.Token)
	})

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantMsg    string
	}{
		{"wrong password", map[string]string{"username": "alice", "password": "nope"}, http.StatusUnauthorized, "Invalid username or password"},
		{"unknown user", map[string]string{"username": "bob", "password": "s3cret"}, http.StatusUnauthorized, "Invalid username or password"},
		{"missing password", map[string]string{"username": "alice"}, http.StatusBadRequest, "Username and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postJSON(t, "/admin_login", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody[types.ErrorResponse](t, rec).Error)
		})
	}
}

func TestSignupValidationMessage(t *testing.T) {
	req := types.AdminSignupRequest{Username: "a", Email: "a@b.co", Password: strings.Repeat("x", 100)}
	assert.Equal(t, "Invalid password", signupValidationMessage(req.Validate()))
	assert.Equal(t, "Missing fields", signupValidationMessage(assert.AnError))
}
