//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failedFields returns the struct field names that failed validation.
func failedFields(t *testing.T, err error) []string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	var fields []string
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func TestAdminSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   AdminSignupRequest
		wantField string
	}{
		{
			name:    "valid request",
			request: AdminSignupRequest{Username: "alice", Email: "alice@example.com", Password: "pw"},
		},
		{
			name:      "missing username",
			request:   AdminSignupRequest{Email: "alice@example.com", Password: "pw"},
			wantField: "Username",
		},
		{
			name:      "missing email",
			request:   AdminSignupRequest{Username: "alice", Password: "pw"},
			wantField: "Email",
		},
		{
			name:      "invalid email",
			request:   AdminSignupRequest{Username: "alice", Email: "not-an-email", Password: "pw"},
			wantField: "Email",
		},
		{
			name:      "missing password",
			request:   AdminSignupRequest{Username: "alice", Email: "alice@example.com"},
			wantField: "Password",
		},
		{
			name:      "password beyond bcrypt limit",
			request:   AdminSignupRequest{Username: "alice", Email: "alice@example.com", Password: strings.Repeat("p", 73)},
			wantField: "Password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, failedFields(t, err), tt.wantField)
		})
	}
}

func TestAdminLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&AdminLoginRequest{Username: "alice", Password: "pw"}).Validate())
	assert.Contains(t, failedFields(t, (&AdminLoginRequest{Username: "alice"}).Validate()), "Password")
	assert.Contains(t, failedFields(t, (&AdminLoginRequest{Password: "pw"}).Validate()), "Username")
}

func TestRankRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "valid", body: `{"job_description":"go developer","resumes":["a","b"]}`},
		{name: "empty resume strings allowed", body: `{"job_description":"go","resumes":[""]}`},
		{name: "missing job description", body: `{"resumes":["a"]}`, wantField: "JobDescription"},
		{name: "missing resumes", body: `{"job_description":"go"}`, wantField: "Resumes"},
		{name: "empty resumes", body: `{"job_description":"go","resumes":[]}`, wantField: "Resumes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RankRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, failedFields(t, err), tt.wantField)
		})
	}
}

func TestSendEmailRequest_Validate(t *testing.T) {
	assert.NoError(t, (&SendEmailRequest{Email: "jane@example.com", Message: "hi"}).Validate())
	assert.Contains(t, failedFields(t, (&SendEmailRequest{Message: "hi"}).Validate()), "Email")
	assert.Contains(t, failedFields(t, (&SendEmailRequest{Email: "jane@example.com"}).Validate()), "Message")
	assert.Contains(t, failedFields(t, (&SendEmailRequest{Email: "jane", Message: "hi"}).Validate()), "Email")
}

func TestResponseJSONShape(t *testing.T) {
	signupErr, err := json.Marshal(SignupResponse{Success: false, Error: "Email already exists"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Email already exists"}`, string(signupErr))

	upload, err := json.Marshal(UploadResponse{Message: "File uploaded successfully", ExtractedText: ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"File uploaded successfully","extracted_text":""}`, string(upload))

	rank, err := json.Marshal(RankResponse{RankedCandidates: []RankedCandidate{{Name: "Candidate 1", Score: 54.29}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ranked_candidates":[{"name":"Candidate 1","score":54.29}]}`, string(rank))
}
