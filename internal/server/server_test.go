package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kirankm/resume-ranker/internal/config"
	"github.com/kirankm/resume-ranker/internal/server/middleware"
	"github.com/kirankm/resume-ranker/internal/server/ratelimit"
	"github.com/kirankm/resume-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RequiresDeps(t *testing.T) {
	full := Deps{
		Store:     newMemStore(),
		Blobs:     newMemBlobs(),
		Mailer:    &fakeMailer{},
		JWT:       testJWTConfig(),
		Passwords: &config.PasswordConfig{BcryptCost: 4},
	}

	tests := []struct {
		name   string
		mutate func(d *Deps)
	}{
		{"store", func(d *Deps) { d.Store = nil }},
		{"blobs", func(d *Deps) { d.Blobs = nil }},
		{"mailer", func(d *Deps) { d.Mailer = nil }},
		{"jwt", func(d *Deps) { d.JWT = nil }},
		{"passwords", func(d *Deps) { d.Passwords = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := full
			tt.mutate(&deps)
			_, err := New(Options{}, deps)
			assert.Error(t, err)
		})
	}

	srv, err := New(Options{}, full)
	require.NoError(t, err)
	defer srv.rateLimiter.Stop()
	assert.Equal(t, config.DefaultMaxUploadBytes, srv.maxUploadBytes)
	assert.Equal(t, config.DefaultMaxJSONBytes, srv.maxJSONBytes)
}

func TestAdminDashboard_RequiresToken(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postJSON(t, "/admin_signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(uploadRequest(t, "resume", "jane.docx", buildDOCX(t, "Jane Doe")))
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("no token", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/admin_dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Missing Authorization Header", decodeBody[types.ErrorResponse](t, rec).Error)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin_dashboard", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := env.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		env.server.logger = zap.New(core)

		rec := env.postJSON(t, "/admin_login", map[string]string{"username": "alice", "password": "s3cret"})
		require.Equal(t, http.StatusOK, rec.Code)
		token := decodeBody[types.LoginResponse](t, rec).Token

		req := httptest.NewRequest(http.MethodGet, "/admin_dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec = env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		views := decodeBody[[]types.ResumeView](t, rec)
		assert.Equal(t, []types.ResumeView{{Filename: "jane.docx", Text: "Jane Doe"}}, views)

		viewed := logs.FilterMessage("admin dashboard viewed").All()
		require.Len(t, viewed, 1)
		assert.Equal(t, "alice", viewed[0].ContextMap()["username"])
	})

	t.Run("handler without principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.handleAdminDashboard(rec, httptest.NewRequest(http.MethodGet, "/admin_dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/rank_resumes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDAndCORS(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("generated id", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("incoming id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		rec := env.do(req)
		assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := env.do(req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/admin_login", Method: http.MethodPost, Limit: 1, Window: time.Hour, Burst: 1},
		},
	})

	login := func() *httptest.ResponseRecorder {
		return env.postJSON(t, "/admin_login", map[string]string{"username": "x", "password": "y"})
	}

	first := login()
	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := login()
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, second)
	assert.Contains(t, body["error"], "Rate limit exceeded")

	// Other endpoints have their own buckets.
	rec := env.do(httptest.NewRequest(http.MethodGet, "/get_resumes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "10.0.0.7", clientID(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientID(req))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
