package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirankm/resume-ranker/internal/config"
	"github.com/kirankm/resume-ranker/internal/db"
	"github.com/kirankm/resume-ranker/internal/notify"
	"github.com/kirankm/resume-ranker/internal/server/ratelimit"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory db.Store.
type memStore struct {
	mu      sync.Mutex
	admins  []db.Admin
	resumes []db.Resume

	createResumeErr error
	listErr         error
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) CreateAdmin(_ context.Context, username, email, passwordHash string) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username || a.Email == email {
			return nil, db.ErrDuplicate
		}
	}
	admin := db.Admin{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.admins = append(m.admins, admin)
	return &admin, nil
}

func (m *memStore) AdminExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AdminExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetAdminByUsername(_ context.Context, username string) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			admin := a
			return &admin, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateResume(_ context.Context, filename, storageKey, text string) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createResumeErr != nil {
		return nil, m.createResumeErr
	}
	r := db.Resume{ID: uuid.New(), Filename: filename, StorageKey: storageKey, Text: text, CreatedAt: time.Now()}
	m.resumes = append(m.resumes, r)
	return &r, nil
}

func (m *memStore) ListResumes(_ context.Context) ([]db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]db.Resume(nil), m.resumes...), nil
}

func (m *memStore) Close() error { return nil }

// memBlobs is an in-memory storage.BlobStore.
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string][]byte)}
}

func (b *memBlobs) Put(_ context.Context, key, _ string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.objects[key] = append([]byte(nil), data...)
	return nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBlobs) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type sentMail struct {
	Recipient, Subject, Body string
}

// fakeMailer records messages instead of delivering them.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return &notify.DeliveryError{Recipient: recipient, Err: f.err}
	}
	f.sent = append(f.sent, sentMail{recipient, subject, body})
	return nil
}

var errBoom = errors.New("boom")

type testEnv struct {
	server *Server
	store  *memStore
	blobs  *memBlobs
	mailer *fakeMailer
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough-for-hs256",
		ExpirationHours: 1,
		Issuer:          config.DefaultJWTIssuer,
	}
}

// newTestEnv builds a server over fakes. Rate limiting is off unless rl is set.
func newTestEnv(t *testing.T, rl *ratelimit.Config) *testEnv {
	t.Helper()
	return newTestEnvWithOptions(t, Options{MaxUploadBytes: 1 << 20}, rl)
}

func newTestEnvWithOptions(t *testing.T, opts Options, rl *ratelimit.Config) *testEnv {
	t.Helper()

	env := &testEnv{store: newMemStore(), blobs: newMemBlobs(), mailer: &fakeMailer{}}
	srv, err := New(opts, Deps{
		Store:     env.store,
		Blobs:     env.blobs,
		Mailer:    env.mailer,
		JWT:       testJWTConfig(),
		Passwords: &config.PasswordConfig{BcryptCost: 4},
		RateLimit: rl,
	})
	require.NoError(t, err)
	t.Cleanup(srv.rateLimiter.Stop)
	env.server = srv
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
