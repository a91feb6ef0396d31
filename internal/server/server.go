package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/kirankm/resume-ranker/internal/config"
	"github.com/kirankm/resume-ranker/internal/db"
	"github.com/kirankm/resume-ranker/internal/notify"
	"github.com/kirankm/resume-ranker/internal/server/middleware"
	"github.com/kirankm/resume-ranker/internal/server/ratelimit"
	"github.com/kirankm/resume-ranker/internal/storage"
	"github.com/kirankm/resume-ranker/internal/types"
	"go.uber.org/zap"
)

// maxAuthBody caps signup and login bodies.
const maxAuthBody = 64 << 10

// Deps are the collaborators the server is built from.
type Deps struct {
	Store     db.Store
	Blobs     storage.BlobStore
	Mailer    notify.Mailer
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	RateLimit *ratelimit.Config // nil disables rate limiting
	Logger    *zap.Logger
}

// Options tune the HTTP listener.
type Options struct {
	Port           int
	MaxUploadBytes int64
	MaxJSONBytes   int64
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       db.Store
	blobs       storage.BlobStore
	mailer      notify.Mailer
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler

	maxUploadBytes int64
	maxJSONBytes   int64
}

// New wires routes and middleware around deps.
func New(opts Options, deps Deps) (*Server, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("server: store is required")
	case deps.Blobs == nil:
		return nil, errors.New("server: blob store is required")
	case deps.Mailer == nil:
		return nil, errors.New("server: mailer is required")
	case deps.JWT == nil || deps.Passwords == nil:
		return nil, errors.New("server: jwt and password configs are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}
	maxJSON := opts.MaxJSONBytes
	if maxJSON <= 0 {
		maxJSON = config.DefaultMaxJSONBytes
	}

	s := &Server{
		store:          deps.Store,
		blobs:          deps.Blobs,
		mailer:         deps.Mailer,
		logger:         logger,
		jwtService:     NewJWTService(deps.JWT),
		maxUploadBytes: maxUpload,
		maxJSONBytes:   maxJSON,
	}
	s.authHandler = NewAuthHandler(NewAdminService(deps.Store, deps.Passwords), s.jwtService, logger)

	rlConfig := deps.RateLimit
	if rlConfig == nil {
		rlConfig = &ratelimit.Config{Enabled: false}
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	requireAdmin := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin_signup", s.authHandler.Signup)
	mux.HandleFunc("POST /admin_login", s.authHandler.Login)
	mux.Handle("GET /admin_dashboard", requireAdmin(http.HandlerFunc(s.handleAdminDashboard)))
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /get_resumes", s.handleGetResumes)
	mux.HandleFunc("POST /rank_resumes", s.handleRankResumes)
	mux.HandleFunc("POST /send_email", s.handleSendEmail)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Outermost first: request ID, logging, panic recovery, CORS, rate limit
	s.handler = middleware.RequestID(
		middleware.Logging(logger)(
			middleware.Recover(logger)(
				middleware.CORS(
					s.withRateLimit(mux)))))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second, // uploads
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// clientID identifies a client by the IP of RemoteAddr. Forwarded headers
// are ignored since they are client-controlled.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		secs := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	writeJSON(w, s.logger, http.StatusTooManyRequests, response)
}

// decodeJSON decodes a JSON body of at most limit bytes into v.
func decodeJSON(r *http.Request, v any, limit int64) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limit))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// bodyTooLarge reports whether err came from hitting a body size limit.
func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("Request body exceeds the %d byte limit", limit)
}

// writeTooLarge answers 413 for a body over limit bytes.
func writeTooLarge(w http.ResponseWriter, logger *zap.Logger, limit int64) {
	writeError(w, logger, http.StatusRequestEntityTooLarge, tooLargeMessage(limit))
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// writeError writes an {"error": message} response
func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, types.ErrorResponse{Error: message})
}
