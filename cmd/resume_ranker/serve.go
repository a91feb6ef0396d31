package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirankm/resume-ranker/internal/config"
	"github.com/kirankm/resume-ranker/internal/db"
	"github.com/kirankm/resume-ranker/internal/logging"
	"github.com/kirankm/resume-ranker/internal/notify"
	"github.com/kirankm/resume-ranker/internal/server"
	"github.com/kirankm/resume-ranker/internal/server/ratelimit"
	"github.com/kirankm/resume-ranker/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing admin signup/login, resume upload and listing,
ranking and candidate email endpoints. Settings come from the environment
(.env is loaded) and can be overridden by a JSON file given with --config.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a JSON config file merged over the environment")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeDeps, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDeps()

	srv, err := server.New(server.Options{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		MaxJSONBytes:   cfg.MaxJSONBytes,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Int64("max_upload_bytes", cfg.MaxUploadBytes),
		zap.Int64("max_json_bytes", cfg.MaxJSONBytes),
	)
	return srv.Run(ctx)
}

// loadServeConfig reads the environment and overlays the optional file.
func loadServeConfig(path string) (*config.Config, error) {
	envCfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if path == "" {
		return envCfg, nil
	}

	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	merged := fileCfg.MergeWithDefaults(*envCfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// buildDeps opens every collaborator of the server. The returned func
// closes the database.
func buildDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (server.Deps, func(), error) {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("failed to load JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("failed to load password config: %w", err)
	}
	mailConfig, err := config.NewMailConfig()
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("failed to load mail config: %w", err)
	}

	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		return server.Deps{}, nil, err
	}
	mailer, err := newMailer(mailConfig, logger)
	if err != nil {
		return server.Deps{}, nil, err
	}

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("failed to open database: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}

	return server.Deps{
		Store:     store,
		Blobs:     blobs,
		Mailer:    mailer,
		JWT:       jwtConfig,
		Passwords: passwordConfig,
		RateLimit: ratelimit.LoadConfig(),
		Logger:    logger,
	}, closeStore, nil
}

func openBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open s3 storage: %w", err)
		}
		return store, nil
	case config.StorageLocal, "":
		store, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open local storage: %w", err)
		}
		return store, nil
	default:
		return nil, errors.New("unknown storage backend: " + cfg.StorageBackend)
	}
}

// newMailer returns an SMTP mailer, or a disabled one when credentials are
// missing so the rest of the API still works.
func newMailer(cfg *config.MailConfig, logger *zap.Logger) (notify.Mailer, error) {
	if !cfg.Configured() {
		logger.Warn("MAIL_USERNAME/MAIL_PASSWORD not set; /send_email will fail")
		return notify.Disabled{}, nil
	}
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.Server,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.DefaultSender,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure mailer: %w", err)
	}
	return mailer, nil
}
