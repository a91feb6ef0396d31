package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS admins (
	id            UUID PRIMARY KEY,
	username      VARCHAR(150) NOT NULL UNIQUE,
	email         VARCHAR(150) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS resumes (
	seq         BIGSERIAL,
	id          UUID PRIMARY KEY,
	filename    VARCHAR(255) NOT NULL,
	storage_key VARCHAR(64) NOT NULL UNIQUE,
	text        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and creates the
// tables if they are missing.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// CreateAdmin inserts a new admin account.
func (db *DB) CreateAdmin(ctx context.Context, username, email, passwordHash string) (*Admin, error) {
	admin := Admin{ID: uuid.New(), Username: username, Email: email, PasswordHash: passwordHash}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO admins (id, username, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		admin.ID, username, email, passwordHash,
	).Scan(&admin.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", pgTranslate(err))
	}
	return &admin, nil
}

func (db *DB) AdminExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin email: %w", err)
	}
	return exists, nil
}

func (db *DB) AdminExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin username: %w", err)
	}
	return exists, nil
}

// GetAdminByUsername returns nil, nil when the username is unknown.
func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	var admin Admin
	err := db.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM admins WHERE username = $1`,
		username,
	).Scan(&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

// CreateResume inserts a resume record.
func (db *DB) CreateResume(ctx context.Context, filename, storageKey, text string) (*Resume, error) {
	resume := Resume{ID: uuid.New(), Filename: filename, StorageKey: storageKey, Text: text}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, filename, storage_key, text)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		resume.ID, filename, storageKey, text,
	).Scan(&resume.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", pgTranslate(err))
	}
	return &resume, nil
}

// ListResumes returns resumes in insertion order.
func (db *DB) ListResumes(ctx context.Context) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, filename, storage_key, text, created_at
		 FROM resumes ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		var r Resume
		if err := rows.Scan(&r.ID, &r.Filename, &r.StorageKey, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

func pgTranslate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
