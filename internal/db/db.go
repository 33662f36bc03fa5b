// Package db provides PostgreSQL storage for saved profiles and tailoring history.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a requested record does not exist for the user key.
var ErrNotFound = errors.New("record not found")

// Store is the persistence surface used by the HTTP server.
type Store interface {
	GetProfile(ctx context.Context, userKey string) (*types.Profile, error)
	SaveProfile(ctx context.Context, userKey string, profile *types.Profile) error
	CreateHistory(ctx context.Context, userKey string, entry *HistoryEntry) error
	ListHistory(ctx context.Context, userKey string, limit int) ([]HistoryEntry, error)
	GetHistory(ctx context.Context, userKey string, id uuid.UUID) (*HistoryEntry, error)
	Ping(ctx context.Context) error
}

// HistoryEntry is a tailored profile saved against the job description it was tailored for.
type HistoryEntry struct {
	ID             uuid.UUID      `json:"id"`
	JobDescription string         `json:"job_description"`
	Content        *types.Profile `json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DefaultHistoryLimit caps ListHistory when the caller passes a non-positive limit.
const DefaultHistoryLimit = 50

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
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

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// GetProfile returns the saved base profile for userKey, or ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, userKey string) (*types.Profile, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM profiles WHERE user_key = $1`,
		userKey,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return decodeProfile(content)
}

// SaveProfile stores profile as the base profile for userKey, replacing any previous one.
func (db *DB) SaveProfile(ctx context.Context, userKey string, profile *types.Profile) error {
	if err := checkUserKey(userKey); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_key, content)
		 VALUES ($1, $2)
		 ON CONFLICT (user_key) DO UPDATE SET content = $2, updated_at = NOW()`,
		userKey, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// CreateHistory inserts entry for userKey and fills its ID and CreatedAt.
func (db *DB) CreateHistory(ctx context.Context, userKey string, entry *HistoryEntry) error {
	if err := checkUserKey(userKey); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(entry.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal history content: %w", err)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO tailoring_history (id, user_key, job_description, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		entry.ID, userKey, entry.JobDescription, jsonBytes,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	return nil
}

// ListHistory returns the newest entries for userKey first.
func (db *DB) ListHistory(ctx context.Context, userKey string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, job_description, content, created_at
		 FROM tailoring_history WHERE user_key = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return entries, nil
}

// GetHistory returns one entry owned by userKey, or ErrNotFound.
func (db *DB) GetHistory(ctx context.Context, userKey string, id uuid.UUID) (*HistoryEntry, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, job_description, content, created_at
		 FROM tailoring_history WHERE id = $1 AND user_key = $2`,
		id, userKey,
	)
	entry, err := scanHistory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return entry, err
}

func scanHistory(row pgx.Row) (*HistoryEntry, error) {
	var entry HistoryEntry
	var content []byte
	if err := row.Scan(&entry.ID, &entry.JobDescription, &content, &entry.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}
	profile, err := decodeProfile(content)
	if err != nil {
		return nil, err
	}
	entry.Content = profile
	return &entry, nil
}

func decodeProfile(content []byte) (*types.Profile, error) {
	var profile types.Profile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	profile.FillEmptyLists()
	return &profile, nil
}

func checkUserKey(userKey string) error {
	if strings.TrimSpace(userKey) == "" {
		return fmt.Errorf("user key is required")
	}
	return nil
}
