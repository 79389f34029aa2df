package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/citruscounter/citruscounter/internal/model"
)

// Fixed keys for the key-value table. The names match the keys the mobile
// application used in AsyncStorage, which keeps the backend's expectations
// and any migration tooling straightforward.
const (
	// KeyUserData holds the cached Identity as JSON.
	KeyUserData = "userData"
	// KeyFarmerName holds the display name separately for report templates.
	KeyFarmerName = "farmerName"
	// KeyLandSize holds the farm land size in acres.
	KeyLandSize = "savedlandsize"
	// KeyTotalTrees holds the farm tree count.
	KeyTotalTrees = "savedTotalTrees"
	// KeyLastCount holds the most recent successful count.
	KeyLastCount = "lastCount"
)

// Store provides sqlite-backed persistence for identity, farm metadata,
// and the local count-history mirror.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better crash safety.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, "citruscounter.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("local store not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check store path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// SQLite only supports one writer; the CLI is single-user anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- String-keyed values: identity JSON, farm metadata, last count
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Local mirror of server-reported counting history, keyed by phone.
	-- The UNIQUE constraint deduplicates entries re-reported on every
	-- counting response.
	CREATE TABLE IF NOT EXISTS counts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone TEXT NOT NULL,
		date TEXT NOT NULL,
		citrus_count INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(phone, date, citrus_count)
	);

	CREATE INDEX IF NOT EXISTS idx_counts_phone ON counts(phone);
	`

	if _, err := s.db.ExecContext(context.Background(), schema); err != nil {
		return err
	}
	return nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
// Last-writer-wins: all writes originate from the same user session.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the store. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// SaveIdentity caches the identity locally. The farmer name is additionally
// stored under its own key so report templates can read it directly.
func (s *Store) SaveIdentity(ctx context.Context, identity model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := s.Set(ctx, KeyUserData, string(data)); err != nil {
		return err
	}
	return s.Set(ctx, KeyFarmerName, identity.Name)
}

// Identity returns the cached identity, or ErrNotLoggedIn when absent.
func (s *Store) Identity(ctx context.Context) (model.Identity, error) {
	raw, err := s.Get(ctx, KeyUserData)
	if errors.Is(err, ErrKeyNotFound) {
		return model.Identity{}, ErrNotLoggedIn
	}
	if err != nil {
		return model.Identity{}, err
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return model.Identity{}, fmt.Errorf("corrupt identity record: %w", err)
	}
	return identity, nil
}

// ClearIdentity implements logout: it removes the cached identity, the
// farmer name, the last count, and that phone's history mirror.
// Farm metadata survives logout; it belongs to the farm, not the account.
func (s *Store) ClearIdentity(ctx context.Context) error {
	identity, err := s.Identity(ctx)
	if err != nil && !errors.Is(err, ErrNotLoggedIn) {
		return err
	}

	for _, key := range []string{KeyUserData, KeyFarmerName, KeyLastCount} {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}

	if identity.Phone != "" {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM counts WHERE phone = ?", identity.Phone); err != nil {
			return fmt.Errorf("failed to clear count history: %w", err)
		}
	}
	return nil
}

// SaveFarmMetadata validates and stores the farm metadata under its fixed keys.
func (s *Store) SaveFarmMetadata(ctx context.Context, md model.FarmMetadata) error {
	if err := md.Validate(); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyLandSize, strconv.Itoa(md.LandSizeAcres)); err != nil {
		return err
	}
	return s.Set(ctx, KeyTotalTrees, strconv.Itoa(md.TotalTrees))
}

// FarmMetadata returns the saved farm metadata, or ErrNoFarmMetadata when
// either field is absent.
func (s *Store) FarmMetadata(ctx context.Context) (model.FarmMetadata, error) {
	landSize, err := s.Get(ctx, KeyLandSize)
	if errors.Is(err, ErrKeyNotFound) {
		return model.FarmMetadata{}, ErrNoFarmMetadata
	}
	if err != nil {
		return model.FarmMetadata{}, err
	}

	totalTrees, err := s.Get(ctx, KeyTotalTrees)
	if errors.Is(err, ErrKeyNotFound) {
		return model.FarmMetadata{}, ErrNoFarmMetadata
	}
	if err != nil {
		return model.FarmMetadata{}, err
	}

	md := model.FarmMetadata{}
	if md.LandSizeAcres, err = strconv.Atoi(landSize); err != nil {
		return model.FarmMetadata{}, fmt.Errorf("corrupt land size record: %w", err)
	}
	if md.TotalTrees, err = strconv.Atoi(totalTrees); err != nil {
		return model.FarmMetadata{}, fmt.Errorf("corrupt total trees record: %w", err)
	}
	return md, nil
}

// SaveLastCount stores the most recent successful count.
func (s *Store) SaveLastCount(ctx context.Context, count int) error {
	return s.Set(ctx, KeyLastCount, strconv.Itoa(count))
}

// LastCount returns the most recent successful count, or ErrNoLastCount.
func (s *Store) LastCount(ctx context.Context) (int, error) {
	raw, err := s.Get(ctx, KeyLastCount)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, ErrNoLastCount
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt last count record: %w", err)
	}
	return count, nil
}

// AppendCounts merges history entries into the local mirror. Entries the
// mirror already holds are ignored, so re-reporting the same history on
// every counting response is harmless.
func (s *Store) AppendCounts(ctx context.Context, entries []model.CountEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, entry := range entries {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO counts (phone, date, citrus_count) VALUES (?, ?, ?)",
			entry.Phone, entry.Date, entry.CitrusCount)
		if err != nil {
			return fmt.Errorf("failed to append count entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit count entries: %w", err)
	}
	return nil
}

// CountHistory returns the mirrored history for a phone number, ordered by
// date and then insertion order.
func (s *Store) CountHistory(ctx context.Context, phone string) ([]model.CountEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT phone, date, citrus_count FROM counts WHERE phone = ? ORDER BY date, id", phone)
	if err != nil {
		return nil, fmt.Errorf("failed to query count history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.CountEntry, 0)
	for rows.Next() {
		var entry model.CountEntry
		if err := rows.Scan(&entry.Phone, &entry.Date, &entry.CitrusCount); err != nil {
			return nil, fmt.Errorf("failed to scan count entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate count history: %w", err)
	}
	return entries, nil
}
