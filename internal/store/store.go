// Package store persists saved portfolio items in SQLite. Only inputs are
// stored; evaluations and probability estimates are always recomputed.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrReservedID is returned when saving an item under the preview id.
	ErrReservedID = errors.New("item id is reserved")
)

const targetKey = "target"

// Store wraps a SQLite database of portfolio items.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens (or creates) the database at path and runs migrations. The path
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = constants.DefaultDatabasePath
	}
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	logger.Info("opened item store",
		zap.String("op", "store.Open"),
		zap.String("path", path),
	)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS items (
			id         TEXT PRIMARY KEY,
			position   INTEGER NOT NULL,
			payload    TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// List returns every saved item in the order it was first saved.
func (s *Store) List(ctx context.Context) ([]portfolio.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []portfolio.Item{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var item portfolio.Item
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns the item saved under id.
func (s *Store) Get(ctx context.Context, id string) (portfolio.Item, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM items WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return portfolio.Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return portfolio.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	var item portfolio.Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return portfolio.Item{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	return item, nil
}

// Save inserts the item, or replaces the item with the same id while keeping
// its position. Items without an id are assigned one.
func (s *Store) Save(ctx context.Context, item portfolio.Item) (portfolio.Item, error) {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == constants.PreviewItemID {
		return portfolio.Item{}, fmt.Errorf("%w: %s", ErrReservedID, item.ID)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return portfolio.Item{}, fmt.Errorf("encode item %s: %w", item.ID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (id, position, payload, created_at, updated_at)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM items), ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, item.ID, string(payload), now, now)
	if err != nil {
		return portfolio.Item{}, fmt.Errorf("save item %s: %w", item.ID, err)
	}

	s.logger.Debug("saved item",
		zap.String("op", "store.Save"),
		zap.String("id", item.ID),
	)
	return item, nil
}

// Delete removes the item saved under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// SetTarget stores the savings target used with the saved items.
func (s *Store) SetTarget(ctx context.Context, target float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, targetKey, fmt.Sprintf("%g", target))
	if err != nil {
		return fmt.Errorf("save target: %w", err)
	}
	return nil
}

// Target returns the stored savings target, if any.
func (s *Store) Target(ctx context.Context) (float64, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, targetKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load target: %w", err)
	}
	var target float64
	if _, err := fmt.Sscan(value, &target); err != nil {
		return 0, false, fmt.Errorf("parse target %q: %w", value, err)
	}
	return target, true, nil
}

// Portfolio overlays the stored items and target on base. Base values are
// kept for anything the store does not hold.
func (s *Store) Portfolio(ctx context.Context, base portfolio.Portfolio) (portfolio.Portfolio, error) {
	items, err := s.List(ctx)
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	if len(items) > 0 {
		base.Items = items
	}
	target, ok, err := s.Target(ctx)
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	if ok {
		base.Target = target
	}
	return base, nil
}
