// ABOUTME: SQLite key-value store for reading progress, sentence annotations and preferences
// ABOUTME: File-backed so per-user reading state survives restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"paperread-app/core/interfaces"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS reading_state (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		expiry INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_reading_state_expiry ON reading_state(expiry);
`

// Client implements interfaces.Cache on top of a SQLite file.
// An expiry of 0 marks a value that never expires.
type Client struct {
	db       *sql.DB
	filePath string
	logger   interfaces.Logger
	now      func() time.Time
	stop     chan struct{}
}

// NewSQLiteCache opens (or creates) the database at filePath
func NewSQLiteCache(filePath string, logger interfaces.Logger) (*Client, error) {
	if filePath == "" {
		filePath = "paperread.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	c := &Client{
		db:       db,
		filePath: filePath,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go c.cleanupRoutine(5 * time.Minute)
	return c, nil
}

// Get returns the value for key or interfaces.ErrCacheMiss
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key, c.logger); err != nil {
		return nil, err
	}

	var value []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM reading_state WHERE key = ? AND (expiry = 0 OR expiry > ?)",
		key, c.now().Unix(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set stores value under key. A zero ttl stores it indefinitely.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	var expiry int64
	if ttl > 0 {
		expiry = c.now().Add(ttl).Unix()
	}

	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO reading_state (key, value, expiry) VALUES (?, ?, ?)",
		key, value, expiry,
	)
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Delete removes key
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM reading_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

func (c *Client) cleanupRoutine(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Client) cleanup() int64 {
	res, err := c.db.Exec("DELETE FROM reading_state WHERE expiry > 0 AND expiry <= ?", c.now().Unix())
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("Failed to remove expired reading state", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}

// Close stops the cleanup routine and closes the database
func (c *Client) Close() error {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	return c.db.Close()
}

// Stats returns entry counts and the database size
func (c *Client) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM reading_state").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_entries"] = count

	var expired int
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM reading_state WHERE expiry > 0 AND expiry <= ?", c.now().Unix(),
	).Scan(&expired)
	if err != nil {
		return nil, err
	}
	stats["expired_entries"] = expired

	var pageCount, pageSize int
	if err := c.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := c.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}
	stats["file_path"] = c.filePath

	return stats, nil
}
