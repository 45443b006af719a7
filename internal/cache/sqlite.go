// ABOUTME: SQLite-backed embedding cache
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support, vectors stored as BLOBs
package cache

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Schema creates the embeddings table
const Schema = `
CREATE TABLE IF NOT EXISTS embeddings (
    key TEXT PRIMARY KEY,
    dim INTEGER NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteCache persists vectors across restarts
type SQLiteCache struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens or creates a cache database at path
func OpenSQLite(path string) (*SQLiteCache, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// WAL lets concurrent requests read while one writes
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	return initSQLite(conn, path)
}

// OpenSQLiteInMemory creates an in-memory cache (for testing)
func OpenSQLiteInMemory() (*SQLiteCache, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory cache: %w", err)
	}
	// every pooled connection would get its own empty :memory: database
	conn.SetMaxOpenConns(1)

	return initSQLite(conn, ":memory:")
}

func initSQLite(conn *sql.DB, path string) (*SQLiteCache, error) {
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteCache{conn: conn, path: path}, nil
}

// Get returns the vector stored under key
func (c *SQLiteCache) Get(key string) ([]float64, bool, error) {
	var blob []byte
	err := c.conn.QueryRow(`SELECT vector FROM embeddings WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blobToVector(blob), true, nil
}

// Put stores vector under key, replacing any previous value
func (c *SQLiteCache) Put(key string, vector []float64) error {
	_, err := c.conn.Exec(`
		INSERT INTO embeddings (key, dim, vector, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			dim = excluded.dim,
			vector = excluded.vector
	`, key, len(vector), vectorToBlob(vector), time.Now())
	return err
}

// Count returns the number of cached vectors
func (c *SQLiteCache) Count() (int, error) {
	var n int
	err := c.conn.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&n)
	return n, err
}

// Path returns the database file path
func (c *SQLiteCache) Path() string {
	return c.path
}

// Close closes the database connection
func (c *SQLiteCache) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}
