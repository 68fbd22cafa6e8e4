package soup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache stores responses in a single key value table.
type SQLiteCache struct {
	db            *sql.DB
	query, insert *sql.Stmt
}

const sqliteCacheSchema = "CREATE TABLE IF NOT EXISTS responses (k TEXT PRIMARY KEY UNIQUE, v BLOB)"

func NewSQLiteCache(uri string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	db.SetMaxOpenConns(1)
	c, err := newSQLiteCache(db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return c, nil
}

func newSQLiteCache(db *sql.DB) (*SQLiteCache, error) {
	if _, err := db.ExecContext(context.Background(), sqliteCacheSchema); err != nil {
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	q, err := db.Prepare("SELECT v FROM responses WHERE k = ? LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare cache query: %w", err)
	}
	i, err := db.Prepare("INSERT OR REPLACE INTO responses VALUES (?, ?)")
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to prepare cache insert: %w", err), q.Close())
	}
	return &SQLiteCache{db, q, i}, nil
}

func (c *SQLiteCache) Key(req *http.Request) (string, error) { return requestKey(req) }

func (c *SQLiteCache) Get(k string, req *http.Request) (*http.Response, error) {
	bs := []byte(nil)
	if err := c.query.QueryRowContext(req.Context(), k).Scan(&bs); errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return readResponse(bs, req)
}

func (c *SQLiteCache) Set(k string, req *http.Request, res *http.Response) error {
	bs, err := dumpResponse(req, res)
	if err != nil {
		return err
	}
	_, err = c.insert.ExecContext(req.Context(), k, bs)
	return err
}

func (c *SQLiteCache) Close() error {
	return errors.Join(c.query.Close(), c.insert.Close(), c.db.Close())
}
