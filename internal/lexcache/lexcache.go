//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lexcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var ErrNotCached = errors.New("lexicon not in cache")

const (
	SCHEMA = `CREATE TABLE IF NOT EXISTS lexicon (
		name  TEXT NOT NULL,
		entry TEXT NOT NULL,
		PRIMARY KEY (name, entry)
	)`
	DELETE = `DELETE FROM lexicon WHERE name = ?`
	INSERT = `INSERT OR IGNORE INTO lexicon (name, entry) VALUES (?, ?)`
	SELECT = `SELECT entry FROM lexicon WHERE name = ? ORDER BY entry`
)

// DB - the downloaded name and illness lists, kept so that a later launch without network still has them
type DB struct {
	db *sql.DB
}

// Open - path may be ":memory:"
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("lexicon cache %s: %w", path, err)
	}
	// sqlite wants a single writer; ":memory:" also needs a single connection to stay one database
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(SCHEMA); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("lexicon cache %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Save - replace the stored list called name
func (c *DB) Save(ctx context.Context, name string, entries []string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, DELETE, name); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, INSERT)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, name, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load - the stored list called name; ErrNotCached if there is none
func (c *DB) Load(ctx context.Context, name string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, SELECT, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var e string
		if err = rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotCached, name)
	}
	return out, nil
}

func (c *DB) Close() error {
	return c.db.Close()
}
