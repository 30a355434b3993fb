package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	k BLOB PRIMARY KEY,
	v BLOB
) WITHOUT ROWID;
`

// SQLiteDB implements DB on a single SQLite table. Keys compare bytewise,
// so prefix scans are range scans on the primary key.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the SQLite database file at path.
func NewSQLite(path string) (*SQLiteDB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	// One connection keeps writes serialised and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

// Get retrieves a value by key. Returns ErrNotFound if the key does not exist.
func (s *SQLiteDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get: %w", err)
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

// Put stores a key-value pair.
func (s *SQLiteDB) Put(key, value []byte) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO kv (k, v) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("sqlite put: %w", err)
	}
	return nil
}

// Delete removes a key.
func (s *SQLiteDB) Delete(key []byte) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// Has checks if a key exists.
func (s *SQLiteDB) Has(key []byte) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM kv WHERE k = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite has: %w", err)
	}
	return true, nil
}

// ForEach iterates over all keys with the given prefix in key order. Rows
// are read in full before fn runs, so fn may write to the DB.
func (s *SQLiteDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	var (
		rows *sql.Rows
		err  error
	)
	end := prefixEnd(prefix)
	switch {
	case len(prefix) == 0:
		rows, err = s.db.Query(`SELECT k, v FROM kv ORDER BY k`)
	case end == nil:
		rows, err = s.db.Query(`SELECT k, v FROM kv WHERE k >= ? ORDER BY k`, prefix)
	default:
		rows, err = s.db.Query(`SELECT k, v FROM kv WHERE k >= ? AND k < ? ORDER BY k`, prefix, end)
	}
	if err != nil {
		return fmt.Errorf("sqlite scan: %w", err)
	}

	type kv struct{ k, v []byte }
	var entries []kv
	for rows.Next() {
		var e kv
		if err := rows.Scan(&e.k, &e.v); err != nil {
			rows.Close()
			return fmt.Errorf("sqlite scan: %w", err)
		}
		if e.v == nil {
			e.v = []byte{}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("sqlite scan: %w", err)
	}
	rows.Close()

	for _, e := range entries {
		if err := fn(e.k, e.v); err != nil {
			return err
		}
	}
	return nil
}

// NewBatch returns a batch applied in one transaction.
func (s *SQLiteDB) NewBatch() Batch {
	return &sqliteBatch{db: s}
}

// Close closes the database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type sqliteBatch struct {
	db  *SQLiteDB
	ops []batchOp
}

func (b *sqliteBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: clone(key), value: clone(value)})
	return nil
}

func (b *sqliteBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: clone(key), delete: true})
	return nil
}

func (b *sqliteBatch) Commit() error {
	tx, err := b.db.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite batch: %w", err)
	}
	for _, op := range b.ops {
		if op.delete {
			_, err = tx.Exec(`DELETE FROM kv WHERE k = ?`, op.key)
		} else {
			_, err = tx.Exec(`INSERT OR REPLACE INTO kv (k, v) VALUES (?, ?)`, op.key, op.value)
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite batch: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite batch: %w", err)
	}
	b.ops = nil
	return nil
}
