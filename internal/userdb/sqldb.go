package userdb

import (
	"database/sql"
	"fmt"
	"os"
	"sort"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqlDb is the SQLite-backed alternative store: same UserDb contract as
// textDb, but queried through database/sql so a dictionary can grow past
// what a linear text scan handles comfortably.
type sqlDb struct {
	path string
	db   *sql.DB
	tx   *sql.Tx
}

// OpenSqlDb opens (creating if absent) a SQLite-backed userdb at path.
func OpenSqlDb(path string) (UserDb, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("userdb: open sqlite %s: %w", path, err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqlDb{path: path, db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func (d *sqlDb) q() querier {
	if d.tx != nil {
		return d.tx
	}
	return d.db
}

type sqlCursor struct {
	rows *sql.Rows
	cur  Entry
}

func (c *sqlCursor) Next() bool {
	if !c.rows.Next() {
		c.rows.Close()
		return false
	}
	var e Entry
	if err := c.rows.Scan(&e.Key, &e.Value); err != nil {
		return false
	}
	c.cur = e
	return true
}

func (c *sqlCursor) Entry() Entry { return c.cur }

func (d *sqlDb) Query(prefix string) (Cursor, error) {
	rows, err := d.q().Query(
		`SELECT key, value FROM entries WHERE key >= ? AND (key < ? OR ? = '') ORDER BY key`,
		prefix, prefixUpperBound(prefix), prefix)
	if err != nil {
		return nil, err
	}
	return &sqlCursor{rows: rows}, nil
}

func (d *sqlDb) Jump(key string) (Cursor, error) {
	rows, err := d.q().Query(`SELECT key, value FROM entries WHERE key >= ? ORDER BY key`, key)
	if err != nil {
		return nil, err
	}
	return &sqlCursor{rows: rows}, nil
}

// prefixUpperBound returns the smallest string greater than every string
// with the given prefix, used to bound a prefix range scan.
func prefixUpperBound(prefix string) string {
	if prefix == "" {
		return ""
	}
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return prefix + "\xff"
}

func (d *sqlDb) Fetch(key string) (string, bool, error) {
	var v string
	err := d.q().QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (d *sqlDb) Update(key, value string) error {
	_, err := d.q().Exec(`
		INSERT INTO entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (d *sqlDb) Erase(key string) error {
	_, err := d.q().Exec(`DELETE FROM entries WHERE key = ?`, key)
	return err
}

func (d *sqlDb) BeginTransaction() error {
	if d.tx != nil {
		return fmt.Errorf("userdb: transaction already open")
	}
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	d.tx = tx
	return nil
}

func (d *sqlDb) CommitTransaction() error {
	if d.tx == nil {
		return fmt.Errorf("userdb: no transaction open")
	}
	err := d.tx.Commit()
	d.tx = nil
	return err
}

func (d *sqlDb) AbortTransaction() error {
	if d.tx == nil {
		return fmt.Errorf("userdb: no transaction open")
	}
	err := d.tx.Rollback()
	d.tx = nil
	return err
}

func (d *sqlDb) Backup(path string) error {
	dst, err := OpenTextDb(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	cur, err := d.Query("")
	if err != nil {
		return err
	}
	for cur.Next() {
		e := cur.Entry()
		if err := dst.Update(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (d *sqlDb) Restore(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("userdb: restore source %s: %w", path, err)
	}
	src, err := OpenTextDb(path)
	if err != nil {
		return err
	}
	defer src.Close()
	if _, err := d.db.Exec(`DELETE FROM entries`); err != nil {
		return err
	}
	cur, err := src.Query("")
	if err != nil {
		return err
	}
	var keys []string
	var entries []Entry
	for cur.Next() {
		e := cur.Entry()
		entries = append(entries, e)
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	for _, e := range entries {
		if err := d.Update(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (d *sqlDb) Meta(key string) (string, bool, error) {
	var v string
	err := d.q().QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (d *sqlDb) SetMeta(key, value string) error {
	_, err := d.q().Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (d *sqlDb) Close() error {
	return d.db.Close()
}
