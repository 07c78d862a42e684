// Package userdb implements the pluggable key/value store behind user
// dictionaries (spec §4.E): cursor-based query/jump/fetch/update/erase,
// transactions, and snapshot backup/restore. Two backends are provided:
// a sorted-text file (textdb.go, the primary/default backend) and a
// SQLite-backed store (sqldb.go) for callers that want concurrent
// access or larger dictionaries than a flat file scans well.
package userdb

import "fmt"

// Entry is one (key, value) pair as seen by a Cursor.
type Entry struct {
	Key   string
	Value string
}

// Cursor iterates entries in ascending key order starting from the
// position it was created at.
type Cursor interface {
	// Next advances the cursor, returning false once exhausted.
	Next() bool
	// Entry returns the entry at the cursor's current position.
	Entry() Entry
}

// metaPrefix namespaces metadata keys (e.g. "/user_id", the tick
// counter) away from dictionary entries, matching the leading
// reserved-byte convention spec §4.E describes.
const metaPrefix = "\x01"

// UserDb is the abstract store a UserDictionary is built on.
type UserDb interface {
	// Query returns a cursor over every key with the given prefix, in
	// ascending order — the access pattern UserDictionary's alphabetical
	// scan relies on.
	Query(prefix string) (Cursor, error)
	// Jump returns a cursor positioned at the first key >= key.
	Jump(key string) (Cursor, error)
	// Fetch returns the value stored at key, if any.
	Fetch(key string) (string, bool, error)
	// Update stores (or overwrites) the value at key.
	Update(key, value string) error
	// Erase removes key, if present.
	Erase(key string) error

	BeginTransaction() error
	CommitTransaction() error
	AbortTransaction() error

	// Backup writes a full snapshot to path.
	Backup(path string) error
	// Restore replaces the db's contents with a snapshot read from path.
	Restore(path string) error

	Meta(key string) (string, bool, error)
	SetMeta(key, value string) error

	Close() error
}

func metaKey(key string) string { return metaPrefix + key }

var errClosed = fmt.Errorf("userdb: db is closed")
