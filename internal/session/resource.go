package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResourceResolver maps a logical resource id (e.g. a schema's base name)
// to the file that should back it, preferring the user data directory
// over the shared one (spec §4.L).
type ResourceResolver struct {
	UserDataDir   string
	SharedDataDir string
}

// Resolve returns the path to name under UserDataDir if it exists there,
// else under SharedDataDir if it exists there, else an error.
func (r ResourceResolver) Resolve(name string) (string, error) {
	if p := filepath.Join(r.UserDataDir, name); r.UserDataDir != "" && fileExists(p) {
		return p, nil
	}
	if p := filepath.Join(r.SharedDataDir, name); r.SharedDataDir != "" && fileExists(p) {
		return p, nil
	}
	return "", fmt.Errorf("session: resource %q not found under user or shared data directories", name)
}

// ResolveForWrite returns the user-data-directory path for name without
// requiring it to already exist, the form compilation output and
// user-dictionary writes use.
func (r ResourceResolver) ResolveForWrite(name string) (string, error) {
	if r.UserDataDir == "" {
		return "", fmt.Errorf("session: no user data directory configured")
	}
	return filepath.Join(r.UserDataDir, name), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
