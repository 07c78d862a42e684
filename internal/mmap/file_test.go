package mmap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAllocateGrow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")
	f, err := Create(path, 1024)
	require.NoError(t, err)
	defer f.Close()

	off, err := f.CopyString("hello")
	require.NoError(t, err)
	require.Equal(t, "hello", f.ReadString(off))

	// force growth past the initial capacity
	big := make([]byte, 1<<17)
	for i := range big {
		big[i] = 'x'
	}
	off2, err := f.Allocate(len(big))
	require.NoError(t, err)
	copy(f.Base()[off2:], big)

	// earlier offset must still resolve correctly after the grow.
	require.Equal(t, "hello", f.ReadString(off))
}

func TestOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")
	f, err := Create(path, 1024)
	require.NoError(t, err)
	off, err := f.CopyString("roundtrip")
	require.NoError(t, err)
	require.NoError(t, f.Flush())
	require.NoError(t, f.Close())

	reopened, err := OpenRW(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, "roundtrip", reopened.ReadString(off))
}

func TestAllocateZeroed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")
	f, err := Create(path, 1024)
	require.NoError(t, err)
	defer f.Close()

	off, err := f.Allocate(16)
	require.NoError(t, err)
	for _, b := range f.Find(off, 16) {
		require.Equal(t, byte(0), b)
	}
}

func TestReadOnlyRejectsAllocate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")
	f, err := Create(path, 1024)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ro, err := OpenRO(path)
	require.NoError(t, err)
	defer ro.Close()
	_, err = ro.Allocate(8)
	require.Error(t, err)
}
