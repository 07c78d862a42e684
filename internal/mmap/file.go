// Package mmap implements the mapped-file substrate (spec §4.A): an
// offset-based arena over a file-backed region, grown by doubling and
// addressed by position-independent offsets counted from the start of
// the region, so the resulting byte layout can be mapped again in a
// later process without pointer fix-up.
//
// Structures built on this substrate never hold a Go pointer across a
// Grow: every reference into the region is an Offset, resolved against
// the current base only at the point of use.
package mmap

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Offset is a signed 32-bit byte position counted from the start of the
// mapping it was taken from: interpreting it requires only the base
// address (or byte slice) of that mapping.
type Offset int32

// Null is the zero offset, returned alongside an error by Allocate and
// CopyString. It is also where the first allocation of a new file
// starts, so Find and ReadString treat it as an ordinary position.
const Null Offset = 0

// IsNull reports whether the offset is the zero offset.
func (o Offset) IsNull() bool { return o == Null }

// File is a growable, file-backed mapped region. Zero value is not usable;
// construct with Create, OpenRW, or OpenRO.
type File struct {
	f        *os.File
	data     []byte
	cap      int64
	size     int64 // bytes allocated so far (the "arena" high-water mark)
	readOnly bool
}

const initialCapacity = 1 << 16 // 64 KiB

// Create allocates a new read-write mapped file at path with an initial
// capacity of at least cap bytes (rounded up to the next power of two, a
// minimum of 64 KiB).
func Create(path string, cap int64) (*File, error) {
	if cap < initialCapacity {
		cap = initialCapacity
	}
	cap = nextPow2(cap)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("mmap: create %s: %w", path, err)
	}
	if err := f.Truncate(cap); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: truncate %s: %w", path, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(cap), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: map %s: %w", path, err)
	}
	return &File{f: f, data: data, cap: cap}, nil
}

// OpenRW opens an existing mapped file for reading and writing (appending
// new allocations at its current size).
func OpenRW(path string) (*File, error) {
	return open(path, false)
}

// OpenRO opens an existing mapped file read-only. Allocate and Grow are
// unavailable on the result.
func OpenRO(path string) (*File, error) {
	return open(path, true)
}

func open(path string, readOnly bool) (*File, error) {
	flag := os.O_RDWR
	prot := unix.PROT_READ | unix.PROT_WRITE
	if readOnly {
		flag = os.O_RDONLY
		prot = unix.PROT_READ
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("mmap: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("mmap: %s is empty", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: map %s: %w", path, err)
	}
	return &File{f: f, data: data, cap: size, size: size, readOnly: readOnly}, nil
}

func nextPow2(n int64) int64 {
	p := int64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Base returns the raw mapped region. Do not retain slices into it across
// a call to Allocate that triggers a Grow.
func (m *File) Base() []byte { return m.data }

// Size returns the high-water mark of bytes allocated in the arena.
func (m *File) Size() int64 { return m.size }

// Allocate reserves n zeroed bytes at the end of the arena and returns
// their offset. It grows the underlying mapping (by capacity doubling) if
// there isn't enough room.
//
// Callers must re-resolve any previously obtained slice of Base() after
// calling Allocate, since Grow closes and reopens the mapping.
func (m *File) Allocate(n int) (Offset, error) {
	if m.readOnly {
		return Null, fmt.Errorf("mmap: allocate on read-only mapping")
	}
	if n <= 0 {
		return Null, fmt.Errorf("mmap: invalid allocation size %d", n)
	}
	needed := m.size + int64(n)
	if needed > m.cap {
		if err := m.grow(needed); err != nil {
			return Null, err
		}
	}
	off := m.size
	m.size = needed
	for i := off; i < needed; i++ {
		m.data[i] = 0
	}
	if off > 1<<31-1 {
		return Null, fmt.Errorf("mmap: capacity exceeds 32-bit offset space")
	}
	return Offset(off), nil
}

// grow doubles capacity until it covers `needed`, remapping the file.
// Per the mapped-file contract, this invalidates any slice taken from
// Base() before the call.
func (m *File) grow(needed int64) error {
	newCap := m.cap
	for newCap < needed {
		newCap *= 2
	}
	if err := unix.Munmap(m.data); err != nil {
		return fmt.Errorf("mmap: munmap during grow: %w", err)
	}
	if err := m.f.Truncate(newCap); err != nil {
		return fmt.Errorf("mmap: truncate during grow: %w", err)
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, int(newCap), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap: remap during grow: %w", err)
	}
	m.data = data
	m.cap = newCap
	return nil
}

// Find returns the byte slice of length n starting at offset off.
func (m *File) Find(off Offset, n int) []byte {
	if off < 0 || int64(off)+int64(n) > int64(len(m.data)) {
		return nil
	}
	return m.data[off : int64(off)+int64(n)]
}

// CopyString allocates a NUL-terminated copy of s and returns its offset.
func (m *File) CopyString(s string) (Offset, error) {
	off, err := m.Allocate(len(s) + 1)
	if err != nil {
		return Null, err
	}
	copy(m.data[off:], s)
	m.data[int64(off)+int64(len(s))] = 0
	return off, nil
}

// ReadString reads a NUL-terminated string starting at offset off.
func (m *File) ReadString(off Offset) string {
	if off < 0 {
		return ""
	}
	start := int64(off)
	end := start
	for end < int64(len(m.data)) && m.data[end] != 0 {
		end++
	}
	return string(m.data[start:end])
}

// PutUint32 / Uint32 store and load little-endian 32-bit words at a byte
// offset, used by header fields (checksums, counts).
func (m *File) PutUint32(off Offset, v uint32) {
	binary.LittleEndian.PutUint32(m.data[off:], v)
}

func (m *File) Uint32(off Offset) uint32 {
	return binary.LittleEndian.Uint32(m.data[off:])
}

// ShrinkToFit truncates the backing file to the current high-water mark,
// discarding unused capacity reserved by geometric growth.
func (m *File) ShrinkToFit() error {
	if m.readOnly {
		return fmt.Errorf("mmap: shrink on read-only mapping")
	}
	if err := unix.Munmap(m.data); err != nil {
		return err
	}
	if err := m.f.Truncate(m.size); err != nil {
		return err
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, int(m.size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	m.data = data
	m.cap = m.size
	return nil
}

// Flush synchronizes the mapping to disk.
func (m *File) Flush() error {
	return unix.Msync(m.data, unix.MS_SYNC)
}

// Close unmaps the region and closes the underlying file descriptor.
func (m *File) Close() error {
	if m.data != nil {
		_ = unix.Munmap(m.data)
		m.data = nil
	}
	return m.f.Close()
}

// Remove closes and deletes the underlying file.
func (m *File) Remove() error {
	path := m.f.Name()
	if err := m.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
