package compiler

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/username/imecore/internal/mmap"
)

// formatFieldLen is the fixed width reserved for the NUL-padded format
// string at the front of every artifact's header (spec §6.2).
const formatFieldLen = 32

// artifactHeader is the on-disk layout compiled artifacts share: a format
// tag and the checksums that gate incremental rebuild (spec §6.2), laid
// out through the mmap.File substrate so the header alone can be read
// without decoding the payload. The payload itself — the Vocabulary/
// Script/reverse-index body — is gob-encoded: no example repo in the
// corpus rolls its own binary container format for arbitrary Go structs,
// and gob is the standard library's purpose-built answer for exactly that
// (a private on-disk cache format, not a wire protocol with
// cross-language or schema-evolution requirements).
type artifactHeader struct {
	Format             string
	DictFileChecksum   uint32
	SchemaFileChecksum uint32
}

// writeArtifact serializes header and payload to path through a fresh
// mapped file, then shrinks the backing file to its exact size.
func writeArtifact(path string, header artifactHeader, payload any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("compiler: encode %q: %w", path, err)
	}
	body := buf.Bytes()

	f, err := mmap.Create(path, int64(formatFieldLen+12+len(body)))
	if err != nil {
		return fmt.Errorf("compiler: create %q: %w", path, err)
	}
	defer f.Close()

	headerOff, err := f.Allocate(formatFieldLen + 12)
	if err != nil {
		return fmt.Errorf("compiler: allocate header in %q: %w", path, err)
	}
	region := f.Find(headerOff, formatFieldLen+12)
	copy(region[:formatFieldLen], header.Format)
	f.PutUint32(headerOff+formatFieldLen, header.DictFileChecksum)
	f.PutUint32(headerOff+formatFieldLen+4, header.SchemaFileChecksum)
	f.PutUint32(headerOff+formatFieldLen+8, uint32(len(body)))

	if len(body) > 0 {
		payloadOff, err := f.Allocate(len(body))
		if err != nil {
			return fmt.Errorf("compiler: allocate payload in %q: %w", path, err)
		}
		copy(f.Find(payloadOff, len(body)), body)
	}

	if err := f.Flush(); err != nil {
		return fmt.Errorf("compiler: flush %q: %w", path, err)
	}
	return f.ShrinkToFit()
}

// readHeader opens path read-only and returns its header without
// decoding the payload, the minimal work checksum gating needs.
func readHeader(path string) (artifactHeader, bool) {
	f, err := mmap.OpenRO(path)
	if err != nil {
		return artifactHeader{}, false
	}
	defer f.Close()

	base := f.Base()
	if len(base) < formatFieldLen+12 {
		return artifactHeader{}, false
	}
	format := readNulPadded(base[:formatFieldLen])
	return artifactHeader{
		Format:             format,
		DictFileChecksum:   f.Uint32(formatFieldLen),
		SchemaFileChecksum: f.Uint32(formatFieldLen + 4),
	}, true
}

// readPayload opens path read-only and decodes its full payload into
// dst (a pointer), returning the header alongside it. Used by `imeutil
// decompile-table` and by session schema loading.
func readPayload(path string, dst any) (artifactHeader, error) {
	f, err := mmap.OpenRO(path)
	if err != nil {
		return artifactHeader{}, fmt.Errorf("compiler: open %q: %w", path, err)
	}
	defer f.Close()

	base := f.Base()
	if len(base) < formatFieldLen+12 {
		return artifactHeader{}, fmt.Errorf("compiler: %q too short to be a valid artifact", path)
	}
	header := artifactHeader{
		Format:             readNulPadded(base[:formatFieldLen]),
		DictFileChecksum:   f.Uint32(formatFieldLen),
		SchemaFileChecksum: f.Uint32(formatFieldLen + 4),
	}
	n := f.Uint32(formatFieldLen + 8)
	payloadOff := mmap.Offset(formatFieldLen + 12)
	body := f.Find(payloadOff, int(n))
	if body == nil && n > 0 {
		return artifactHeader{}, fmt.Errorf("compiler: %q payload truncated", path)
	}
	if n > 0 {
		if err := gob.NewDecoder(bytes.NewReader(body)).Decode(dst); err != nil {
			return artifactHeader{}, fmt.Errorf("compiler: decode %q: %w", path, err)
		}
	}
	return header, nil
}

func readNulPadded(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
