// Package assetio persists an in-memory container.Buffer to disk and
// answers freshness questions so a build can skip up-to-date outputs.
package assetio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/konstatoivanen/pkassetc/internal/codec"
	"github.com/konstatoivanen/pkassetc/internal/container"
)

// PersistResult mirrors the writer's three-way outcome: a failed write, a
// successful write, or a verified up-to-date skip recorded by the caller.
type PersistResult int

const (
	// Failed indicates a fatal I/O or integrity error; the caller should
	// log and continue with the next file.
	Failed PersistResult = -1
	// Written indicates the asset was compiled and written to disk.
	Written PersistResult = 0
	// UpToDate indicates the caller determined the destination was
	// already current and skipped the write. assetio itself never
	// returns this value; it exists so call sites share the same
	// three-way status vocabulary FreshnessOracle callers report.
	UpToDate PersistResult = 1
)

// Writer persists Buffers to disk, applying padding, the Huffman
// compression envelope and an optional debug-build roundtrip check.
type Writer struct {
	// ForceNoCompression disables the compression envelope unconditionally.
	ForceNoCompression bool
	// DebugRoundtrip re-reads the file after writing and byte-compares it
	// against the buffer that produced it.
	DebugRoundtrip bool
}

// Persist writes buf to path, returning Written on success or Failed on
// any I/O or integrity failure. It never returns UpToDate; freshness is
// the caller's responsibility via FreshnessOracle.
func (w Writer) Persist(ctx context.Context, path string, buf *container.Buffer) PersistResult {
	if err := ctx.Err(); err != nil {
		return Failed
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Failed
	}

	buf.PadTo8()
	hdr, err := buf.Header()
	if err != nil {
		return Failed
	}

	payload := buf.Bytes()[container.HeaderSize:]
	hdr.UncompressedSize = uint32(buf.Len())
	hdr.IsCompressed = 0

	finalPayload := payload
	if !w.ForceNoCompression && len(payload) > 0 {
		if encoded, ok := codec.Encode(payload, container.HeaderSize); ok {
			finalPayload = encoded
			hdr.IsCompressed = 1
		}
	}

	out := make([]byte, 0, container.HeaderSize+len(finalPayload))
	out = append(out, hdr.Encode()...)
	out = append(out, finalPayload...)

	if err := writeAtomic(path, out); err != nil {
		return Failed
	}

	if w.DebugRoundtrip {
		if err := verifyRoundtrip(path, out); err != nil {
			return Failed
		}
	}
	return Written
}

// writeAtomic writes data to a temp file in the same directory and
// renames it into place, so a concurrent reader never observes a header
// without its payload.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("assetio: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("assetio: write temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("assetio: close temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("assetio: rename into place: %w", err)
	}
	return nil
}

func verifyRoundtrip(path string, want []byte) error {
	got, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("assetio: reopen for roundtrip check: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("assetio: roundtrip mismatch for %s", path)
	}
	return nil
}
