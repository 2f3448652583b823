// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package urlcache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jongio/parseurl/urlpack"
)

// Entry file layout, all integers big-endian:
//
//	magic     [4]byte "PURL"
//	format    uint8
//	cachedAt  int64   unix nanoseconds
//	versionN  uint16
//	version   [versionN]byte
//	packedN   uint32
//	packed    [packedN]byte   urlpack binary form
const (
	entryMagic   = "PURL"
	entryFormat  = 1
	headerSize   = len(entryMagic) + 1 + 8 + 2
	maxVersionSz = math.MaxUint16
)

// ErrBadEntry is returned for cache files that are not valid entries.
var ErrBadEntry = errors.New("invalid cache entry")

type entry struct {
	cachedAt time.Time
	version  string
	packed   *urlpack.Packed
}

func encodeEntry(e entry) []byte {
	version := e.version
	if len(version) > maxVersionSz {
		version = version[:maxVersionSz]
	}
	packed := e.packed.AppendBinary(nil)

	b := make([]byte, 0, headerSize+len(version)+4+len(packed))
	b = append(b, entryMagic...)
	b = append(b, entryFormat)
	b = binary.BigEndian.AppendUint64(b, uint64(e.cachedAt.UnixNano()))
	b = binary.BigEndian.AppendUint16(b, uint16(len(version)))
	b = append(b, version...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(packed)))
	return append(b, packed...)
}

func decodeEntry(b []byte) (entry, error) {
	if len(b) < headerSize {
		return entry{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadEntry, len(b))
	}
	if string(b[:4]) != entryMagic {
		return entry{}, fmt.Errorf("%w: bad magic %q", ErrBadEntry, b[:4])
	}
	if b[4] != entryFormat {
		return entry{}, fmt.Errorf("%w: unsupported format %d", ErrBadEntry, b[4])
	}

	cachedAt := time.Unix(0, int64(binary.BigEndian.Uint64(b[5:13])))
	vn := int(binary.BigEndian.Uint16(b[13:15]))
	rest := b[headerSize:]
	if len(rest) < vn+4 {
		return entry{}, fmt.Errorf("%w: truncated version", ErrBadEntry)
	}
	version := string(rest[:vn])
	rest = rest[vn:]

	pn := binary.BigEndian.Uint32(rest)
	rest = rest[4:]
	if uint64(pn) != uint64(len(rest)) {
		return entry{}, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrBadEntry, len(rest), pn)
	}

	p, err := urlpack.Unmarshal(rest)
	if err != nil {
		return entry{}, fmt.Errorf("%w: %w", ErrBadEntry, err)
	}
	return entry{cachedAt: cachedAt, version: version, packed: p}, nil
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial entry.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	// Concurrent writers of the same key can race on rename on some
	// platforms; retry with a short backoff.
	var renameErr error
	for attempt := 0; attempt < 5; attempt++ {
		if renameErr = os.Rename(tmpPath, path); renameErr == nil {
			return nil
		}
		if attempt < 4 {
			time.Sleep(time.Duration(20*(attempt+1)) * time.Millisecond)
		}
	}
	_ = os.Remove(tmpPath)
	return fmt.Errorf("failed to rename temp file: %w", renameErr)
}
