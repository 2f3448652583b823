// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package urlcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jongio/parseurl/logutil"
	"github.com/jongio/parseurl/metrics"
	"github.com/jongio/parseurl/urlpack"
	"github.com/sony/gobreaker"
)

// FileExt is the extension of cache entry files.
const FileExt = ".purl"

// Defaults for the disk circuit breaker.
const (
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

const (
	dirPermission  = 0o750
	filePermission = 0o600
)

// Options configures a cache Manager.
type Options struct {
	Dir     string        // Directory to store cache files
	TTL     time.Duration // Time-to-live for cache entries, 0 disables expiry
	Version string        // Entries written under a different version are misses

	// BreakerFailures is the number of disk operations that must have been
	// attempted before a 60% failure ratio opens the breaker. Negative
	// disables tripping.
	BreakerFailures int
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// Stats tracks cache hit/miss statistics.
type Stats struct {
	Hits     int `json:"hits" yaml:"hits"`
	Misses   int `json:"misses" yaml:"misses"`
	Errors   int `json:"errors" yaml:"errors"`
	Bypassed int `json:"bypassed" yaml:"bypassed"`
}

// Manager provides thread-safe file-based caching of packed URLs, keyed by the
// raw URL text, with TTL and version support. Disk access goes through a
// circuit breaker so a failing cache directory degrades to cache misses.
type Manager struct {
	dir     string
	ttl     time.Duration
	version string
	breaker *gobreaker.CircuitBreaker
	log     *logutil.ComponentLogger
	now     func() time.Time

	mu      sync.RWMutex
	statsMu sync.Mutex
	stats   Stats
}

// NewManager creates a new cache manager.
func NewManager(opts Options) *Manager {
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = DefaultBreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = DefaultBreakerTimeout
	}

	m := &Manager{
		dir:     opts.Dir,
		ttl:     opts.TTL,
		version: opts.Version,
		log:     logutil.NewLogger("urlcache").WithFields("dir", opts.Dir),
		now:     time.Now,
	}

	failures := opts.BreakerFailures
	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "urlcache",
		MaxRequests: 3,
		Interval:    opts.BreakerTimeout,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if failures < 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(failures) && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, fs.ErrNotExist)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			m.log.Warn("cache breaker state changed", "from", from.String(), "to", to.String())
			metrics.RecordBreakerState(to)
		},
	})
	return m
}

// Dir returns the cache directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Get loads the packed form of raw. It returns false on a miss, including
// expired entries, entries from another version, and while the breaker is
// open. A corrupt entry is removed and reported as an error.
func (m *Manager) Get(raw string) (*urlpack.Packed, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := m.keyPath(raw)

	out, err := m.breaker.Execute(func() (interface{}, error) {
		return os.ReadFile(path) // #nosec G304 -- path is derived from a hash
	})
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			m.recordMiss()
			return nil, false, nil
		case isBreakerOpen(err):
			m.recordBypass()
			return nil, false, nil
		}
		m.recordError()
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}

	e, err := decodeEntry(out.([]byte))
	if err != nil {
		m.recordError()
		_ = os.Remove(path)
		return nil, false, fmt.Errorf("failed to parse cache file %s: %w", filepath.Base(path), err)
	}

	if m.version != "" && e.version != m.version {
		m.recordMiss()
		return nil, false, nil
	}

	if m.ttl > 0 && m.now().Sub(e.cachedAt) > m.ttl {
		m.recordMiss()
		return nil, false, nil
	}

	m.recordHit()
	return e.packed, true, nil
}

// Set stores the packed form of raw.
func (m *Manager) Set(raw string, p *urlpack.Packed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := encodeEntry(entry{
		cachedAt: m.now(),
		version:  m.version,
		packed:   p,
	})
	path := m.keyPath(raw)

	_, err := m.breaker.Execute(func() (interface{}, error) {
		if err := os.MkdirAll(m.dir, dirPermission); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		return nil, atomicWriteFile(path, data, filePermission)
	})
	if isBreakerOpen(err) {
		m.statsMu.Lock()
		m.stats.Bypassed++
		m.statsMu.Unlock()
		return nil
	}
	return err
}

// Invalidate removes the entry for raw.
func (m *Manager) Invalidate(raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(m.keyPath(raw)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// Clear removes all cache entries in the cache directory. Other files are
// left alone.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != FileExt {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache file %s: %w", entry.Name(), err)
		}
		removed++
	}

	m.log.Debug("cache cleared", "removed", removed)
	return nil
}

// GetStats returns cache hit/miss statistics.
func (m *Manager) GetStats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// keyPath returns the file path for a raw URL. Raw URLs contain characters
// that are not valid in file names, so the key is hashed.
func (m *Manager) keyPath(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return filepath.Join(m.dir, hex.EncodeToString(sum[:])+FileExt)
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (m *Manager) recordHit() {
	m.statsMu.Lock()
	m.stats.Hits++
	m.statsMu.Unlock()
	metrics.RecordCache(metrics.ResultHit)
}

func (m *Manager) recordMiss() {
	m.statsMu.Lock()
	m.stats.Misses++
	m.statsMu.Unlock()
	metrics.RecordCache(metrics.ResultMiss)
}

func (m *Manager) recordBypass() {
	m.statsMu.Lock()
	m.stats.Misses++
	m.stats.Bypassed++
	m.statsMu.Unlock()
	metrics.RecordCache(metrics.ResultMiss)
}

func (m *Manager) recordError() {
	m.statsMu.Lock()
	m.stats.Misses++
	m.stats.Errors++
	m.statsMu.Unlock()
	metrics.RecordCache(metrics.ResultError)
}
