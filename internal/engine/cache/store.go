package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Common cache errors.
var (
	ErrCacheNotFound = errors.New("no cached snapshot")
	ErrCacheRead     = errors.New("cached snapshot is unreadable")
	ErrCacheWrite    = errors.New("failed to write cached snapshot")
)

// Store reads and writes the snapshot file.
type Store struct {
	path   string
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used to report unreadable snapshots.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns a store for the snapshot file at path.
// The file and its directory are created on the first Save.
func NewStore(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache file path cannot be empty")
	}
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// IsValid reports whether a readable snapshot exists that is younger than
// expiryMinutes. Read and parse failures are logged and count as stale.
func (s *Store) IsValid(expiryMinutes int) bool {
	snap, err := s.Load()
	if err != nil {
		if errors.Is(err, ErrCacheNotFound) {
			s.logger.Debug().Str("path", s.path).Msg("no cached snapshot")
		} else {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("ignoring unreadable cache file")
		}
		return false
	}

	now := s.now()
	fresh := snap.IsFresh(now, ExpiryDuration(expiryMinutes))
	s.logger.Debug().
		Time("fetched_at", snap.FetchedAt).
		Str("age", FormatDuration(snap.Age(now))).
		Int("expiry_minutes", expiryMinutes).
		Bool("fresh", fresh).
		Msg("checked cached snapshot")
	return fresh
}

// Load reads the snapshot. It returns ErrCacheNotFound when there is no file and
// ErrCacheRead when the file cannot be read or parsed.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrCacheRead, err)
	}

	var snap Snapshot
	if unmarshalErr := json.Unmarshal(data, &snap); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheRead, unmarshalErr)
	}
	return &snap, nil
}

// Save replaces the snapshot file with snap.
func (s *Store) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrCacheWrite)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(s.path), 0o750); mkdirErr != nil {
		return fmt.Errorf("%w: creating cache directory: %w", ErrCacheWrite, mkdirErr)
	}

	// Write to temporary file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, writeErr)
	}
	if renameErr := os.Rename(tmpPath, s.path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrCacheWrite, renameErr)
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("assets", len(snap.Listings())).
		Time("fetched_at", snap.FetchedAt).
		Msg("saved snapshot")
	return nil
}

// Clear removes the snapshot file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Info describes the snapshot on disk.
type Info struct {
	Path      string
	FetchedAt time.Time
	Age       time.Duration
	Assets    int
	SizeBytes int64
}

// Status loads the snapshot and reports its metadata.
func (s *Store) Status() (*Info, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheRead, err)
	}
	return &Info{
		Path:      s.path,
		FetchedAt: snap.FetchedAt,
		Age:       snap.Age(s.now()),
		Assets:    len(snap.Listings()),
		SizeBytes: fi.Size(),
	}, nil
}
