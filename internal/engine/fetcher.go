// Package engine decides whether a listings request is answered from the cached
// snapshot or from the remote API, and keeps the snapshot file up to date.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/pricefetch/internal/config"
	"github.com/rshade/pricefetch/internal/engine/cache"
	"github.com/rshade/pricefetch/internal/listings"
)

// Source tells where a Result's snapshot came from.
type Source string

// Result sources.
const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// CredentialResolver supplies the API key and expiry window for a fetch.
type CredentialResolver interface {
	Resolve(ctx context.Context) (config.Resolution, error)
}

// SnapshotStore is the subset of cache.Store the fetcher needs.
type SnapshotStore interface {
	IsValid(expiryMinutes int) bool
	Load() (*cache.Snapshot, error)
	Save(snap *cache.Snapshot) error
}

// ListingsClient performs the remote listings request.
type ListingsClient interface {
	Latest(ctx context.Context, apiKey string, req listings.Request) (*listings.Payload, error)
}

// Options controls a single Fetch call.
type Options struct {
	// Limit is the number of assets requested. Zero means listings.DefaultLimit.
	Limit int
	// Currency is the quote currency. Empty means listings.DefaultCurrency.
	Currency string
	// Refresh skips the cache validity check and always calls the API.
	Refresh bool
}

// Result is the outcome of a successful Fetch.
type Result struct {
	Snapshot *cache.Snapshot
	Source   Source
	// Credential is where the API key came from.
	Credential config.Source
	// ExpiryMinutes is the validity window that was applied.
	ExpiryMinutes int
	// PersistErr is set when a remote snapshot could not be written to the cache.
	// The snapshot is still usable.
	PersistErr error
}

// Fetcher answers listings requests from the cache or the remote API.
type Fetcher struct {
	resolver CredentialResolver
	store    SnapshotStore
	client   ListingsClient
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock replaces time.Now for stamping snapshots.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the fetcher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher wires a fetcher from its collaborators.
func NewFetcher(resolver CredentialResolver, store SnapshotStore, client ListingsClient, opts ...Option) *Fetcher {
	f := &Fetcher{
		resolver: resolver,
		store:    store,
		client:   client,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns a listings snapshot. A valid cached snapshot is returned without
// a network call unless opts.Refresh is set. Otherwise exactly one request is
// made; on success the snapshot is stamped and saved. Any failure before the
// save returns a nil Result and leaves the cache file untouched.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) (*Result, error) {
	log := f.logger.With().Str("operation", "fetch").Logger()

	res, err := f.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	expiry := res.Config.ExpiryMinutes
	if expiry <= 0 {
		expiry = config.DefaultExpiryMinutes
	}

	currency := strings.ToUpper(strings.TrimSpace(opts.Currency))
	if !opts.Refresh && f.store.IsValid(expiry) {
		snap, loadErr := f.store.Load()
		switch {
		case loadErr != nil:
			// The file changed between the validity check and the read.
			log.Warn().Err(loadErr).Msg("cached snapshot vanished, fetching")
		case !quotedIn(snap, currency):
			log.Debug().Str("currency", currency).Msg("cached snapshot has no quotes in currency, fetching")
		default:
			log.Debug().
				Time("fetched_at", snap.FetchedAt).
				Int("assets", len(snap.Listings())).
				Msg("serving cached snapshot")
			return &Result{
				Snapshot:      snap,
				Source:        SourceCache,
				Credential:    res.Credential.Source,
				ExpiryMinutes: expiry,
			}, nil
		}
	}

	req := listings.Request{
		Start:    1,
		Limit:    opts.Limit,
		Currency: currency,
	}
	log.Debug().
		Bool("refresh", opts.Refresh).
		Int("limit", req.Limit).
		Str("currency", req.Currency).
		Str("credential_source", string(res.Credential.Source)).
		Msg("requesting listings")

	start := time.Now()
	payload, err := f.client.Latest(ctx, res.Credential.Key, req)
	if err != nil {
		log.Error().Err(err).Dur("duration_ms", time.Since(start)).Msg("listings request failed")
		return nil, err
	}

	snap := cache.NewSnapshot(payload, f.now())
	result := &Result{
		Snapshot:      snap,
		Source:        SourceRemote,
		Credential:    res.Credential.Source,
		ExpiryMinutes: expiry,
	}

	if saveErr := f.store.Save(snap); saveErr != nil {
		if !errors.Is(saveErr, cache.ErrCacheWrite) {
			saveErr = fmt.Errorf("%w: %w", cache.ErrCacheWrite, saveErr)
		}
		log.Warn().Err(saveErr).Msg("snapshot not cached")
		result.PersistErr = saveErr
	}

	log.Info().
		Int("assets", len(snap.Listings())).
		Dur("duration_ms", time.Since(start)).
		Msg("listings fetched")
	return result, nil
}

// quotedIn reports whether the snapshot carries quotes in currency. An empty
// currency or an empty snapshot always matches.
func quotedIn(snap *cache.Snapshot, currency string) bool {
	assets := snap.Listings()
	if currency == "" || len(assets) == 0 {
		return true
	}
	_, ok := assets[0].QuoteIn(currency)
	return ok
}
