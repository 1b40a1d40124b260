// Package cache persists the most recent listings snapshot as a single JSON file
// and decides whether that snapshot is still fresh.
//
// The file holds the upstream listings payload unchanged plus an injected
// "timestamp" field (epoch seconds, fractional). A snapshot is fresh while its
// age is strictly below the configured expiry window. Any problem reading the
// file (missing, truncated, no numeric timestamp) makes the snapshot stale
// rather than failing the caller.
//
// Refreshing never merges: Save replaces the whole file through a temporary
// file and a rename.
package cache
