package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rshade/pricefetch/internal/listings"
)

// timestampKey is the field injected into the upstream payload to record the fetch time.
const timestampKey = "timestamp"

// millisPerSecond converts between the float timestamp and UnixMilli.
const millisPerSecond = 1000

var (
	errMissingTimestamp = errors.New("missing timestamp field")
	errBadTimestamp     = errors.New("timestamp is not a number")
)

// Snapshot is one fetched listings payload together with the time it was fetched.
type Snapshot struct {
	// FetchedAt is the moment the payload was received, at millisecond precision.
	FetchedAt time.Time

	// Payload is the upstream listings document.
	Payload listings.Payload
}

// NewSnapshot stamps payload with fetchedAt.
func NewSnapshot(payload *listings.Payload, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{FetchedAt: fetchedAt.Truncate(time.Millisecond)}
	if payload != nil {
		s.Payload = *payload
	}
	return s
}

// Listings returns the assets in upstream order.
func (s *Snapshot) Listings() []listings.Asset {
	return s.Payload.Data
}

// Age returns how long ago the snapshot was fetched, relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// IsFresh reports whether the snapshot is younger than expiry.
// The boundary is exclusive, and a timestamp in the future is never fresh.
func (s *Snapshot) IsFresh(now time.Time, expiry time.Duration) bool {
	if expiry <= 0 {
		return false
	}
	age := s.Age(now)
	return age >= 0 && age < expiry
}

// MarshalJSON writes the upstream payload with the injected epoch-seconds timestamp.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	fields, err := s.Payload.Fields()
	if err != nil {
		return nil, err
	}
	ts, err := json.Marshal(float64(s.FetchedAt.UnixMilli()) / millisPerSecond)
	if err != nil {
		return nil, fmt.Errorf("encoding timestamp: %w", err)
	}
	fields[timestampKey] = ts
	return json.Marshal(fields)
}

// UnmarshalJSON parses a cache document. A missing or non-numeric timestamp is an error.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	if s == nil {
		return errors.New("cannot unmarshal into nil Snapshot")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	raw, ok := fields[timestampKey]
	if !ok {
		return errMissingTimestamp
	}
	var seconds float64
	if string(raw) == "null" {
		return fmt.Errorf("%w: null", errBadTimestamp)
	}
	if err := json.Unmarshal(raw, &seconds); err != nil {
		return fmt.Errorf("%w: %s", errBadTimestamp, string(raw))
	}
	delete(fields, timestampKey)

	var payload listings.Payload
	if err := payload.FromFields(fields); err != nil {
		return err
	}

	s.FetchedAt = time.UnixMilli(int64(math.Round(seconds * millisPerSecond)))
	s.Payload = payload
	return nil
}
