package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rshade/pricefetch/internal/config"
	"github.com/rshade/pricefetch/internal/engine/cache"
	"github.com/rshade/pricefetch/internal/listings"
)

// Messages shown for a missing or unknown cached asset.
const (
	msgNoCache  = "No cached data found. Please fetch data first."
	msgNotFound = "Cryptocurrency '%s' not found in the cached data."
)

// userError carries a message for the terminal while keeping the cause
// available to errors.Is and errors.As.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// explain turns err into the diagnostic printed for the user.
func explain(err error) error {
	if err == nil {
		return nil
	}
	var ue *userError
	if errors.As(err, &ue) {
		return err
	}
	return &userError{msg: describeError(err), err: err}
}

func describeError(err error) string {
	var httpErr *listings.HTTPError
	var netErr net.Error

	switch {
	case errors.Is(err, config.ErrNoCredential):
		return "No API key available. Set " + config.EnvAPIKey + " or run 'pricefetch config init'."
	case errors.As(err, &httpErr):
		if httpErr.Unauthorized() {
			return fmt.Sprintf("HTTP error occurred: %v (check your API key)", httpErr)
		}
		return fmt.Sprintf("HTTP error occurred: %v", httpErr)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "The request timed out."
	case errors.Is(err, listings.ErrNetwork):
		return fmt.Sprintf("Request error occurred: %v", err)
	case errors.Is(err, listings.ErrResponseParse):
		return fmt.Sprintf("Error parsing JSON response: %v", err)
	case errors.Is(err, cache.ErrCacheNotFound):
		return msgNoCache
	case errors.Is(err, cache.ErrCacheRead):
		return fmt.Sprintf("Error reading cached data: %v", err)
	case errors.Is(err, cache.ErrCacheWrite):
		return fmt.Sprintf("Error saving data file: %v", err)
	default:
		return err.Error()
	}
}
