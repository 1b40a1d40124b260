package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Prompt texts shown while collecting a configuration interactively.
const (
	questionAPIKey = "Enter your CoinMarketCap API key: "
	questionExpiry = "Cache expiry in minutes [60]: "
)

// Prompter collects answers from the user.
type Prompter interface {
	// Ask shows question and returns the answer line. It returns an error once
	// no more input can be read.
	Ask(ctx context.Context, question string) (string, error)
	// Notify shows an informational or warning message.
	Notify(message string)
}

// Resolution is the outcome of Resolver.Resolve.
type Resolution struct {
	// Config is the stored or prompted configuration, or defaults when neither exists.
	Config Configuration
	// Credential is the key to send with requests and where it came from.
	Credential Credential
}

// Resolver decides which credential and expiry window a run uses.
type Resolver struct {
	store     *FileStore
	prompter  Prompter
	lookupEnv func(string) (string, bool)
	logger    zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPrompter enables interactive prompting. Without one, a missing
// configuration cannot be filled in.
func WithPrompter(p Prompter) ResolverOption {
	return func(r *Resolver) { r.prompter = p }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// WithLogger sets the resolver logger.
func WithLogger(l zerolog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver returns a resolver backed by store.
func NewResolver(store *FileStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:     store,
		lookupEnv: os.LookupEnv,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the stored configuration, or prompts for a new one and
// persists it. It never fails: a persistence error is reported and the
// in-memory configuration is still returned. The API key is empty only when
// the prompt ran out of input.
func (r *Resolver) Config(ctx context.Context) Configuration {
	if stored := r.loadStored(); stored != nil {
		return *stored
	}
	return r.promptAndPersist(ctx)
}

// Reconfigure prompts for a new configuration and persists it, ignoring any
// stored one. The returned key is empty when the prompt ran out of input, in
// which case nothing is written.
func (r *Resolver) Reconfigure(ctx context.Context) Configuration {
	return r.promptAndPersist(ctx)
}

// Resolve applies the full precedence chain: environment, config file, prompt.
// An environment key short-circuits prompting and is never persisted.
// It returns ErrNoCredential when no source yields a key.
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	stored := r.loadStored()

	var prompted *Configuration
	promptProvider := CredentialFunc{
		From: SourcePrompt,
		Fn: func(ctx context.Context) (string, bool) {
			cfg := r.promptAndPersist(ctx)
			prompted = &cfg
			return cfg.APIKey, cfg.APIKey != ""
		},
	}

	cred, err := ResolveCredential(ctx,
		EnvCredential{LookupEnv: r.lookupEnv},
		StoredCredential{Config: stored},
		promptProvider,
	)

	res := Resolution{Config: Configuration{ExpiryMinutes: DefaultExpiryMinutes}}
	switch {
	case prompted != nil:
		res.Config = *prompted
	case stored != nil:
		res.Config = *stored
	}
	if err != nil {
		r.logger.Warn().Err(err).Msg("no credential resolved")
		return res, err
	}

	res.Credential = cred
	r.logger.Debug().
		Str("source", string(cred.Source)).
		Int("expiry_minutes", res.Config.ExpiryMinutes).
		Msg("credential resolved")
	return res, nil
}

// loadStored returns the config file contents, or nil when the file is
// missing or unusable.
func (r *Resolver) loadStored() *Configuration {
	cfg, err := r.store.Load()
	if err == nil {
		return cfg
	}
	if errors.Is(err, ErrConfigNotFound) {
		r.logger.Debug().Str("path", r.store.Path()).Msg("no config file")
		return nil
	}
	r.logger.Warn().Err(err).Str("path", r.store.Path()).Msg("ignoring unreadable config file")
	r.notify(fmt.Sprintf("Error reading config file: %v", err))
	return nil
}

// promptAndPersist asks for a key and expiry window, then saves them.
func (r *Resolver) promptAndPersist(ctx context.Context) Configuration {
	cfg := Configuration{ExpiryMinutes: DefaultExpiryMinutes}
	if r.prompter == nil {
		return cfg
	}

	key, ok := r.askAPIKey(ctx)
	if !ok {
		return cfg
	}
	cfg.APIKey = key

	answer, err := r.prompter.Ask(ctx, questionExpiry)
	if err != nil {
		r.logger.Debug().Err(err).Msg("no expiry answer, using default")
	}
	minutes, usedDefault := ParseExpiry(answer)
	if usedDefault {
		r.logger.Warn().Str("input", answer).Int("default", DefaultExpiryMinutes).Msg("invalid expiry input")
		r.notify(fmt.Sprintf("Invalid expiry %q, using the default of %d minutes.",
			strings.TrimSpace(answer), DefaultExpiryMinutes))
	}
	cfg.ExpiryMinutes = minutes

	if saveErr := r.store.Save(cfg); saveErr != nil {
		r.logger.Warn().Err(saveErr).Str("path", r.store.Path()).Msg("could not persist configuration")
		r.notify(fmt.Sprintf("Error saving config file: %v", saveErr))
		return cfg
	}
	r.notify("Configuration saved to " + r.store.Path())
	return cfg
}

// askAPIKey prompts until a non-empty key is entered or input runs out.
func (r *Resolver) askAPIKey(ctx context.Context) (string, bool) {
	for {
		if ctx.Err() != nil {
			return "", false
		}
		answer, err := r.prompter.Ask(ctx, questionAPIKey)
		if key := strings.TrimSpace(answer); key != "" {
			return key, true
		}
		if err != nil {
			r.logger.Debug().Err(err).Msg("prompt input exhausted")
			return "", false
		}
		r.notify("API key cannot be empty.")
	}
}

func (r *Resolver) notify(message string) {
	if r.prompter != nil {
		r.prompter.Notify(message)
	}
}
