package config

import (
	"context"
	"errors"
	"strings"
)

// EnvAPIKey is the environment variable that overrides the stored API key.
const EnvAPIKey = "CMC_API_KEY"

// ErrNoCredential means no credential source produced an API key.
var ErrNoCredential = errors.New("no API key available")

// Source names where a credential came from.
type Source string

// Credential sources, in precedence order.
const (
	SourceEnv    Source = "environment"
	SourceFile   Source = "config file"
	SourcePrompt Source = "prompt"
)

// Credential is a resolved API key and its origin.
type Credential struct {
	Key    string
	Source Source
}

// CredentialProvider is one link in the credential precedence chain.
type CredentialProvider interface {
	Source() Source
	// APIKey returns the provider's key; ok is false when it has none.
	APIKey(ctx context.Context) (key string, ok bool)
}

// ResolveCredential asks each provider in order and returns the first key found.
// Later providers are not consulted once one succeeds.
func ResolveCredential(ctx context.Context, providers ...CredentialProvider) (Credential, error) {
	for _, p := range providers {
		if p == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Credential{}, err
		}
		if key, ok := p.APIKey(ctx); ok {
			return Credential{Key: key, Source: p.Source()}, nil
		}
	}
	return Credential{}, ErrNoCredential
}

// EnvCredential reads CMC_API_KEY through an injectable lookup.
type EnvCredential struct {
	LookupEnv func(string) (string, bool)
}

// Source implements CredentialProvider.
func (EnvCredential) Source() Source { return SourceEnv }

// APIKey implements CredentialProvider. Whitespace-only values count as unset.
func (e EnvCredential) APIKey(context.Context) (string, bool) {
	if e.LookupEnv == nil {
		return "", false
	}
	v, ok := e.LookupEnv(EnvAPIKey)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// StoredCredential serves the key of an already loaded configuration.
type StoredCredential struct {
	Config *Configuration
}

// Source implements CredentialProvider.
func (StoredCredential) Source() Source { return SourceFile }

// APIKey implements CredentialProvider.
func (s StoredCredential) APIKey(context.Context) (string, bool) {
	if s.Config == nil || s.Config.APIKey == "" {
		return "", false
	}
	return s.Config.APIKey, true
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc struct {
	From Source
	Fn   func(ctx context.Context) (string, bool)
}

// Source implements CredentialProvider.
func (f CredentialFunc) Source() Source { return f.From }

// APIKey implements CredentialProvider.
func (f CredentialFunc) APIKey(ctx context.Context) (string, bool) {
	return f.Fn(ctx)
}
