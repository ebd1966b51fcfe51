// Package translate turns source message files into seed translations.
//
// A Translator sends one text to a translation service. TransformFile
// drives it over every message of a file, protecting positional arguments
// and stamping the file metadata for the target language.
//
// Supported services: Google Cloud Translation (v2) and LibreTranslate
// compatible HTTP endpoints.
package translate

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Translator translates a single text from source to target language.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// TranslatorFunc adapts an ordinary function to Translator.
type TranslatorFunc func(ctx context.Context, text, source, target string) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(ctx context.Context, text, source, target string) (string, error) {
	return fn(ctx, text, source, target)
}

// Client is a Translator holding resources that must be released.
type Client interface {
	Translator
	Close() error
}

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderGoogle = "google"
	ProviderLibre  = "libretranslate"
)

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for a translation service.
type Provider struct {
	// ID is the provider identifier (google, libretranslate).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string
	// APIKey authenticates the requests. For google an empty key means
	// Application Default Credentials.
	APIKey string
	// Timeout bounds a single request. Zero means no limit.
	Timeout time.Duration
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderGoogle: {
			ID:   ProviderGoogle,
			Name: "Google Cloud Translation",
		},
		ProviderLibre: {
			ID:      ProviderLibre,
			Name:    "LibreTranslate",
			BaseURL: "http://localhost:5000",
			Timeout: 60 * time.Second,
		},
	}
}

// ProviderIDs returns the known provider IDs, sorted.
func ProviderIDs() []string {
	ids := make([]string, 0, 2)
	for id := range DefaultProviders() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LookupProvider returns the default definition for id.
func LookupProvider(id string) (Provider, error) {
	p, ok := DefaultProviders()[id]
	if !ok {
		return Provider{}, fmt.Errorf("unknown provider %q (valid: %v)", id, ProviderIDs())
	}
	return p, nil
}

// Open connects to the service described by prov.
func Open(ctx context.Context, prov Provider) (Client, error) {
	switch prov.ID {
	case ProviderGoogle:
		return openGoogle(ctx, prov)
	case ProviderLibre:
		return openLibre(prov), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (valid: %v)", prov.ID, ProviderIDs())
	}
}
