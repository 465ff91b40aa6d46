// Package geocode provides address geocoding via Census Geocoder (US-only
// primary) and Google Geocoding (global fallback and sole provider for
// non-US addresses).
package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client geocodes a single address, returning a point, a provider-
// canonicalized address, and the raw response, or reporting zero
// results. Zero results is a normal return, not an error.
type Client interface {
	Geocode(ctx context.Context, addr AddressInput) (*Result, error)
}

// AddressInput is a single address to geocode. Address is the full
// one-line address as contributed; CountryCode is the resolved
// ISO-3166 code and decides whether the Census pre-pass is attempted.
type AddressInput struct {
	ID          string // optional identifier for batch correlation
	Address     string
	CountryCode string

	// Street/City/State/ZipCode are accepted for callers that already
	// have structured US addresses; when Address is empty they are
	// joined to form the one-line address sent to either provider.
	Street  string
	City    string
	State   string
	ZipCode string
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64
	Longitude   float64
	Source      string // "census" or "google"
	Quality     string // "rooftop", "range", "centroid", "approximate"
	Matched     bool
	ResultCount int
	Address     string          // provider-canonicalized address
	Raw         json.RawMessage // full raw provider response
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables the Google Geocoding API.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for both Census and Google requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second rate limit for geocoder calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithCensusDisabled turns off the Census pre-pass even for US addresses,
// routing every call straight to Google.
func WithCensusDisabled() Option {
	return func(g *geocoder) {
		g.censusDisabled = true
	}
}

type geocoder struct {
	httpClient     *http.Client
	googleKey      string
	limiter        *rate.Limiter
	censusDisabled bool
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(50, 50),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode tries the Census one-line API first for US addresses (free,
// good rooftop precision), then falls back to Google; non-US addresses
// go directly to Google, which is the only provider with international
// coverage.
func (g *geocoder) Geocode(ctx context.Context, addr AddressInput) (*Result, error) {
	if !g.censusDisabled && addr.CountryCode == "US" {
		result, err := g.geocodeCensus(ctx, addr)
		if err == nil && result.Matched {
			return result, nil
		}
	}

	if g.googleKey != "" {
		googleResult, googleErr := g.geocodeGoogle(ctx, addr)
		if googleErr == nil {
			return googleResult, nil
		}
		return nil, googleErr
	}

	return &Result{Matched: false}, nil
}

// formatOneLine formats an address as a single line for either provider.
func formatOneLine(addr AddressInput) string {
	if addr.Address != "" {
		return addr.Address
	}
	parts := []string{addr.Street, addr.City, addr.State, addr.ZipCode}
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return joinNonEmpty(nonEmpty)
}

func joinNonEmpty(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
