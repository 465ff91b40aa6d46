package geocode

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeUSPrefersCensus(t *testing.T) {
	census := httptest.NewServer(jsonHandler(`{"result":{"addressMatches":[
		{"coordinates":{"x":-77.0,"y":38.9},"matchedAddress":"100 Main St"}
	]}}`))
	defer census.Close()

	g := &geocoder{
		httpClient: newRewriteClient(census.URL, censusOneLineURL),
		limiter:    newTestLimiter(),
		googleKey:  "unused",
	}

	result, err := g.Geocode(context.Background(), AddressInput{Address: "100 Main St", CountryCode: "US"})
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "census", result.Source)
}

func TestGeocodeNonUSGoesToGoogle(t *testing.T) {
	google := httptest.NewServer(jsonHandler(`{
		"status": "OK",
		"results": [{"geometry": {"location": {"lat": 52.5, "lng": 13.4}, "location_type": "ROOFTOP"}, "formatted_address": "Berlin"}]
	}`))
	defer google.Close()

	g := &geocoder{
		httpClient: newRewriteClient(google.URL, googleGeocodeURL),
		limiter:    newTestLimiter(),
		googleKey:  "test-key",
	}

	result, err := g.Geocode(context.Background(), AddressInput{Address: "Hauptstr 1", CountryCode: "DE"})
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "google", result.Source)
}

func TestGeocodeNoProviderConfigured(t *testing.T) {
	g := &geocoder{
		httpClient:     nil,
		limiter:        newTestLimiter(),
		censusDisabled: true,
	}

	result, err := g.Geocode(context.Background(), AddressInput{Address: "x", CountryCode: "FR"})
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(WithGoogleAPIKey("k"), WithRateLimit(10))
	assert.NotNil(t, c)
}
