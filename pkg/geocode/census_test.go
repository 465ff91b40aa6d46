package geocode

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeCensusMatch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(`{"result":{"addressMatches":[
		{"coordinates":{"x":-77.03,"y":38.89},"matchedAddress":"100 MAIN ST, WASHINGTON, DC, 20001"}
	]}}`))
	defer srv.Close()

	g := &geocoder{
		httpClient: newRewriteClient(srv.URL, censusOneLineURL),
		limiter:    newTestLimiter(),
	}

	result, err := g.geocodeCensus(context.Background(), AddressInput{Address: "100 Main St, Washington, DC"})
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "census", result.Source)
	assert.Equal(t, "rooftop", result.Quality)
	assert.InDelta(t, 38.89, result.Latitude, 0.001)
	assert.InDelta(t, -77.03, result.Longitude, 0.001)
	assert.Equal(t, 1, result.ResultCount)
}

func TestGeocodeCensusNoMatch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(`{"result":{"addressMatches":[]}}`))
	defer srv.Close()

	g := &geocoder{
		httpClient: newRewriteClient(srv.URL, censusOneLineURL),
		limiter:    newTestLimiter(),
	}

	result, err := g.geocodeCensus(context.Background(), AddressInput{Address: "nowhere"})
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, 0, result.ResultCount)
}
