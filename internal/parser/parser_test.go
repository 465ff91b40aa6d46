package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilityregistry/linker/internal/facility"
)

func newUploaded() *facility.FacilityListItem {
	return &facility.FacilityListItem{Status: facility.StatusUploaded}
}

func TestParseSuccess(t *testing.T) {
	item := newUploaded()
	err := Parse(item, "country,name,address", []string{"US", "Acme Mfg", "100 Main St"})
	require.NoError(t, err)
	assert.Equal(t, facility.StatusParsed, item.Status)
	assert.Equal(t, "US", item.CountryCode)
	assert.Equal(t, "Acme Mfg", item.Name)
	assert.Equal(t, "100 Main St", item.Address)
	require.Len(t, item.ProcessingResults, 1)
	assert.Equal(t, facility.ActionParse, item.ProcessingResults[0].Action)
	assert.False(t, item.ProcessingResults[0].Error)
}

func TestParsePreGeocoded(t *testing.T) {
	item := newUploaded()
	err := Parse(item, "country,name,address,lat,lng", []string{"DE", "Beta Werk", "Hauptstr 1", "52.5", "13.4"})
	require.NoError(t, err)
	assert.Equal(t, facility.StatusParsed, item.Status)
	require.NotNil(t, item.GeocodedPoint)
	assert.InDelta(t, 52.5, item.GeocodedPoint.Lat, 0.0001)
	assert.InDelta(t, 13.4, item.GeocodedPoint.Lng, 0.0001)
	assert.Equal(t, true, item.ProcessingResults[0].Data["pre_geocoded"])
}

func TestParseUnknownCountry(t *testing.T) {
	item := newUploaded()
	err := Parse(item, "country,name,address", []string{"Narnia", "Acme Mfg", "100 Main St"})
	require.NoError(t, err)
	assert.Equal(t, facility.StatusErrorParsing, item.Status)
	assert.Contains(t, item.ProcessingResults[0].Message, "Narnia")
}

func TestParseMissingName(t *testing.T) {
	item := newUploaded()
	err := Parse(item, "country,name,address", []string{"US", "", "100 Main St"})
	require.NoError(t, err)
	assert.Equal(t, facility.StatusErrorParsing, item.Status)
}

func TestParseRequiresUploadedStatus(t *testing.T) {
	item := &facility.FacilityListItem{Status: facility.StatusParsed}
	err := Parse(item, "country,name,address", []string{"US", "Acme", "100 Main St"})
	require.ErrorIs(t, err, ErrNotUploaded)
}

func TestParseDeterministic(t *testing.T) {
	header := "country,name,address"
	row := []string{"US", "Acme Mfg", "100 Main St"}

	a := newUploaded()
	require.NoError(t, Parse(a, header, row))
	b := newUploaded()
	require.NoError(t, Parse(b, header, row))

	assert.Equal(t, a.Status, b.Status)
	assert.Equal(t, a.CountryCode, b.CountryCode)
	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, a.Address, b.Address)
	assert.Equal(t, a.ProcessingResults[0].Action, b.ProcessingResults[0].Action)
}
