// Package geocoder implements the Geocoder Adapter: given a PARSED row,
// either short-circuits for pre-geocoded input or calls the external
// geocoding client and records the outcome.
package geocoder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/facilityregistry/linker/internal/facility"
	"github.com/facilityregistry/linker/pkg/geocode"
)

// ErrNotParsed is returned when Geocode is called on an item that is not
// in status PARSED.
var ErrNotParsed = eris.New("geocoder: item is not in PARSED status")

// Adapter wraps a geocode.Client with the facility-domain skip/stage
// logic described by the row parser's pre-geocode flag.
type Adapter struct {
	Client  geocode.Client
	Timeout time.Duration
}

// New returns an Adapter with the given client and per-call timeout.
func New(client geocode.Client, timeout time.Duration) *Adapter {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{Client: client, Timeout: timeout}
}

// Geocode advances item from PARSED to GEOCODED, GEOCODED_NO_RESULTS, or
// ERROR_GEOCODING. Precondition: item.Status == PARSED.
func (a *Adapter) Geocode(ctx context.Context, item *facility.FacilityListItem) error {
	if item.Status != facility.StatusParsed {
		return ErrNotParsed
	}

	entry := facility.ProcessingEntry{Action: facility.ActionGeocode, StartedAt: time.Now()}

	if item.GeocodedPoint != nil {
		item.GeocodedAddress = item.Address
		entry.FinishedAt = time.Now()
		entry.Data = map[string]any{"skipped_geocoder": true}
		item.Append(entry)
		return item.Advance(facility.StatusGeocoded)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	result, err := a.Client.Geocode(callCtx, geocode.AddressInput{
		Address:     item.Address,
		CountryCode: item.CountryCode,
	})
	entry.FinishedAt = time.Now()
	if err != nil {
		entry.Error = true
		entry.Message = err.Error()
		item.Append(entry)
		return item.Advance(facility.StatusErrorGeocoding)
	}

	if !result.Matched || result.ResultCount == 0 {
		entry.Data = map[string]any{"result_count": 0, "raw_response": rawOrNil(result.Raw)}
		item.Append(entry)
		return item.Advance(facility.StatusGeocodedNoResults)
	}

	item.GeocodedPoint = &facility.Point{Lat: result.Latitude, Lng: result.Longitude}
	item.GeocodedAddress = result.Address
	entry.Data = map[string]any{
		"result_count": result.ResultCount,
		"source":       result.Source,
		"raw_response": rawOrNil(result.Raw),
	}
	item.Append(entry)
	return item.Advance(facility.StatusGeocoded)
}

func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
