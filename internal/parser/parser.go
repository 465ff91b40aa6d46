// Package parser implements the row parser: turning one raw CSV/XLSX row
// plus the list's header into a typed FacilityListItem with status PARSED
// or ERROR_PARSING.
package parser

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/facilityregistry/linker/internal/country"
	"github.com/facilityregistry/linker/internal/facility"
)

// ErrNotUploaded is returned when Parse is called on an item that is not
// in status UPLOADED; this is a programming-invariant violation, not a
// row-scoped business error, so it is never recovered into the item's own
// processing log.
var ErrNotUploaded = eris.New("parser: item is not in UPLOADED status")

const (
	maxNameLen    = 500
	maxAddressLen = 500
)

// columnIndex maps recognized, case-insensitive header names to their
// position in the row. Unrecognized columns are ignored.
type columnIndex struct {
	country int
	name    int
	address int
	lat     int
	lng     int
}

func indexHeader(header string) (columnIndex, error) {
	fields, err := splitCSVLine(header)
	if err != nil {
		return columnIndex{}, eris.Wrap(err, "parser: parse header")
	}

	idx := columnIndex{-1, -1, -1, -1, -1}
	for i, f := range fields {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "country":
			idx.country = i
		case "name":
			idx.name = i
		case "address":
			idx.address = i
		case "lat":
			idx.lat = i
		case "lng":
			idx.lng = i
		}
	}
	return idx, nil
}

func splitCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Parse consumes one raw row plus the list's raw header line (split as CSV
// here), populating item in place. Precondition: item.Status == UPLOADED.
func Parse(item *facility.FacilityListItem, header string, row []string) error {
	if item.Status != facility.StatusUploaded {
		return ErrNotUploaded
	}

	entry := facility.ProcessingEntry{Action: facility.ActionParse, StartedAt: now()}

	idx, err := indexHeader(header)
	if err != nil {
		entry.FinishedAt = now()
		entry.Error = true
		entry.Message = err.Error()
		item.Append(entry)
		if advErr := item.Advance(facility.StatusErrorParsing); advErr != nil {
			return advErr
		}
		return nil
	}

	fieldErrors := map[string]string{}

	countryRaw := field(row, idx.country)
	code, err := country.Resolve(countryRaw)
	if err != nil {
		fieldErrors["country"] = err.Error()
	} else {
		item.CountryCode = code
	}

	name := strings.TrimSpace(field(row, idx.name))
	if name == "" {
		fieldErrors["name"] = "name is required"
	} else if len(name) > maxNameLen {
		fieldErrors["name"] = "name exceeds maximum length"
	} else {
		item.Name = name
	}

	address := strings.TrimSpace(field(row, idx.address))
	if address == "" {
		fieldErrors["address"] = "address is required"
	} else if len(address) > maxAddressLen {
		fieldErrors["address"] = "address exceeds maximum length"
	} else {
		item.Address = address
	}

	preGeocoded := false
	latStr := field(row, idx.lat)
	lngStr := field(row, idx.lng)
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if latErr != nil || lngErr != nil {
			fieldErrors["coordinates"] = "lat/lng must be numeric"
		} else {
			item.GeocodedPoint = &facility.Point{Lat: lat, Lng: lng}
			preGeocoded = true
		}
	}

	entry.FinishedAt = now()
	if len(fieldErrors) > 0 {
		entry.Error = true
		entry.Message = joinFieldErrors(fieldErrors)
		entry.Data = map[string]any{"field_errors": fieldErrors}
		item.Append(entry)
		return item.Advance(facility.StatusErrorParsing)
	}

	entry.Data = map[string]any{"pre_geocoded": preGeocoded}
	item.Append(entry)
	return item.Advance(facility.StatusParsed)
}

func joinFieldErrors(errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for field, msg := range errs {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func now() time.Time { return time.Now() }
