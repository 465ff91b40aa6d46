// Package shapefile exports the canonical facility registry as an ESRI
// Shapefile for downstream GIS tooling, a natural consumer of a geocoded
// facility registry.
package shapefile

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/facilityregistry/linker/internal/facility"
)

// ExportFacilities writes one shapefile point record per facility, with
// id/name/address/country_code attribute columns. Facilities without a
// location are skipped; the registry invariant (§3) is that a Facility
// only exists with a non-null location, so this should never discard
// rows in practice.
func ExportFacilities(path string, facilities []*facility.Facility) error {
	writer, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "shapefile: create %s", path)
	}
	defer writer.Close()

	fields := []shp.Field{
		shp.StringField("ID", 36),
		shp.StringField("NAME", 254),
		shp.StringField("ADDRESS", 254),
		shp.StringField("COUNTRY", 2),
	}
	if err := writer.SetFields(fields); err != nil {
		return eris.Wrap(err, "shapefile: set fields")
	}

	row := 0
	for _, f := range facilities {
		if f.Location == nil {
			continue
		}

		pt := geom.NewPointFlat(geom.XY, []float64{f.Location.Lng, f.Location.Lat})
		coords := pt.FlatCoords()

		if _, err := writer.Write(&shp.Point{X: coords[0], Y: coords[1]}); err != nil {
			return eris.Wrapf(err, "shapefile: write point for facility %s", f.ID)
		}
		writer.WriteAttribute(row, 0, f.ID)
		writer.WriteAttribute(row, 1, f.Name)
		writer.WriteAttribute(row, 2, f.Address)
		writer.WriteAttribute(row, 3, f.CountryCode)
		row++
	}

	return nil
}
