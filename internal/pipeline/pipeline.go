// Package pipeline orchestrates one list's dataflow: per-row parse and
// geocode dispatched to a bounded worker pool, then a single sequential
// Matcher/Materializer pass over the whole list.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/facilityregistry/linker/internal/facility"
	"github.com/facilityregistry/linker/internal/gazetteer"
	"github.com/facilityregistry/linker/internal/geocoder"
	"github.com/facilityregistry/linker/internal/materializer"
	"github.com/facilityregistry/linker/internal/matcher"
	"github.com/facilityregistry/linker/internal/normalize"
	"github.com/facilityregistry/linker/internal/parser"
)

// Config bundles the worker-pool width and match thresholds a Run needs.
type Config struct {
	Concurrency int
	Match       matcher.Config
}

// Runner drives one list through Parse, Geocode, Match, and Materialize.
type Runner struct {
	Store     facility.Store
	Geocoder  *geocoder.Adapter
	Gazetteer matcher.Store
	Cfg       Config
}

// Run dispatches per-row Parse+Geocode across a bounded worker pool, then
// runs the Matcher and Materializer once over the whole list. Per §5,
// rows complete out of order; only rows that reach GEOCODED or
// GEOCODED_NO_RESULTS are inspected by the Matcher.
func (r *Runner) Run(ctx context.Context, listID, header string, rawRows [][]string) error {
	items := make([]*facility.FacilityListItem, len(rawRows))
	for i, row := range rawRows {
		items[i] = &facility.FacilityListItem{
			ID:      uuid.NewString(),
			ListID:  listID,
			RawData: joinRow(row),
			Status:  facility.StatusUploaded,
		}
	}

	if err := r.Store.InsertItems(ctx, items); err != nil {
		return eris.Wrap(err, "pipeline: insert items")
	}

	if err := r.parseAndGeocode(ctx, header, rawRows, items); err != nil {
		return err
	}

	if err := r.matchAndMaterialize(ctx, listID, items); err != nil {
		return err
	}

	return nil
}

func (r *Runner) parseAndGeocode(ctx context.Context, header string, rawRows [][]string, items []*facility.FacilityListItem) error {
	g, gctx := errgroup.WithContext(ctx)
	limit := r.Cfg.Concurrency
	if limit <= 0 {
		limit = 8
	}
	g.SetLimit(limit)

	for i, item := range items {
		i, item, row := i, item, rawRows[i]
		g.Go(func() error {
			if err := parser.Parse(item, header, row); err != nil {
				return eris.Wrapf(err, "pipeline: parse row %d", i)
			}
			if item.Status != facility.StatusParsed {
				if err := r.Store.UpdateItem(gctx, item); err != nil {
					return err
				}
				return nil
			}

			if err := r.Geocoder.Geocode(gctx, item); err != nil {
				return eris.Wrapf(err, "pipeline: geocode row %d", i)
			}
			return r.Store.UpdateItem(gctx, item)
		})
	}

	return g.Wait()
}

func (r *Runner) matchAndMaterialize(ctx context.Context, listID string, items []*facility.FacilityListItem) error {
	byID := make(map[string]*facility.FacilityListItem, len(items))
	messy := map[string]gazetteer.Fields{}
	for _, item := range items {
		byID[item.ID] = item
		if item.Status == facility.StatusGeocoded || item.Status == facility.StatusGeocodedNoResults {
			messy[item.ID] = cleanFields(item)
		}
	}

	canonical, err := r.Store.GetAllCanonical(ctx)
	if err != nil {
		return eris.Wrap(err, "pipeline: load canonical set")
	}
	canonicalFields := map[string]gazetteer.Fields{}
	for _, f := range canonical {
		canonicalFields[f.ID] = gazetteer.Fields{
			"country": normalize.Clean(f.CountryCode),
			"name":    normalize.Clean(f.Name),
			"address": normalize.Clean(f.Address),
		}
	}

	outcome, err := matcher.Match(r.Gazetteer, messy, canonicalFields, r.Cfg.Match)
	if err != nil {
		zap.L().Error("pipeline: matcher failed", zap.String("list_id", listID), zap.Error(err))
		return eris.Wrap(err, "pipeline: match")
	}

	if err := materializer.Materialize(ctx, r.Store, byID, outcome, r.Cfg.Match.AutomaticThreshold); err != nil {
		zap.L().Error("pipeline: materializer failed", zap.String("list_id", listID), zap.Error(err))
		return eris.Wrap(err, "pipeline: materialize")
	}

	return nil
}

func cleanFields(item *facility.FacilityListItem) gazetteer.Fields {
	return gazetteer.Fields{
		"country": normalize.Clean(item.CountryCode),
		"name":    normalize.Clean(item.Name),
		"address": normalize.Clean(item.Address),
	}
}

func joinRow(row []string) string {
	out := ""
	for i, f := range row {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
