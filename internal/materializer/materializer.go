// Package materializer implements the Materializer: applying the
// Matcher's output to the canonical registry and list rows inside one
// atomic unit of work.
package materializer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/facilityregistry/linker/internal/facility"
	"github.com/facilityregistry/linker/internal/gazetteer"
	"github.com/facilityregistry/linker/internal/matcher"
)

// ErrNoGeocodeResult is the message attached to a row that has no
// candidate and cannot be used to create a facility because it has no
// geocoded location (§4.7).
const ErrNoGeocodeResult = "No match to an existing facility and cannot create a new facility without a geocode result"

// Materialize applies outcome to items inside one store.WithTx call. Any
// error aborts the whole run; on success every row in
// outcome.ProcessedListItemIDs has advanced and every facility/match it
// produced is persisted.
func Materialize(ctx context.Context, store facility.Store, items map[string]*facility.FacilityListItem, outcome matcher.Outcome, automaticThreshold float64) error {
	return store.WithTx(ctx, func(tx facility.Store) error {
		for _, id := range outcome.ProcessedListItemIDs {
			item, ok := items[id]
			if !ok {
				return eris.Errorf("materializer: unknown item %s in outcome", id)
			}

			candidates := outcome.ItemMatches[id]
			if len(candidates) == 0 {
				if err := materializeNoCandidate(ctx, tx, item, outcome.Results); err != nil {
					return err
				}
				continue
			}

			if err := materializeCandidates(ctx, tx, item, candidates, outcome.Results, automaticThreshold); err != nil {
				return err
			}
		}
		return nil
	})
}

// materializeCandidates implements the per-row steps 1-4 of §4.7.
func materializeCandidates(ctx context.Context, tx facility.Store, item *facility.FacilityListItem, candidates []gazetteer.Candidate, results map[string]any, automaticThreshold float64) error {
	if err := item.Advance(facility.StatusPotentialMatch); err != nil {
		return err
	}

	matches := make([]*facility.FacilityMatch, len(candidates))
	for i, c := range candidates {
		matches[i] = &facility.FacilityMatch{
			ID:         uuid.NewString(),
			ListItemID: item.ID,
			FacilityID: c.CanonicalID,
			Confidence: c.Score,
			Status:     facility.MatchPending,
			Results:    results,
		}
	}

	aboveThreshold := 0
	aboveIdx := -1
	for i, c := range candidates {
		if c.Score > automaticThreshold {
			aboveThreshold++
			if aboveIdx == -1 {
				aboveIdx = i
			}
		}
	}

	switch {
	case len(candidates) == 1 && candidates[0].Score >= automaticThreshold:
		matches[0].Status = facility.MatchAutomatic
		matches[0].MatchType = facility.MatchTypeSingleGazetteerMatch
		item.FacilityID = matches[0].FacilityID
		if err := item.Advance(facility.StatusMatched); err != nil {
			return err
		}

	case len(candidates) > 1 && aboveThreshold == 1:
		// The quality winner is identified at aboveIdx, but the first
		// candidate in the list is promoted; retained source behavior
		// (§4.7, §9 open question).
		matches[0].Status = facility.MatchAutomatic
		matches[0].MatchType = facility.MatchTypeOneGazetteerMatchAboveThreshold
		matches[0].Results = withQualityWinner(results, candidates[aboveIdx].CanonicalID)
		item.FacilityID = matches[0].FacilityID
		if err := item.Advance(facility.StatusMatched); err != nil {
			return err
		}

	default:
		// All matches remain PENDING; row stays POTENTIAL_MATCH.
	}

	for _, m := range matches {
		if err := tx.CreateMatch(ctx, m); err != nil {
			return err
		}
	}

	item.Append(facility.ProcessingEntry{
		Action:     facility.ActionMatch,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	})
	return tx.UpdateItem(ctx, item)
}

func withQualityWinner(results map[string]any, qualityWinnerID string) map[string]any {
	out := make(map[string]any, len(results)+1)
	for k, v := range results {
		out[k] = v
	}
	out["quality_winner_facility_id"] = qualityWinnerID
	return out
}

// materializeNoCandidate implements the no-candidate branch of §4.7: a
// GEOCODED_NO_RESULTS row cannot produce a facility and becomes
// ERROR_MATCHING; any other row creates a new canonical facility and a
// synthetic AUTOMATIC match.
func materializeNoCandidate(ctx context.Context, tx facility.Store, item *facility.FacilityListItem, results map[string]any) error {
	if item.Status == facility.StatusGeocodedNoResults {
		if err := item.Advance(facility.StatusErrorMatching); err != nil {
			return err
		}
		item.Append(facility.ProcessingEntry{
			Action:     facility.ActionMatch,
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
			Error:      true,
			Message:    ErrNoGeocodeResult,
		})
		return tx.UpdateItem(ctx, item)
	}

	f := &facility.Facility{
		ID:              uuid.NewString(),
		Name:            item.Name,
		Address:         item.Address,
		CountryCode:     item.CountryCode,
		Location:        item.GeocodedPoint,
		CreatedFromItem: item.ID,
	}
	if err := tx.CreateFacility(ctx, f); err != nil {
		return err
	}

	match := &facility.FacilityMatch{
		ID:         uuid.NewString(),
		ListItemID: item.ID,
		FacilityID: f.ID,
		Confidence: 1.0,
		Status:     facility.MatchAutomatic,
		MatchType:  facility.MatchTypeNoGazetteerMatch,
		Results:    results,
	}
	if err := tx.CreateMatch(ctx, match); err != nil {
		return err
	}

	item.FacilityID = f.ID
	if err := item.Advance(facility.StatusMatched); err != nil {
		return err
	}
	item.Append(facility.ProcessingEntry{
		Action:     facility.ActionMatch,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	})
	return tx.UpdateItem(ctx, item)
}
