// Package matcher implements the Matcher: given a messy set and the
// canonical registry, returns per-row candidate matches with confidence,
// degrading gracefully when the gazetteer model cannot block.
package matcher

import (
	"errors"
	"time"

	"github.com/facilityregistry/linker/internal/gazetteer"
)

// Config carries the threshold knobs named in §6; the Matcher forwards
// AutomaticThreshold to Outcome.Results for the Materializer and does not
// enforce it itself.
type Config struct {
	AutomaticThreshold float64
	GazetteerThreshold float64
	RecallWeight       float64
	CodeVersion        string
}

// Outcome is the Matcher's output: candidate lists keyed by messy ID,
// plus the degradation flags and metadata the Materializer needs.
type Outcome struct {
	ProcessedListItemIDs []string
	ItemMatches          map[string][]gazetteer.Candidate
	Results              map[string]any
	NoGazetteerMatches   bool
	NoGeocodedItems      bool
	Started              time.Time
	Finished             time.Time
}

// Store loads the indexed model for a (messy, canonical) pair, isolating
// the Matcher from how the model is trained or persisted.
type Store interface {
	Load(messy, canonical map[string]gazetteer.Fields) (gazetteer.Model, error)
}

// Match implements the three branches of §4.6.
func Match(store Store, messy, canonical map[string]gazetteer.Fields, cfg Config) (Outcome, error) {
	started := time.Now()

	ids := make([]string, 0, len(messy))
	for id := range messy {
		ids = append(ids, id)
	}

	baseResults := map[string]any{
		"automatic_threshold": cfg.AutomaticThreshold,
		"gazetteer_threshold": cfg.GazetteerThreshold,
		"recall_weight":       cfg.RecallWeight,
		"code_version":        cfg.CodeVersion,
	}

	if len(canonical) == 0 && len(messy) > 0 {
		return Outcome{
			ProcessedListItemIDs: ids,
			ItemMatches:          map[string][]gazetteer.Candidate{},
			Results:              baseResults,
			NoGazetteerMatches:   true,
			Started:              started,
			Finished:             time.Now(),
		}, nil
	}

	if len(messy) == 0 {
		return Outcome{
			ProcessedListItemIDs: nil,
			ItemMatches:          map[string][]gazetteer.Candidate{},
			Results:              baseResults,
			NoGeocodedItems:      true,
			Started:              started,
			Finished:             time.Now(),
		}, nil
	}

	model, err := store.Load(messy, canonical)
	if err != nil {
		return Outcome{}, err
	}

	computedThreshold := model.Threshold(messy, cfg.RecallWeight)
	baseResults["computed_threshold"] = computedThreshold

	itemMatches, err := model.Match(messy, cfg.GazetteerThreshold)
	if errors.Is(err, gazetteer.ErrBlockingFailure) {
		return Outcome{
			ProcessedListItemIDs: ids,
			ItemMatches:          map[string][]gazetteer.Candidate{},
			Results:              baseResults,
			NoGazetteerMatches:   true,
			Started:              started,
			Finished:             time.Now(),
		}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		ProcessedListItemIDs: ids,
		ItemMatches:          itemMatches,
		Results:              baseResults,
		Started:              started,
		Finished:             time.Now(),
	}, nil
}
