package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facilityregistry/linker/internal/facility"
	"github.com/facilityregistry/linker/internal/gazetteer"
	"github.com/facilityregistry/linker/internal/materializer"
	"github.com/facilityregistry/linker/internal/matcher"
	"github.com/facilityregistry/linker/internal/normalize"
)

var matchListID string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Re-run the gazetteer matcher over a list's geocoded rows",
	Long:  "Runs the Matcher and Materializer over rows already in GEOCODED or GEOCODED_NO_RESULTS, without re-parsing or re-geocoding. Useful after retraining the gazetteer model.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("match"); err != nil {
			return err
		}
		if matchListID == "" {
			return eris.New("match: --list-id is required")
		}

		store, closePool, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer closePool()

		items, err := store.GetItemsByStatus(ctx, matchListID, facility.StatusGeocoded, facility.StatusGeocodedNoResults)
		if err != nil {
			return eris.Wrap(err, "match: load items")
		}
		if len(items) == 0 {
			zap.L().Info("match: no eligible rows", zap.String("list_id", matchListID))
			return nil
		}

		byID := make(map[string]*facility.FacilityListItem, len(items))
		messy := map[string]gazetteer.Fields{}
		for _, it := range items {
			byID[it.ID] = it
			messy[it.ID] = gazetteer.Fields{
				"country": normalize.Clean(it.CountryCode),
				"name":    normalize.Clean(it.Name),
				"address": normalize.Clean(it.Address),
			}
		}

		canonical, err := store.GetAllCanonical(ctx)
		if err != nil {
			return eris.Wrap(err, "match: load canonical set")
		}
		canonicalFields := map[string]gazetteer.Fields{}
		for _, f := range canonical {
			canonicalFields[f.ID] = gazetteer.Fields{
				"country": normalize.Clean(f.CountryCode),
				"name":    normalize.Clean(f.Name),
				"address": normalize.Clean(f.Address),
			}
		}

		gzStore := gazetteer.NewStore(cfg.Gazetteer.ModelFilePath, cfg.Gazetteer.TrainingFilePath, 1)
		matchCfg := matcher.Config{
			AutomaticThreshold: cfg.Gazetteer.AutomaticThreshold,
			GazetteerThreshold: cfg.Gazetteer.GazetteerThreshold,
			RecallWeight:       cfg.Gazetteer.RecallWeight,
		}

		outcome, err := matcher.Match(gzStore, messy, canonicalFields, matchCfg)
		if err != nil {
			return eris.Wrap(err, "match: run matcher")
		}

		if err := materializer.Materialize(ctx, store, byID, outcome, matchCfg.AutomaticThreshold); err != nil {
			return eris.Wrap(err, "match: materialize")
		}

		zap.L().Info("match complete", zap.String("list_id", matchListID), zap.Int("rows", len(items)))
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchListID, "list-id", "", "facility list ID to match (required)")
	_ = matchCmd.MarkFlagRequired("list-id")
	rootCmd.AddCommand(matchCmd)
}
