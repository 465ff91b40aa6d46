package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facilityregistry/linker/internal/facility"
	"github.com/facilityregistry/linker/internal/gazetteer"
	"github.com/facilityregistry/linker/internal/geocoder"
	"github.com/facilityregistry/linker/internal/ingest"
	"github.com/facilityregistry/linker/internal/matcher"
	"github.com/facilityregistry/linker/internal/pipeline"
	"github.com/facilityregistry/linker/pkg/geocode"
)

var (
	ingestPath string
	ingestFTP  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Upload a facility list and run it through parse, geocode, and match",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("ingest"); err != nil {
			return err
		}

		data, name, err := fetchListFile(ctx)
		if err != nil {
			return err
		}

		var header string
		var rows [][]string
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx":
			header, rows, err = ingest.ReadXLSX(data)
		default:
			header, rows, err = ingest.ReadCSV(data)
		}
		if err != nil {
			return eris.Wrap(err, "ingest: read file")
		}

		store, closePool, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer closePool()

		listID := uuid.NewString()
		if err := store.CreateList(ctx, &facility.FacilityList{
			ID:        listID,
			Header:    header,
			CreatedAt: time.Now(),
		}); err != nil {
			return eris.Wrap(err, "ingest: create list")
		}

		geoClient := buildGeocodeClient()
		runner := &pipeline.Runner{
			Store:     store,
			Geocoder:  geocoder.New(geoClient, time.Duration(cfg.Geocoder.TimeoutSecs)*time.Second),
			Gazetteer: gazetteer.NewStore(cfg.Gazetteer.ModelFilePath, cfg.Gazetteer.TrainingFilePath, 1),
			Cfg: pipeline.Config{
				Concurrency: cfg.Batch.Concurrency,
				Match: matcher.Config{
					AutomaticThreshold: cfg.Gazetteer.AutomaticThreshold,
					GazetteerThreshold: cfg.Gazetteer.GazetteerThreshold,
					RecallWeight:       cfg.Gazetteer.RecallWeight,
				},
			},
		}

		if err := runner.Run(ctx, listID, header, rows); err != nil {
			return eris.Wrap(err, "ingest: run pipeline")
		}

		zap.L().Info("ingest complete", zap.String("list_id", listID), zap.Int("rows", len(rows)))
		return nil
	},
}

func fetchListFile(ctx context.Context) ([]byte, string, error) {
	if ingestFTP != "" {
		src := ingest.NewFTPSource(30 * time.Second)
		data, err := src.Fetch(ctx, ingestFTP)
		if err != nil {
			return nil, "", err
		}
		return data, ingestFTP, nil
	}
	if ingestPath == "" {
		return nil, "", eris.New("ingest: one of --file or --ftp-url is required")
	}
	data, err := os.ReadFile(ingestPath)
	if err != nil {
		return nil, "", eris.Wrap(err, "ingest: read local file")
	}
	return data, ingestPath, nil
}

func buildGeocodeClient() geocode.Client {
	opts := []geocode.Option{
		geocode.WithRateLimit(float64(cfg.Geocoder.RateLimitPerSec)),
	}
	if cfg.Geocoder.GoogleKey != "" {
		opts = append(opts, geocode.WithGoogleAPIKey(cfg.Geocoder.GoogleKey))
	}
	if cfg.Geocoder.CensusDisabled {
		opts = append(opts, geocode.WithCensusDisabled())
	}
	return geocode.NewClient(opts...)
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPath, "file", "", "path to a local CSV or XLSX list file")
	ingestCmd.Flags().StringVar(&ingestFTP, "ftp-url", "", "ftp:// URL to retrieve the list file from")
	rootCmd.AddCommand(ingestCmd)
}
