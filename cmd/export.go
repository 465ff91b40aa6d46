package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facilityregistry/linker/internal/shapefile"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the canonical facility registry as a shapefile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}
		if exportPath == "" {
			return eris.New("export: --out is required")
		}

		store, closePool, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer closePool()

		facilities, err := store.GetAllCanonical(ctx)
		if err != nil {
			return eris.Wrap(err, "export: load canonical set")
		}

		if err := shapefile.ExportFacilities(exportPath, facilities); err != nil {
			return eris.Wrap(err, "export: write shapefile")
		}

		zap.L().Info("export complete", zap.String("path", exportPath), zap.Int("facilities", len(facilities)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "out", "", "output .shp path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
