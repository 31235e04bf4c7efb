package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jgoulah/powerscheduler/internal/analysis"
	"github.com/jgoulah/powerscheduler/internal/source"
)

var importBatch bool

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import readings from a CSV file into the database",
	Long: `Validates the readings in a CSV file and stores them in the local SQLite database.
Hours already stored are left untouched. The file defaults to csv_path from config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importBatch, "batch", false, "Report every invalid record instead of stopping at the first")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := cfg.GetCSVPath()
	if len(args) == 1 {
		path = args[0]
	}

	records, err := source.NewCSVSource(path).Records(ctx)
	if err != nil {
		return err
	}

	readings, err := analysis.Validate(records, analysis.ValidateOptions{Batch: importBatch})
	if err != nil {
		return err
	}
	// rejects duplicate hours within the file
	series, err := analysis.BuildSeries(readings)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	inserted, err := db.InsertReadings(ctx, series)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Int("inserted", inserted).Msg("import complete")
	fmt.Printf("✓ Imported %d readings (%d already stored)\n", inserted, len(series)-inserted)
	return nil
}
