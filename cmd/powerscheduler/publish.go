package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jgoulah/powerscheduler/internal/publisher"
)

var (
	publishSource  string
	publishPending bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the recommended hour to Home Assistant and/or MQTT",
	Long: `Runs the analysis on the selected source, records the run in the database and
publishes every unpublished run's recommendation. With --pending no new analysis is run.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSource, "source", "", "Reading source: csv, synthetic or db (default from config)")
	publishCmd.Flags().BoolVar(&publishPending, "pending", false, "Only publish previously saved runs")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if !publishPending {
		kind := cfg.GetSource()
		if publishSource != "" {
			kind = publishSource
		}

		src, closeSource, err := openSource(kind)
		if err != nil {
			return err
		}
		defer closeSource()

		run, _, err := analyze(cmd, src)
		if err != nil {
			return err
		}
		if err := db.InsertRun(ctx, run); err != nil {
			return err
		}
	}

	runs, err := db.ListUnpublishedRuns(ctx)
	if err != nil {
		return fmt.Errorf("listing unpublished runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No unpublished runs found")
		return nil
	}

	published := 0
	for i, run := range runs {
		fmt.Printf("[%d/%d] Publishing %s (best hour %s)... ", i+1, len(runs), run.ID, publisher.HourLabel(run.Recommendation.Hour))
		if err := pub.Publish(ctx, run); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			logger.Warn().Err(err).Str("run_id", run.ID).Msg("publish failed")
			continue
		}

		// Mark run as published in database
		if err := db.MarkRunPublished(ctx, run.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nTotal runs published: %d/%d\n", published, len(runs))
	if published < len(runs) {
		return fmt.Errorf("%d runs failed to publish", len(runs)-published)
	}
	return nil
}
