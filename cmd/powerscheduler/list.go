package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/powerscheduler/internal/publisher"
)

var listRuns bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored readings or analysis runs",
	Long:  `Displays the hourly readings imported into the database, or with --runs the saved analysis results.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "List saved analysis runs instead of readings")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listRuns {
		runs, err := db.ListRuns(ctx)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No analysis runs found")
			return nil
		}

		fmt.Printf("%-36s  %-14s  %-6s  %9s  %s\n", "Run", "Analyzed", "Best", "kWh", "Published")
		fmt.Println("----------------------------------------------------------------------------------")
		for _, run := range runs {
			published := "no"
			if run.Published {
				published = "yes"
			}
			fmt.Printf("%-36s  %-14s  %-6s  %9.3f  %s\n", run.ID, humanize.Time(run.CreatedAt),
				publisher.HourLabel(run.Recommendation.Hour), run.Recommendation.MeanConsumption, published)
		}
		return nil
	}

	data, err := db.ListReadings(ctx)
	if err != nil {
		return fmt.Errorf("listing readings: %w", err)
	}
	if len(data) == 0 {
		fmt.Println("No readings found")
		return nil
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("%-6s %-10s %4s %5s %10s\n", "Year", "Month", "Day", "Hour", "kWh")
	fmt.Println("----------------------------------------")

	var total float64
	for _, r := range data {
		fmt.Printf("%-6d %-10s %4d %5d %10.2f\n", r.Year, time.Month(r.Month), r.Day, r.Hour, r.Consumption)
		total += r.Consumption
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("Total: %s kWh (%s readings)\n", humanize.CommafWithDigits(total, 2), humanize.Comma(int64(len(data))))
	return nil
}
