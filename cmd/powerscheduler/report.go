package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jgoulah/powerscheduler/internal/analysis"
	"github.com/jgoulah/powerscheduler/internal/publisher"
)

const rule = "----------------------------------------------------------------"

// printReport renders an analysis result. preview <= 0 shows every reading.
func printReport(w io.Writer, sourceName string, result *analysis.Result, preview int) {
	series := result.Series

	fmt.Fprintf(w, "\nEnergy Use Log (%s readings from %s)\n", humanize.Comma(int64(len(series))), sourceName)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-6s %-10s %4s %5s %10s %10s  %s\n", "Year", "Month", "Day", "Hour", "kWh", "Trend", "Datetime")
	fmt.Fprintln(w, rule)

	shown := len(series)
	if preview > 0 && preview < shown {
		shown = preview
	}
	var total float64
	for i, r := range series {
		total += r.Consumption
		if i >= shown {
			continue
		}
		fmt.Fprintf(w, "%-6d %-10s %4d %5d %10.2f %10.2f  %s\n",
			r.Year, time.Month(r.Month), r.Day, r.Hour, r.Consumption,
			result.Trend.Predict(i), r.Timestamp().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w, rule)
	if shown < len(series) {
		fmt.Fprintf(w, "Showing first %d rows (use --full to view all)\n", shown)
	}
	fmt.Fprintf(w, "Total: %s kWh\n", humanize.CommafWithDigits(total, 2))

	fmt.Fprintf(w, "\nAverage Hourly Consumption\n")
	fmt.Fprintln(w, rule)
	maxMean := 0.0
	for _, h := range result.Profile.Hours() {
		if h.Mean > maxMean {
			maxMean = h.Mean
		}
	}
	for _, h := range result.Profile.Hours() {
		marker := ""
		if h.Hour == result.Recommendation.Hour {
			marker = "  <- optimal"
		}
		fmt.Fprintf(w, "%s %8.3f kWh  %-30s%s\n", publisher.HourLabel(h.Hour), h.Mean, bar(h.Mean, maxMean, 30), marker)
	}

	fmt.Fprintf(w, "\nTrend\n")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Slope:     %+.5f kWh per reading\n", result.Trend.Slope)
	fmt.Fprintf(w, "Intercept: %.4f kWh\n", result.Trend.Intercept)

	fmt.Fprintf(w, "\nRecommendation\n")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "✓ Most energy-efficient time to use appliances: around %s (%.3f kWh average)\n",
		publisher.HourLabel(result.Recommendation.Hour), result.Recommendation.MeanConsumption)
}

// bar draws a horizontal bar scaled so peak fills width
func bar(value, peak float64, width int) string {
	if peak <= 0 {
		return ""
	}
	n := int(value / peak * float64(width))
	return strings.Repeat("#", n)
}
