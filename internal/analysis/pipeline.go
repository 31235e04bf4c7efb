// Package analysis turns raw hourly consumption records into an ordered series,
// an hour-of-day profile, a linear trend and a lowest-demand hour recommendation.
//
// Every stage takes its input by value and returns a new output. Nothing here
// performs I/O or keeps state between calls.
package analysis

import "github.com/jgoulah/powerscheduler/pkg/models"

// Result holds everything produced by one pipeline run
type Result struct {
	Series         models.TimeSeries
	Profile        models.HourlyProfile
	Trend          models.TrendModel
	Recommendation models.Recommendation
}

// Run executes validation, indexing, aggregation, trend fitting and recommendation in order.
// The first failing stage aborts the run and its error is returned unchanged.
func Run(records []models.RawRecord, opts ValidateOptions) (*Result, error) {
	readings, err := Validate(records, opts)
	if err != nil {
		return nil, err
	}

	series, err := BuildSeries(readings)
	if err != nil {
		return nil, err
	}

	profile, err := AggregateHourly(series)
	if err != nil {
		return nil, err
	}

	trend, err := FitTrend(series)
	if err != nil {
		return nil, err
	}

	rec, err := Recommend(profile)
	if err != nil {
		return nil, err
	}

	return &Result{
		Series:         series,
		Profile:        profile,
		Trend:          trend,
		Recommendation: rec,
	}, nil
}
