package analysis

import (
	"slices"
	"time"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// BuildSeries orders readings by their canonical timestamp. The input is not modified.
func BuildSeries(readings []models.EnergyReading) (models.TimeSeries, error) {
	if len(readings) == 0 {
		return nil, &EmptySeriesError{}
	}

	seen := make(map[time.Time]int, len(readings))
	for i, r := range readings {
		ts := r.Timestamp()
		if first, ok := seen[ts]; ok {
			return nil, &DuplicateTimestampError{Timestamp: ts, First: first, Second: i}
		}
		seen[ts] = i
	}

	series := slices.Clone(readings)
	slices.SortStableFunc(series, func(a, b models.EnergyReading) int {
		return a.Timestamp().Compare(b.Timestamp())
	})

	return models.TimeSeries(series), nil
}
