package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// AggregateHourly computes mean consumption per hour of day across every day in the series
func AggregateHourly(series models.TimeSeries) (models.HourlyProfile, error) {
	if len(series) == 0 {
		return models.HourlyProfile{}, &EmptySeriesError{}
	}

	byHour := make(map[int][]float64)
	for _, r := range series {
		byHour[r.Hour] = append(byHour[r.Hour], r.Consumption)
	}

	means := make([]models.HourlyMean, 0, len(byHour))
	for hour, values := range byHour {
		means = append(means, models.HourlyMean{
			Hour:  hour,
			Mean:  stat.Mean(values, nil),
			Count: len(values),
		})
	}

	return models.NewHourlyProfile(means), nil
}
