package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// FitTrend fits consumption against each reading's 0-based rank in the series with
// ordinary least squares. Gaps in the hours are not accounted for: the independent
// variable is position, not elapsed time.
func FitTrend(series models.TimeSeries) (models.TrendModel, error) {
	if len(series) < 2 {
		return models.TrendModel{}, &DegenerateInputError{Points: len(series)}
	}

	x := make([]float64, len(series))
	y := make([]float64, len(series))
	for i, r := range series {
		x[i] = float64(i)
		y[i] = r.Consumption
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	return models.TrendModel{Slope: slope, Intercept: intercept}, nil
}
