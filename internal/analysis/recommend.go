package analysis

import "github.com/jgoulah/powerscheduler/pkg/models"

// Recommend picks the hour with the lowest mean consumption. Ties go to the earliest hour.
func Recommend(profile models.HourlyProfile) (models.Recommendation, error) {
	if profile.Len() == 0 {
		return models.Recommendation{}, &EmptyProfileError{}
	}

	hours := profile.Hours()
	best := hours[0]
	for _, h := range hours[1:] {
		if h.Mean < best.Mean {
			best = h
		}
	}

	return models.Recommendation{Hour: best.Hour, MeanConsumption: best.Mean}, nil
}
