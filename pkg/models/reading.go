package models

import (
	"sort"
	"time"
)

// Field names of the tabular input contract
const (
	FieldDay         = "Day"
	FieldMonth       = "Month"
	FieldYear        = "Year"
	FieldHour        = "Hour"
	FieldConsumption = "Consumption (kWh)"
)

// RequiredFields lists every field a raw record must carry, in column order
var RequiredFields = []string{FieldDay, FieldMonth, FieldYear, FieldHour, FieldConsumption}

// RawRecord is one unvalidated input row keyed by column name. Extra columns are ignored.
type RawRecord map[string]string

// EnergyReading represents a single validated hourly consumption reading
type EnergyReading struct {
	Year        int     `json:"year" validate:"min=1,max=9999"`
	Month       int     `json:"month" validate:"min=1,max=12"`
	Day         int     `json:"day" validate:"min=1,max=31"`
	Hour        int     `json:"hour" validate:"min=0,max=23"`
	Consumption float64 `json:"consumption_kwh" validate:"gte=0"`
}

// Timestamp returns the canonical UTC timestamp for the reading's hour
func (r EnergyReading) Timestamp() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, 0, 0, 0, time.UTC)
}

// TimeSeries is a chronologically ordered run of readings, unique per timestamp
type TimeSeries []EnergyReading

// HourlyMean is the aggregate for one hour of the day
type HourlyMean struct {
	Hour  int     `json:"hour"`
	Mean  float64 `json:"mean_kwh"`
	Count int     `json:"count"`
}

// HourlyProfile maps hour-of-day to mean consumption. Only observed hours are present.
type HourlyProfile struct {
	hours map[int]HourlyMean
}

// NewHourlyProfile builds a profile from per-hour aggregates
func NewHourlyProfile(means []HourlyMean) HourlyProfile {
	hours := make(map[int]HourlyMean, len(means))
	for _, m := range means {
		hours[m.Hour] = m
	}
	return HourlyProfile{hours: hours}
}

// Len returns the number of hours in the profile
func (p HourlyProfile) Len() int {
	return len(p.hours)
}

// Mean returns the mean consumption for an hour and whether the hour was observed
func (p HourlyProfile) Mean(hour int) (float64, bool) {
	m, ok := p.hours[hour]
	return m.Mean, ok
}

// Hours returns the profile entries ordered by hour
func (p HourlyProfile) Hours() []HourlyMean {
	out := make([]HourlyMean, 0, len(p.hours))
	for _, m := range p.hours {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// TrendModel is a linear fit of consumption against position in the series
type TrendModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict returns the fitted consumption at a 0-based series position
func (m TrendModel) Predict(position int) float64 {
	return m.Slope*float64(position) + m.Intercept
}

// Recommendation is the hour of day with the lowest mean consumption
type Recommendation struct {
	Hour            int     `json:"hour"`
	MeanConsumption float64 `json:"mean_consumption_kwh"`
}

// AnalysisRun records the outcome of one pipeline run for later publishing
type AnalysisRun struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	Source         string         `json:"source"`
	Readings       int            `json:"readings"`
	Trend          TrendModel     `json:"trend"`
	Recommendation Recommendation `json:"recommendation"`
	Published      bool           `json:"published"`
}
