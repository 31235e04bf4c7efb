package source

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// DefaultSyntheticStart is the first hour of the generated week
var DefaultSyntheticStart = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

// DefaultSyntheticHours is one week of hourly data
const DefaultSyntheticHours = 7 * 24

// SyntheticSource generates a household-like week of hourly usage: low at night,
// peaking early afternoon, with a slow day-to-day drift and uniform noise.
// The same seed always yields the same records.
type SyntheticSource struct {
	Seed  uint64
	Start time.Time
	Hours int
}

// NewSyntheticSource creates a generator. Zero start or hours fall back to the defaults.
func NewSyntheticSource(seed uint64, start time.Time, hours int) *SyntheticSource {
	if start.IsZero() {
		start = DefaultSyntheticStart
	}
	if hours <= 0 {
		hours = DefaultSyntheticHours
	}
	return &SyntheticSource{Seed: seed, Start: start, Hours: hours}
}

// Name returns the source name
func (s *SyntheticSource) Name() string {
	return "synthetic:" + strconv.FormatUint(s.Seed, 10)
}

// Records generates the readings
func (s *SyntheticSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	start := s.Start.Truncate(time.Hour)

	records := make([]models.RawRecord, 0, s.Hours)
	for i := 0; i < s.Hours; i++ {
		t := start.Add(time.Duration(i) * time.Hour)
		kwh := round2(synthesize(i, t.Hour(), rng.Float64()*0.2))

		records = append(records, models.RawRecord{
			models.FieldDay:         strconv.Itoa(t.Day()),
			models.FieldMonth:       strconv.Itoa(int(t.Month())),
			models.FieldYear:        strconv.Itoa(t.Year()),
			models.FieldHour:        strconv.Itoa(t.Hour()),
			models.FieldConsumption: strconv.FormatFloat(kwh, 'f', 2, 64),
		})
	}

	zerolog.Ctx(ctx).Debug().Uint64("seed", s.Seed).Int("records", len(records)).Msg("generated synthetic readings")
	return records, nil
}

// synthesize returns the usage for the i-th hour of the run
func synthesize(i, hour int, noise float64) float64 {
	dayFactor := 1 + 0.1*math.Sin(float64(i)/24)
	base := 0.4 + 1.8*math.Exp(-math.Pow(float64(hour-13), 2)/40)
	return base*dayFactor + noise
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
