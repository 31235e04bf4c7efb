package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// ReadingLister is implemented by storage that holds imported readings
type ReadingLister interface {
	ListReadings(ctx context.Context) ([]models.EnergyReading, error)
}

// StoreSource replays readings previously imported into the database
type StoreSource struct {
	store ReadingLister
}

// NewStoreSource creates a source backed by the given store
func NewStoreSource(store ReadingLister) *StoreSource {
	return &StoreSource{store: store}
}

// Name returns the source name
func (s *StoreSource) Name() string {
	return "db"
}

// Records returns stored readings as raw records so they pass through validation again
func (s *StoreSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	readings, err := s.store.ListReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stored readings: %w", err)
	}

	records := make([]models.RawRecord, 0, len(readings))
	for _, r := range readings {
		records = append(records, ToRecord(r))
	}

	zerolog.Ctx(ctx).Debug().Int("records", len(records)).Msg("loaded stored readings")
	return records, nil
}

// ToRecord converts a reading back into its raw form
func ToRecord(r models.EnergyReading) models.RawRecord {
	return models.RawRecord{
		models.FieldDay:         strconv.Itoa(r.Day),
		models.FieldMonth:       strconv.Itoa(r.Month),
		models.FieldYear:        strconv.Itoa(r.Year),
		models.FieldHour:        strconv.Itoa(r.Hour),
		models.FieldConsumption: strconv.FormatFloat(r.Consumption, 'f', -1, 64),
	}
}
