package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

type fakeLister struct {
	readings []models.EnergyReading
	err      error
}

func (f *fakeLister) ListReadings(ctx context.Context) ([]models.EnergyReading, error) {
	return f.readings, f.err
}

func TestStoreSource(t *testing.T) {
	ctx := context.Background()

	src := NewStoreSource(&fakeLister{readings: []models.EnergyReading{
		{Year: 2025, Month: 10, Day: 1, Hour: 3, Consumption: 0.42},
	}})
	assert.Equal(t, "db", src.Name())

	records, err := src.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.RawRecord{{
		"Day": "1", "Month": "10", "Year": "2025", "Hour": "3", "Consumption (kWh)": "0.42",
	}}, records)

	boom := errors.New("boom")
	_, err = NewStoreSource(&fakeLister{err: boom}).Records(ctx)
	assert.ErrorIs(t, err, boom)
}
