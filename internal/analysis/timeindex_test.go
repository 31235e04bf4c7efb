package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

func TestBuildSeries(t *testing.T) {
	t.Run("orders across day month and year boundaries", func(t *testing.T) {
		input := []models.EnergyReading{
			reading(2026, 1, 1, 0, 4),
			reading(2025, 12, 31, 23, 3),
			reading(2025, 11, 30, 23, 2),
			reading(2025, 11, 30, 1, 1),
		}
		original := append([]models.EnergyReading(nil), input...)

		series, err := BuildSeries(input)
		require.NoError(t, err)

		assert.Equal(t, models.TimeSeries{
			reading(2025, 11, 30, 1, 1),
			reading(2025, 11, 30, 23, 2),
			reading(2025, 12, 31, 23, 3),
			reading(2026, 1, 1, 0, 4),
		}, series)
		assert.Equal(t, original, input, "input must not be reordered")
	})

	t.Run("strictly ascending with same cardinality", func(t *testing.T) {
		readings, err := Validate(week(), ValidateOptions{})
		require.NoError(t, err)

		series, err := BuildSeries(readings)
		require.NoError(t, err)
		require.Len(t, series, len(readings))
		for i := 1; i < len(series); i++ {
			assert.True(t, series[i-1].Timestamp().Before(series[i].Timestamp()), "position %d", i)
		}
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		input := []models.EnergyReading{
			reading(2025, 10, 1, 5, 1),
			reading(2025, 10, 1, 6, 1),
			reading(2025, 10, 1, 5, 2),
		}

		series, err := BuildSeries(input)
		assert.Nil(t, series)

		var dupErr *DuplicateTimestampError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, time.Date(2025, 10, 1, 5, 0, 0, 0, time.UTC), dupErr.Timestamp)
		assert.Equal(t, 0, dupErr.First)
		assert.Equal(t, 2, dupErr.Second)
		assert.Contains(t, err.Error(), "2025-10-01 05:00")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := BuildSeries(nil)
		var emptyErr *EmptySeriesError
		assert.ErrorAs(t, err, &emptyErr)
	})
}
