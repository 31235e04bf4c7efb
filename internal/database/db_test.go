package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

func setupDB(t *testing.T) *DB {
	db, err := New(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestReadings(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	readings := []models.EnergyReading{
		{Year: 2025, Month: 10, Day: 2, Hour: 0, Consumption: 0.61},
		{Year: 2025, Month: 10, Day: 1, Hour: 23, Consumption: 0.55},
		{Year: 2025, Month: 9, Day: 30, Hour: 12, Consumption: 2.1},
	}

	inserted, err := db.InsertReadings(ctx, readings)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	t.Run("listed chronologically", func(t *testing.T) {
		got, err := db.ListReadings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.EnergyReading{readings[2], readings[1], readings[0]}, got)
	})

	t.Run("existing hours are skipped", func(t *testing.T) {
		inserted, err := db.InsertReadings(ctx, []models.EnergyReading{
			{Year: 2025, Month: 10, Day: 2, Hour: 0, Consumption: 9.9},
			{Year: 2025, Month: 10, Day: 2, Hour: 1, Consumption: 0.58},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, inserted)

		got, err := db.ListReadings(ctx)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, 0.61, got[2].Consumption)
	})
}

func TestRuns(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	older := &models.AnalysisRun{
		CreatedAt:      time.Date(2025, 10, 8, 9, 0, 0, 0, time.UTC),
		Source:         "csv:data/energy_data.csv",
		Readings:       168,
		Trend:          models.TrendModel{Slope: 0.001, Intercept: 0.9},
		Recommendation: models.Recommendation{Hour: 1, MeanConsumption: 0.47},
	}
	newer := &models.AnalysisRun{
		CreatedAt:      time.Date(2025, 10, 8, 9, 0, 0, 500, time.UTC),
		Source:         "synthetic:42",
		Readings:       168,
		Recommendation: models.Recommendation{Hour: 2, MeanConsumption: 0.5},
	}
	require.NoError(t, db.InsertRun(ctx, older))
	require.NoError(t, db.InsertRun(ctx, newer))
	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, *older, runs[1])

	unpublished, err := db.ListUnpublishedRuns(ctx)
	require.NoError(t, err)
	require.Len(t, unpublished, 2)
	assert.Equal(t, older.ID, unpublished[0].ID)

	require.NoError(t, db.MarkRunPublished(ctx, older.ID))
	unpublished, err = db.ListUnpublishedRuns(ctx)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)
	assert.Equal(t, newer.ID, unpublished[0].ID)

	assert.Error(t, db.MarkRunPublished(ctx, "missing"))
}
