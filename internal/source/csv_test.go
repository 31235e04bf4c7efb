package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/powerscheduler/internal/analysis"
	"github.com/jgoulah/powerscheduler/pkg/models"
)

func TestReadCSV(t *testing.T) {
	t.Run("header with extra columns", func(t *testing.T) {
		input := "Day,Month,Year,Hour,Consumption (kWh),Note\n" +
			"1,10,2025,0,0.53,night\n" +
			"1,10,2025,1,0.49,\n"

		header, records, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []string{"Day", "Month", "Year", "Hour", "Consumption (kWh)", "Note"}, header)
		require.Len(t, records, 2)
		assert.Equal(t, models.RawRecord{
			"Day": "1", "Month": "10", "Year": "2025", "Hour": "0",
			"Consumption (kWh)": "0.53", "Note": "night",
		}, records[0])
		assert.Equal(t, "0.49", records[1][models.FieldConsumption])
	})

	t.Run("short row lacks trailing fields", func(t *testing.T) {
		input := "Day,Month,Year,Hour,Consumption (kWh)\n1,10,2025,0\n"

		_, records, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 1)
		_, ok := records[0][models.FieldConsumption]
		assert.False(t, ok)
	})

	t.Run("byte order mark", func(t *testing.T) {
		input := "\ufeffDay,Month,Year,Hour,Consumption (kWh)\n1,10,2025,0,1\n"

		_, records, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, "1", records[0][models.FieldDay])
	})

	t.Run("empty input", func(t *testing.T) {
		header, records, err := ReadCSV(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, header)
		assert.Empty(t, records)
	})
}

func TestCSVSource(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "energy_data.csv")

	want := []models.RawRecord{
		{"Day": "1", "Month": "10", "Year": "2025", "Hour": "0", "Consumption (kWh)": "0.53"},
		{"Day": "1", "Month": "10", "Year": "2025", "Hour": "1", "Consumption (kWh)": "0.49"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, want))
	assert.True(t, strings.HasPrefix(buf.String(), "Day,Month,Year,Hour,Consumption (kWh)\n"))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	src := NewCSVSource(path)
	assert.Equal(t, "csv:"+path, src.Name())

	got, err := src.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).Records(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVSource_Header(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("header only without hour", func(t *testing.T) {
		path := filepath.Join(dir, "no_hour.csv")
		require.NoError(t, os.WriteFile(path, []byte("Day,Month,Year,Consumption (kWh)\n"), 0644))

		_, err := NewCSVSource(path).Records(ctx)
		var schemaErr *analysis.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{models.FieldHour}, schemaErr.Missing)
	})

	t.Run("missing column with rows", func(t *testing.T) {
		path := filepath.Join(dir, "no_day.csv")
		require.NoError(t, os.WriteFile(path, []byte("Month,Year,Hour,Consumption (kWh)\n10,2025,1,0.5\n"), 0644))

		_, err := NewCSVSource(path).Records(ctx)
		var schemaErr *analysis.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{models.FieldDay}, schemaErr.Missing)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		_, err := NewCSVSource(path).Records(ctx)
		var schemaErr *analysis.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, models.RequiredFields, schemaErr.Missing)
	})

	t.Run("header only with every column", func(t *testing.T) {
		path := filepath.Join(dir, "header.csv")
		require.NoError(t, os.WriteFile(path, []byte("Day,Month,Year,Hour,Consumption (kWh)\n"), 0644))

		records, err := NewCSVSource(path).Records(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
