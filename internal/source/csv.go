package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jgoulah/powerscheduler/internal/analysis"
	"github.com/jgoulah/powerscheduler/pkg/models"
)

// CSVSource reads records from a CSV file whose first row is the header
type CSVSource struct {
	Path string
}

// NewCSVSource creates a source for the given file
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Name returns the source name
func (s *CSVSource) Name() string {
	return "csv:" + s.Path
}

// Records reads every row of the file
func (s *CSVSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	header, records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	if err := analysis.CheckColumns(header); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", s.Path).Int("records", len(records)).Msg("loaded csv")
	return records, nil
}

// ReadCSV parses a header row followed by data rows and returns both. Rows shorter
// than the header simply lack the trailing fields.
func ReadCSV(r io.Reader) ([]string, []models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var records []models.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row %d: %w", len(records)+1, err)
		}

		rec := make(models.RawRecord, len(header))
		for i, value := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = value
		}
		records = append(records, rec)
	}

	return header, records, nil
}

// WriteCSV writes records with the required columns as the header
func WriteCSV(w io.Writer, records []models.RawRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.RequiredFields); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(models.RequiredFields))
	for _, rec := range records {
		for i, field := range models.RequiredFields {
			row[i] = rec[field]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
