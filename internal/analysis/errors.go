package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// SchemaError reports required fields missing from the input records
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input must contain fields %s; missing: %s",
		quoteAll(models.RequiredFields), quoteAll(e.Missing))
}

// ValueError reports a record whose field violates its domain constraint
type ValueError struct {
	Record     int // 0-based index in the input
	Field      string
	Value      string
	Constraint string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("record %d: %s=%q violates %s", e.Record, e.Field, e.Value, e.Constraint)
}

// DuplicateTimestampError reports two readings that resolve to the same hour
type DuplicateTimestampError struct {
	Timestamp time.Time
	First     int
	Second    int
}

func (e *DuplicateTimestampError) Error() string {
	return fmt.Sprintf("duplicate reading for %s (records %d and %d)",
		e.Timestamp.Format("2006-01-02 15:04"), e.First, e.Second)
}

// EmptySeriesError is returned when there are no readings to index
type EmptySeriesError struct{}

func (e *EmptySeriesError) Error() string {
	return "no readings to analyze"
}

// EmptyProfileError is returned when a recommendation is asked of an empty profile
type EmptyProfileError struct{}

func (e *EmptyProfileError) Error() string {
	return "hourly profile is empty"
}

// DegenerateInputError is returned when too few points exist to fit a trend
type DegenerateInputError struct {
	Points int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("trend needs at least 2 readings, got %d", e.Points)
}

func quoteAll(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
