package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

var validate = newReadingValidator()

// columns maps EnergyReading struct fields to input column names
var columns = map[string]string{
	"Year":        models.FieldYear,
	"Month":       models.FieldMonth,
	"Day":         models.FieldDay,
	"Hour":        models.FieldHour,
	"Consumption": models.FieldConsumption,
}

func newReadingValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateCalendarDay, models.EnergyReading{})
	return v
}

// validateCalendarDay rejects days that don't exist in the reading's month and year.
// Out-of-range months and days are already reported by the field tags.
func validateCalendarDay(sl validator.StructLevel) {
	r := sl.Current().Interface().(models.EnergyReading)
	if r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 31 {
		return
	}
	if r.Day > daysIn(r.Year, r.Month) {
		sl.ReportError(r.Day, "Day", "Day", "calendar_day", strconv.Itoa(daysIn(r.Year, r.Month)))
	}
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidateOptions controls how validation failures are reported
type ValidateOptions struct {
	// Batch keeps checking after the first bad record and joins every ValueError
	Batch bool
}

// Validate checks raw records against the input schema and value ranges and
// converts them to readings. Records are returned in input order.
func Validate(records []models.RawRecord, opts ValidateOptions) ([]models.EnergyReading, error) {
	if missing := missingFields(records); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	readings := make([]models.EnergyReading, 0, len(records))
	var errs []error
	for i, rec := range records {
		reading, recErrs := validateRecord(i, rec)
		if len(recErrs) > 0 {
			if !opts.Batch {
				return nil, recErrs[0]
			}
			errs = append(errs, recErrs...)
			continue
		}
		readings = append(readings, reading)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return readings, nil
}

// CheckColumns reports required fields absent from a tabular header. It lets
// sources with a header fail on schema even when they hold no rows.
func CheckColumns(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, field := range models.RequiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// missingFields returns the required fields absent from at least one record
func missingFields(records []models.RawRecord) []string {
	var missing []string
	for _, field := range models.RequiredFields {
		for _, rec := range records {
			if _, ok := rec[field]; !ok {
				missing = append(missing, field)
				break
			}
		}
	}
	return missing
}

func validateRecord(index int, rec models.RawRecord) (models.EnergyReading, []error) {
	var (
		reading models.EnergyReading
		errs    []error
	)

	ints := []struct {
		field string
		dst   *int
	}{
		{models.FieldYear, &reading.Year},
		{models.FieldMonth, &reading.Month},
		{models.FieldDay, &reading.Day},
		{models.FieldHour, &reading.Hour},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(rec[f.field]))
		if err != nil {
			errs = append(errs, &ValueError{Record: index, Field: f.field, Value: rec[f.field], Constraint: "integer"})
			continue
		}
		*f.dst = n
	}

	raw := rec[models.FieldConsumption]
	consumption, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(consumption) || math.IsInf(consumption, 0) {
		errs = append(errs, &ValueError{Record: index, Field: models.FieldConsumption, Value: raw, Constraint: "finite number"})
	} else {
		reading.Consumption = consumption
	}

	if len(errs) > 0 {
		return models.EnergyReading{}, errs
	}

	if err := validate.Struct(reading); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.EnergyReading{}, []error{fmt.Errorf("record %d: %w", index, err)}
		}
		for _, fe := range fieldErrs {
			column := columns[fe.StructField()]
			errs = append(errs, &ValueError{
				Record:     index,
				Field:      column,
				Value:      rec[column],
				Constraint: constraint(fe),
			})
		}
		return models.EnergyReading{}, errs
	}

	return reading, nil
}

func constraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return ">= " + fe.Param()
	case "max":
		return "<= " + fe.Param()
	case "gte":
		return ">= " + fe.Param()
	case "calendar_day":
		return "day of month <= " + fe.Param()
	default:
		return fe.Tag()
	}
}
