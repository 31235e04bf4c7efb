package analysis

import (
	"strconv"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

func record(year, month, day, hour int, kwh float64) models.RawRecord {
	return models.RawRecord{
		models.FieldYear:        strconv.Itoa(year),
		models.FieldMonth:       strconv.Itoa(month),
		models.FieldDay:         strconv.Itoa(day),
		models.FieldHour:        strconv.Itoa(hour),
		models.FieldConsumption: strconv.FormatFloat(kwh, 'f', -1, 64),
	}
}

func reading(year, month, day, hour int, kwh float64) models.EnergyReading {
	return models.EnergyReading{Year: year, Month: month, Day: day, Hour: hour, Consumption: kwh}
}

// week returns seven days of hourly readings in reverse chronological order
func week() []models.RawRecord {
	var records []models.RawRecord
	for day := 7; day >= 1; day-- {
		for hour := 23; hour >= 0; hour-- {
			kwh := 0.5 + float64((hour*7+day*3)%11)/10
			records = append(records, record(2025, 10, day, hour, kwh))
		}
	}
	return records
}
