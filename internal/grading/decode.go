package grading

import (
	"fmt"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// BandsFromSubmission reads the bands of an already validated grading scale submission.
// Numeric fields may be numbers or numeric strings, as the rule set allows both.
func BandsFromSubmission(raw interface{}) ([]Band, error) {
	rows, ok := validation.List(raw)
	if !ok {
		return nil, fmt.Errorf("grades must be a list")
	}
	bands := make([]Band, 0, len(rows))
	for i, r := range rows {
		row, ok := validation.Row(r)
		if !ok {
			return nil, fmt.Errorf("grades.%d must be an object", i)
		}
		min, ok := validation.Number(row["min_percentage"])
		if !ok {
			return nil, fmt.Errorf("grades.%d.min_percentage must be a number", i)
		}
		band := Band{
			Grade:         validation.Canonical(row["grade"]),
			MinPercentage: min,
			Label:         optionalString(row["label"]),
			Description:   optionalString(row["description"]),
			MaxPercentage: optionalNumber(row["max_percentage"]),
			GPAValue:      optionalNumber(row["gpa_value"]),
		}
		if order := optionalNumber(row["order"]); order != nil {
			o := int(*order)
			band.Order = &o
		}
		bands = append(bands, band)
	}
	return bands, nil
}

func optionalString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := validation.Canonical(v)
	return &s
}

func optionalNumber(v interface{}) *float64 {
	f, ok := validation.Number(v)
	if !ok {
		return nil
	}
	return &f
}
