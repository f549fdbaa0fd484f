package grading

import (
	"fmt"
	"math"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// Error reports why a percentage could not be classified.
type Error struct {
	Kind       validation.Kind `json:"kind"`
	ScaleID    string          `json:"scale_id,omitempty"`
	Percentage float64         `json:"percentage"`
	Message    string          `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Resolution is the band selected for one percentage.
type Resolution struct {
	Percentage float64                 `json:"percentage"`
	Band       Band                    `json:"band"`
	Warnings   []validation.FieldError `json:"warnings,omitempty"`
}

// Overlapping reports whether more than one band matched.
func (r Resolution) Overlapping() bool {
	for _, w := range r.Warnings {
		if w.Kind == validation.KindOverlappingBands {
			return true
		}
	}
	return false
}

// Resolve selects the band for percentage. Bands are scanned by order, then min_percentage;
// the first match wins. Further matches do not fail the call but add an OVERLAPPING_BANDS warning.
// The result depends only on the arguments.
func Resolve(percentage float64, scaleID string, bands []Band) (Resolution, error) {
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return Resolution{}, &Error{
			Kind:       validation.KindBoundsViolation,
			ScaleID:    scaleID,
			Percentage: percentage,
			Message:    fmt.Sprintf("percentage %g is outside 0-100", percentage),
		}
	}
	p := float64(hundredths(percentage)) / 100

	var matches []Band
	for _, b := range Sorted(bands) {
		if b.Contains(p) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return Resolution{}, &Error{
			Kind:       validation.KindNoMatchingBand,
			ScaleID:    scaleID,
			Percentage: p,
			Message:    fmt.Sprintf("no grade band in scale %q covers %s%%", scaleID, formatPercent(p)),
		}
	}

	res := Resolution{Percentage: p, Band: matches[0]}
	if len(matches) > 1 {
		res.Warnings = append(res.Warnings, fieldError("grades", validation.KindOverlappingBands,
			"%s%% matches overlapping bands %s in scale %q; %s was applied", formatPercent(p), grades(matches), scaleID, matches[0].Grade))
	}
	return res, nil
}
