package grading

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// Gap is an uncovered percentage range, inclusive at 0.01 resolution.
type Gap struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// ValidateBands checks a band set as a whole. Errors are reported at path.{index}.{field}.
// The verdict does not depend on the order of bands.
func ValidateBands(path string, bands []Band) []validation.FieldError {
	var errs []validation.FieldError
	inverted := make([]bool, len(bands))
	for i, b := range bands {
		if b.MaxPercentage != nil && *b.MaxPercentage < b.MinPercentage {
			inverted[i] = true
			errs = append(errs, fieldError(fmt.Sprintf("%s.%d.max_percentage", path, i), validation.KindOrderingViolation,
				"The max percentage (%s) of grade %s must be greater than or equal to its min percentage (%s).",
				formatPercent(*b.MaxPercentage), b.Grade, formatPercent(b.MinPercentage)))
		}
	}

	for j := range bands {
		if inverted[j] {
			continue
		}
		for i := 0; i < j; i++ {
			if inverted[i] || !overlaps(bands[i], bands[j]) {
				continue
			}
			errs = append(errs, fieldError(fmt.Sprintf("%s.%d.min_percentage", path, j), validation.KindOverlappingBands,
				"Grade %s (%s) overlaps grade %s (%s).", bands[j].Grade, bands[j].interval(), bands[i].Grade, bands[i].interval()))
		}
	}
	return errs
}

func overlaps(a, b Band) bool {
	return a.lower() <= b.upper() && b.lower() <= a.upper()
}

// Gaps lists the parts of 0-100 that no band covers.
func Gaps(bands []Band) []Gap {
	sorted := make([]Band, 0, len(bands))
	for _, b := range bands {
		if b.upper() >= b.lower() {
			sorted = append(sorted, b)
		}
	}
	sorted = byLower(sorted)

	var gaps []Gap
	var cursor int64
	for _, b := range sorted {
		if b.lower() > cursor {
			gaps = append(gaps, Gap{From: float64(cursor) / 100, To: float64(b.lower()-1) / 100})
		}
		if next := b.upper() + 1; next > cursor {
			cursor = next
		}
	}
	if cursor <= 100*100 {
		gaps = append(gaps, Gap{From: float64(cursor) / 100, To: 100})
	}
	return gaps
}

func byLower(bands []Band) []Band {
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].lower() < bands[j].lower() })
	return bands
}

// CheckDefaults reports every default scale beyond the first within the same school.
// Global uniqueness still needs the full data store; this only checks the candidates given.
func CheckDefaults(scales []Scale) []validation.FieldError {
	var errs []validation.FieldError
	first := make(map[string]int)
	for i, s := range scales {
		if !s.IsDefault {
			continue
		}
		if j, ok := first[s.SchoolID]; ok {
			errs = append(errs, fieldError(fmt.Sprintf("scales.%d.is_default", i), validation.KindDuplicateValue,
				"Scale %q cannot be the default: %q is already the default for school %q.", s.Name, scales[j].Name, s.SchoolID))
			continue
		}
		first[s.SchoolID] = i
	}
	return errs
}
