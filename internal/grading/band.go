// Package grading maps percentages onto a grading scale's bands and checks band
// configurations before they are persisted.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// Band is one grade range of a grading scale. A nil MaxPercentage means "and above, up to 100".
type Band struct {
	Grade         string   `json:"grade" validate:"required,max=10"`
	Label         *string  `json:"label,omitempty" validate:"omitempty,max=255"`
	MinPercentage float64  `json:"min_percentage" validate:"gte=0,lte=100"`
	MaxPercentage *float64 `json:"max_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	GPAValue      *float64 `json:"gpa_value,omitempty" validate:"omitempty,gte=0,lte=5"`
	Description   *string  `json:"description,omitempty"`
	Order         *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// Scale owns an ordered set of bands.
type Scale struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school_id"`
	Name      string `json:"name" validate:"required,max=255"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
	Bands     []Band `json:"grades,omitempty" validate:"omitempty,dive"`
}

// hundredths is the grading granularity: percentages are compared at 0.01 resolution.
func hundredths(p float64) int64 {
	return int64(math.Round(p * 100))
}

func (b Band) lower() int64 { return hundredths(b.MinPercentage) }

func (b Band) upper() int64 {
	if b.MaxPercentage == nil {
		return 100 * 100
	}
	return hundredths(*b.MaxPercentage)
}

func (b Band) order() int {
	if b.Order == nil {
		return 0
	}
	return *b.Order
}

// Contains reports whether p falls inside the band's closed interval.
func (b Band) Contains(p float64) bool {
	h := hundredths(p)
	return h >= b.lower() && (b.MaxPercentage == nil || h <= b.upper())
}

func (b Band) interval() string {
	if b.MaxPercentage == nil {
		return fmt.Sprintf("%s and above", formatPercent(b.MinPercentage))
	}
	return fmt.Sprintf("%s-%s", formatPercent(b.MinPercentage), formatPercent(*b.MaxPercentage))
}

// Sorted returns a copy ordered by order, then min_percentage. Input order breaks remaining ties.
func Sorted(bands []Band) []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].order() != out[j].order() {
			return out[i].order() < out[j].order()
		}
		return out[i].lower() < out[j].lower()
	})
	return out
}

func grades(bands []Band) string {
	names := make([]string, len(bands))
	for i, b := range bands {
		names[i] = b.Grade
	}
	return strings.Join(names, ", ")
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%g", math.Round(p*100)/100)
}

func fieldError(field string, kind validation.Kind, format string, args ...interface{}) validation.FieldError {
	return validation.FieldError{Field: field, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
