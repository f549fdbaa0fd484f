package dto

import (
	"github.com/noah-isme/sma-grading-api/internal/grading"
	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// ScaleValidationResult reports a grading scale payload check. Gaps are informational.
type ScaleValidationResult struct {
	Valid  bool                    `json:"valid"`
	Errors []validation.FieldError `json:"errors"`
	Gaps   []grading.Gap           `json:"gaps,omitempty"`
}

// ResolveRequest asks which band of a scale a percentage falls into.
type ResolveRequest struct {
	ScaleID    string         `json:"scale_id"`
	Percentage *float64       `json:"percentage" validate:"required"`
	Grades     []grading.Band `json:"grades" validate:"required,min=1,dive"`
}

// RegradeRequest recomputes grades for an assessment's result rows.
type RegradeRequest struct {
	ScaleID    string              `json:"scale_id"`
	TotalMarks float64             `json:"total_marks" validate:"gt=0"`
	Results    []grading.ResultRow `json:"results" validate:"required,min=1,dive"`
	Grades     []grading.Band      `json:"grades" validate:"required,min=1,dive"`
}

// RegradeResult carries graded rows plus the rows that could not be graded.
type RegradeResult struct {
	ScaleID string                  `json:"scale_id,omitempty"`
	Valid   bool                    `json:"valid"`
	Results []grading.GradedResult  `json:"results"`
	Errors  []validation.FieldError `json:"errors"`
}

// DefaultsCheckRequest lists the candidate scales of one or more schools.
type DefaultsCheckRequest struct {
	Scales []grading.Scale `json:"scales" validate:"required,min=1,dive"`
}

// DefaultsCheckResult reports scales that conflict over the default flag.
type DefaultsCheckResult struct {
	Valid  bool                    `json:"valid"`
	Errors []validation.FieldError `json:"errors"`
}

// ExportScaleRequest is a scale to render as a band table.
type ExportScaleRequest struct {
	Name   string         `json:"name" validate:"required,max=255"`
	Grades []grading.Band `json:"grades" validate:"required,min=1,dive"`
}

// ExportFile is a rendered document ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
