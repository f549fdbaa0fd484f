package grading

import (
	"errors"
	"fmt"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// ResultRow is one student's marks for an assessment.
type ResultRow struct {
	StudentID     string  `json:"student_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Remarks       *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// GradedResult is a result row classified against a scale.
type GradedResult struct {
	StudentID     string                  `json:"student_id"`
	MarksObtained float64                 `json:"marks_obtained"`
	Percentage    float64                 `json:"percentage"`
	Grade         string                  `json:"grade"`
	GPAValue      *float64                `json:"gpa_value,omitempty"`
	Remarks       *string                 `json:"remarks,omitempty"`
	Warnings      []validation.FieldError `json:"warnings,omitempty"`
}

// Percentage converts marks into a 0-100 percentage of totalMarks.
func Percentage(marks, totalMarks float64) (float64, error) {
	if totalMarks <= 0 {
		return 0, fmt.Errorf("total marks must be positive, got %g", totalMarks)
	}
	if marks < 0 || marks > totalMarks {
		return 0, fmt.Errorf("marks %g outside 0-%g", marks, totalMarks)
	}
	return marks / totalMarks * 100, nil
}

// Regrade classifies every row against bands. Rows that cannot be graded are reported at
// results.{index}.marks_obtained and left out of the graded list; the rest are still graded.
// Regrading the same rows against the same bands always yields the same output.
func Regrade(scaleID string, totalMarks float64, rows []ResultRow, bands []Band) ([]GradedResult, []validation.FieldError) {
	graded := make([]GradedResult, 0, len(rows))
	var errs []validation.FieldError
	for i, row := range rows {
		path := fmt.Sprintf("results.%d.marks_obtained", i)
		pct, err := Percentage(row.MarksObtained, totalMarks)
		if err != nil {
			errs = append(errs, fieldError(path, validation.KindBoundsViolation, "The results.%d.marks obtained field cannot be graded: %s.", i, err.Error()))
			continue
		}
		res, err := Resolve(pct, scaleID, bands)
		if err != nil {
			var gradeErr *Error
			if errors.As(err, &gradeErr) {
				errs = append(errs, fieldError(path, gradeErr.Kind, "%s", gradeErr.Message))
				continue
			}
			errs = append(errs, fieldError(path, validation.KindNoMatchingBand, "%s", err.Error()))
			continue
		}
		graded = append(graded, GradedResult{
			StudentID:     row.StudentID,
			MarksObtained: row.MarksObtained,
			Percentage:    res.Percentage,
			Grade:         res.Band.Grade,
			GPAValue:      res.Band.GPAValue,
			Remarks:       row.Remarks,
			Warnings:      res.Warnings,
		})
	}
	return graded, errs
}
