package dto

import "github.com/noah-isme/sma-grading-api/internal/validation"

// ValidationResult is the outcome of validating one submission.
type ValidationResult struct {
	RuleSet string                  `json:"ruleset"`
	Valid   bool                    `json:"valid"`
	Errors  []validation.FieldError `json:"errors"`
	Fields  map[string][]string     `json:"fields,omitempty"`
}
