package validation

import (
	"fmt"
	"strings"
)

// Comparator orders two operands of a cross-field rule.
type Comparator string

const (
	After        Comparator = "after"
	AfterOrEqual Comparator = "after_or_equal"
	Gte          Comparator = "gte"
	Lte          Comparator = "lte"
)

// Valid reports whether the comparator is known.
func (c Comparator) Valid() bool {
	switch c {
	case After, AfterOrEqual, Gte, Lte:
		return true
	}
	return false
}

func (c Comparator) dates() bool {
	return c == After || c == AfterOrEqual
}

func (c Comparator) phrase() string {
	switch c {
	case After:
		return "a date after"
	case AfterOrEqual:
		return "a date after or equal to"
	case Gte:
		return "greater than or equal to"
	default:
		return "less than or equal to"
	}
}

// CrossRule compares Field against Other. Field is the governing operand: errors are reported there.
// Wildcard rules ("rows.*.a" vs "rows.*.b") compare siblings within the same row; a wildcard
// Field may also be compared against a top-level Other.
type CrossRule struct {
	Field      string     `json:"field" yaml:"field"`
	Other      string     `json:"other" yaml:"other"`
	Comparator Comparator `json:"comparator" yaml:"comparator"`
}

// CeilingRule caps a per-row numeric field by a submission-level numeric field.
type CeilingRule struct {
	Field string `json:"field" yaml:"field"`
	Limit string `json:"limit" yaml:"limit"`
}

// scope resolves rule paths against a submission, optionally positioned on one row.
type scope struct {
	root       Submission
	collection string
	index      int
	row        Submission
	element    interface{}
}

func (s scope) resolve(path string) (interface{}, bool, string) {
	if s.collection != "" {
		if path == s.collection+".*" {
			return s.element, true, rowPath(s.collection, s.index, "")
		}
		if field, ok := strings.CutPrefix(path, s.collection+".*."); ok {
			v, present := s.row[field]
			return v, present, rowPath(s.collection, s.index, field)
		}
	}
	v, present := s.root[path]
	return v, present, path
}

func rowPath(collection string, index int, field string) string {
	if field == "" {
		return fmt.Sprintf("%s.%d", collection, index)
	}
	return fmt.Sprintf("%s.%d.%s", collection, index, field)
}

// EvaluateCross checks a top-level cross-field rule. optional reports whether the governing
// field may be omitted, in which case a missing operand skips the rule.
func EvaluateCross(sub Submission, rule CrossRule, optional bool) *FieldError {
	return evaluateCross(scope{root: sub}, rule, optional)
}

func evaluateCross(s scope, rule CrossRule, optional bool) *FieldError {
	left, leftOK, leftPath := s.resolve(rule.Field)
	right, rightOK, rightPath := s.resolve(rule.Other)
	leftOK = leftOK && !isBlank(left)
	rightOK = rightOK && !isBlank(right)
	if !leftOK || !rightOK {
		if optional {
			return nil
		}
		missing := leftPath
		if leftOK {
			missing = rightPath
		}
		return newFieldError(missing, KindValueRequired, "The %s field is required to compare %s.", label(missing), label(leftPath))
	}

	if rule.Comparator.dates() {
		l, ok := asDate(left)
		if !ok {
			return newFieldError(leftPath, KindTypeMismatch, "The %s field must be a valid date.", label(leftPath))
		}
		r, ok := asDate(right)
		if !ok {
			return newFieldError(rightPath, KindTypeMismatch, "The %s field must be a valid date.", label(rightPath))
		}
		passed := l.After(r)
		if rule.Comparator == AfterOrEqual {
			passed = !l.Before(r)
		}
		if !passed {
			return orderingError(leftPath, rightPath, l.Format("2006-01-02"), r.Format("2006-01-02"), rule.Comparator)
		}
		return nil
	}

	l, ok := asFloat(left)
	if !ok {
		return newFieldError(leftPath, KindTypeMismatch, "The %s field must be a number.", label(leftPath))
	}
	r, ok := asFloat(right)
	if !ok {
		return newFieldError(rightPath, KindTypeMismatch, "The %s field must be a number.", label(rightPath))
	}
	passed := l >= r
	if rule.Comparator == Lte {
		passed = l <= r
	}
	if !passed {
		return orderingError(leftPath, rightPath, formatNumber(l), formatNumber(r), rule.Comparator)
	}
	return nil
}

func orderingError(leftPath, rightPath, left, right string, c Comparator) *FieldError {
	return newFieldError(leftPath, KindOrderingViolation, "The %s (%s) must be %s %s (%s).",
		label(leftPath), left, c.phrase(), label(rightPath), right)
}
