package validation

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RowRules groups every rule addressed at one repeated collection of a submission.
// Field paths are relative to the row; cross and ceiling rules keep their wildcard paths.
type RowRules struct {
	Collection string
	Fields     []FieldRules
	Cross      []CrossRule
	Ceilings   []CeilingRule
}

func (r RowRules) required(wildcard string) bool {
	field, ok := strings.CutPrefix(wildcard, r.Collection+".*.")
	if !ok && wildcard != r.Collection+".*" {
		return false
	}
	for _, fr := range r.Fields {
		if fr.Path == field {
			return hasRule(fr.Rules, RuleRequired)
		}
	}
	return false
}

// objectRows reports whether any rule addresses a named field inside a row.
func (r RowRules) objectRows() bool {
	for _, fr := range r.Fields {
		if fr.Path != "" {
			return true
		}
	}
	prefix := r.Collection + ".*."
	for _, cr := range r.Cross {
		if strings.HasPrefix(cr.Field, prefix) || strings.HasPrefix(cr.Other, prefix) {
			return true
		}
	}
	for _, c := range r.Ceilings {
		if strings.HasPrefix(c.Field, prefix) {
			return true
		}
	}
	return false
}

// BatchValidator validates each element of a collection independently.
type BatchValidator struct {
	fields  *FieldEvaluator
	workers int
}

// NewBatchValidator builds a batch validator evaluating up to workers rows at once.
func NewBatchValidator(fields *FieldEvaluator, workers int) *BatchValidator {
	if workers <= 0 {
		workers = 1
	}
	return &BatchValidator{fields: fields, workers: workers}
}

// EvaluateRows validates rows exhaustively and returns errors ordered by row index.
// rootFailed lists top-level paths that already failed, so ceiling rules never compare
// against an invalid bound.
func (b *BatchValidator) EvaluateRows(ctx context.Context, root Submission, rows []interface{}, rules RowRules, rootFailed map[string]bool) []FieldError {
	perRow := make([][]FieldError, len(rows))
	if b.workers == 1 || len(rows) < 2 {
		for i, raw := range rows {
			perRow[i] = b.evaluateRow(ctx, root, i, raw, rules, rootFailed)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(b.workers)
		for i, raw := range rows {
			i, raw := i, raw
			g.Go(func() error {
				perRow[i] = b.evaluateRow(ctx, root, i, raw, rules, rootFailed)
				return nil
			})
		}
		_ = g.Wait()
	}

	var errs []FieldError
	for _, rowErrs := range perRow {
		errs = append(errs, rowErrs...)
	}
	return errs
}

func (b *BatchValidator) evaluateRow(ctx context.Context, root Submission, index int, raw interface{}, rules RowRules, rootFailed map[string]bool) []FieldError {
	row, ok := asRow(raw)
	if !ok && rules.objectRows() {
		path := rowPath(rules.Collection, index, "")
		return []FieldError{*newFieldError(path, KindTypeMismatch, "The %s entry must be an object.", label(path))}
	}

	s := scope{root: root, collection: rules.Collection, index: index, row: row, element: raw}
	var errs []FieldError
	failed := make(map[string]bool)
	for _, fr := range rules.Fields {
		path := rowPath(rules.Collection, index, fr.Path)
		v, present := raw, true
		if fr.Path != "" {
			v, present = row[fr.Path]
		}
		if err := b.fields.EvaluateField(ctx, path, v, present, fr.Rules); err != nil {
			errs = append(errs, *err)
			failed[path] = true
		}
	}

	for _, cr := range rules.Cross {
		_, _, leftPath := s.resolve(cr.Field)
		_, _, rightPath := s.resolve(cr.Other)
		if failed[leftPath] || failed[rightPath] || rootFailed[leftPath] || rootFailed[rightPath] {
			continue
		}
		if err := evaluateCross(s, cr, !rules.required(cr.Field)); err != nil {
			errs = append(errs, *err)
		}
	}

	for _, c := range rules.Ceilings {
		if err := ceiling(s, c, failed, rootFailed); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// ceiling runs only once the row value and the bound are both present and individually valid.
func ceiling(s scope, c CeilingRule, failed, rootFailed map[string]bool) *FieldError {
	v, present, path := s.resolve(c.Field)
	if !present || isBlank(v) || failed[path] {
		return nil
	}
	bound, boundPresent, boundPath := s.resolve(c.Limit)
	if !boundPresent || isBlank(bound) || rootFailed[boundPath] || failed[boundPath] {
		return nil
	}
	value, ok := asFloat(v)
	if !ok {
		return nil
	}
	limit, ok := asFloat(bound)
	if !ok {
		return nil
	}
	if value > limit {
		return newFieldError(path, KindBoundsViolation, "The %s field (%s) must not be greater than %s (%s).",
			label(path), formatNumber(value), label(boundPath), formatNumber(limit))
	}
	return nil
}
