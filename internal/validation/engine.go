package validation

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Engine validates submissions against compiled rule sets. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	fields *FieldEvaluator
	batch  *BatchValidator
}

// NewEngine wires the field and batch validators around one lookup capability.
func NewEngine(lookup Lookup, validate *validator.Validate, rowWorkers int) *Engine {
	fields := NewFieldEvaluator(lookup, validate)
	return &Engine{fields: fields, batch: NewBatchValidator(fields, rowWorkers)}
}

// Validate runs rs against sub. Top-level fields are checked first, then top-level
// cross-field rules, then every collection row by row.
func (e *Engine) Validate(ctx context.Context, rs *RuleSet, sub Submission) Outcome {
	if sub == nil {
		sub = Submission{}
	}
	top, topCross, rows := rs.plan()

	var fieldErrs []FieldError
	failed := make(map[string]bool)
	for _, fr := range top {
		v, present := sub[fr.Path]
		if err := e.fields.EvaluateField(ctx, fr.Path, v, present, fr.Rules); err != nil {
			fieldErrs = append(fieldErrs, *err)
			failed[fr.Path] = true
		}
	}

	var crossErrs []FieldError
	for _, cr := range topCross {
		if failed[cr.Field] || failed[cr.Other] {
			continue
		}
		if err := EvaluateCross(sub, cr, !rs.required(cr.Field)); err != nil {
			crossErrs = append(crossErrs, *err)
		}
	}

	var rowErrs []FieldError
	for _, rr := range rows {
		if failed[rr.Collection] {
			continue
		}
		raw, present := sub[rr.Collection]
		if !present || raw == nil {
			continue
		}
		list, ok := asList(raw)
		if !ok {
			fieldErrs = append(fieldErrs, *newFieldError(rr.Collection, KindTypeMismatch, "The %s field must be an array.", label(rr.Collection)))
			continue
		}
		rowErrs = append(rowErrs, e.batch.EvaluateRows(ctx, sub, list, rr, failed)...)
	}

	return Aggregate(fieldErrs, crossErrs, rowErrs)
}
