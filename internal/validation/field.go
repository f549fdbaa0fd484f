package validation

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Lookup answers existence and uniqueness questions against persisted data.
// Implementations must be idempotent reads; a returned error means the answer is unknown.
type Lookup interface {
	Exists(ctx context.Context, table, column string, value interface{}) (bool, error)
	IsUnique(ctx context.Context, table, column string, value interface{}, exceptID string) (bool, error)
}

// FieldEvaluator applies single-field rules.
type FieldEvaluator struct {
	lookup   Lookup
	validate *validator.Validate
}

// NewFieldEvaluator builds an evaluator. A nil lookup makes exists/unique rules report LOOKUP_UNAVAILABLE.
func NewFieldEvaluator(lookup Lookup, validate *validator.Validate) *FieldEvaluator {
	if validate == nil {
		validate = validator.New()
	}
	return &FieldEvaluator{lookup: lookup, validate: validate}
}

// EvaluateField runs the rule list bound to path and returns the first failure.
// present reports whether the path exists in the submission at all.
func (e *FieldEvaluator) EvaluateField(ctx context.Context, path string, value interface{}, present bool, rules []Rule) *FieldError {
	if !present && hasRule(rules, RuleSometimes) {
		return nil
	}
	if !present || isBlank(value) {
		if hasRule(rules, RuleRequired) {
			return newFieldError(path, KindValueRequired, "The %s field is required.", label(path))
		}
		if !present || hasRule(rules, RuleNullable) {
			return nil
		}
		// A blank value without nullable is checked as null against the declared type.
		for _, rule := range rules {
			if rule.Kind.typed() {
				return e.Evaluate(ctx, path, nil, rule)
			}
		}
		return nil
	}

	numeric := hasRule(rules, RuleNumeric) || hasRule(rules, RuleInteger)
	for _, rule := range rules {
		v := value
		if numeric && (rule.Kind == RuleMin || rule.Kind == RuleMax) {
			if f, ok := asFloat(value); ok {
				v = f
			}
		}
		if err := e.Evaluate(ctx, path, v, rule); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate checks one rule against one value.
func (e *FieldEvaluator) Evaluate(ctx context.Context, path string, value interface{}, rule Rule) *FieldError {
	name := label(path)
	switch rule.Kind {
	case RuleRequired:
		if isBlank(value) {
			return newFieldError(path, KindValueRequired, "The %s field is required.", name)
		}
	case RuleSometimes, RuleNullable:
	case RuleString:
		if _, ok := value.(string); !ok {
			return newFieldError(path, KindTypeMismatch, "The %s field must be a string.", name)
		}
	case RuleInteger:
		if !isInteger(value) {
			return newFieldError(path, KindTypeMismatch, "The %s field must be an integer.", name)
		}
	case RuleNumeric:
		if _, ok := asFloat(value); !ok {
			return newFieldError(path, KindTypeMismatch, "The %s field must be a number.", name)
		}
	case RuleBoolean:
		if !isBoolean(value) {
			return newFieldError(path, KindTypeMismatch, "The %s field must be true or false.", name)
		}
	case RuleDate:
		if _, ok := asDate(value); !ok {
			return newFieldError(path, KindTypeMismatch, "The %s field must be a valid date.", name)
		}
	case RuleArray:
		if _, ok := asList(value); !ok {
			return newFieldError(path, KindTypeMismatch, "The %s field must be an array.", name)
		}
	case RuleEmail:
		s, ok := value.(string)
		if !ok || e.validate.Var(s, "email") != nil {
			return newFieldError(path, KindTypeMismatch, "The %s field must be a valid email address.", name)
		}
	case RuleMin, RuleMax:
		return bounds(path, value, rule)
	case RuleIn:
		actual := Canonical(value)
		for _, allowed := range rule.Values {
			if actual == allowed {
				return nil
			}
		}
		return newFieldError(path, KindEnumViolation, "The selected %s is invalid; it must be one of: %s.", name, strings.Join(rule.Values, ", "))
	case RuleExists:
		if e.lookup == nil {
			return lookupUnavailable(path)
		}
		found, err := e.lookup.Exists(ctx, rule.Table, rule.Column, value)
		if err != nil {
			return lookupUnavailable(path)
		}
		if !found {
			return newFieldError(path, KindReferenceNotFound, "The selected %s does not exist.", name)
		}
	case RuleUnique:
		if e.lookup == nil {
			return lookupUnavailable(path)
		}
		unique, err := e.lookup.IsUnique(ctx, rule.Table, rule.Column, value, rule.ExceptID)
		if err != nil {
			return lookupUnavailable(path)
		}
		if !unique {
			return newFieldError(path, KindDuplicateValue, "The %s has already been taken.", name)
		}
	}
	return nil
}

func bounds(path string, value interface{}, rule Rule) *FieldError {
	size, unit, ok := measure(value)
	if !ok {
		return newFieldError(path, KindTypeMismatch, "The %s field must be a number, string or array.", label(path))
	}
	limit := formatNumber(rule.Limit)
	actual := formatNumber(size)
	if rule.Kind == RuleMin && size < rule.Limit {
		if unit == " items" {
			return newFieldError(path, KindBoundsViolation, "The %s field must have at least %s items (got %s).", label(path), limit, actual)
		}
		return newFieldError(path, KindBoundsViolation, "The %s field must be at least %s%s (got %s).", label(path), limit, unit, actual)
	}
	if rule.Kind == RuleMax && size > rule.Limit {
		if unit == " items" {
			return newFieldError(path, KindBoundsViolation, "The %s field must not have more than %s items (got %s).", label(path), limit, actual)
		}
		return newFieldError(path, KindBoundsViolation, "The %s field must not be greater than %s%s (got %s).", label(path), limit, unit, actual)
	}
	return nil
}

func lookupUnavailable(path string) *FieldError {
	return newFieldError(path, KindLookupUnavailable, "The %s field could not be verified right now.", label(path))
}
