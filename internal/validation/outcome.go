package validation

import "fmt"

// Kind classifies a validation failure.
type Kind string

const (
	KindValueRequired     Kind = "VALUE_REQUIRED"
	KindTypeMismatch      Kind = "TYPE_MISMATCH"
	KindBoundsViolation   Kind = "BOUNDS_VIOLATION"
	KindEnumViolation     Kind = "ENUM_VIOLATION"
	KindReferenceNotFound Kind = "REFERENCE_NOT_FOUND"
	KindDuplicateValue    Kind = "DUPLICATE_VALUE"
	KindOrderingViolation Kind = "ORDERING_VIOLATION"
	KindNoMatchingBand    Kind = "NO_MATCHING_BAND"
	// KindOverlappingBands is a warning when returned by band resolution and a
	// rejection when returned by band-set validation.
	KindOverlappingBands Kind = "OVERLAPPING_BANDS"
	// KindLookupUnavailable means the persistence layer could not answer an
	// exists/unique check. It is never folded into "not found" or "unique".
	KindLookupUnavailable Kind = "LOOKUP_UNAVAILABLE"
)

// Infrastructure reports whether the kind describes an outage rather than bad input.
func (k Kind) Infrastructure() bool {
	return k == KindLookupUnavailable
}

// FieldError is a single field-scoped failure.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newFieldError(field string, kind Kind, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Outcome is the ordered result of one validation pass.
type Outcome struct {
	Errors []FieldError `json:"errors"`
}

// Valid reports whether no errors were collected.
func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

// Unavailable reports whether any rule could not be checked because a lookup failed.
func (o Outcome) Unavailable() bool {
	for _, err := range o.Errors {
		if err.Kind.Infrastructure() {
			return true
		}
	}
	return false
}

// Fields groups messages by field path, keeping per-path order.
func (o Outcome) Fields() map[string][]string {
	grouped := make(map[string][]string, len(o.Errors))
	for _, err := range o.Errors {
		grouped[err.Field] = append(grouped[err.Field], err.Message)
	}
	return grouped
}

// Of returns the errors of the given kind.
func (o Outcome) Of(kind Kind) []FieldError {
	var matched []FieldError
	for _, err := range o.Errors {
		if err.Kind == kind {
			matched = append(matched, err)
		}
	}
	return matched
}

// Aggregate concatenates field-level, cross-field and row-level errors in that order.
func Aggregate(fieldErrors, crossErrors, rowErrors []FieldError) Outcome {
	errs := make([]FieldError, 0, len(fieldErrors)+len(crossErrors)+len(rowErrors))
	errs = append(errs, fieldErrors...)
	errs = append(errs, crossErrors...)
	errs = append(errs, rowErrors...)
	return Outcome{Errors: errs}
}
