package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// StructValidator checks tagged request structs and reports failures in the same
// FieldError shape the engine produces.
type StructValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewStructValidator registers English messages and JSON field names on a fresh validator.
func NewStructValidator() *StructValidator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StructValidator{validate: validate, translator: translator}
}

// Validator exposes the underlying validator for reuse by the field evaluator.
func (v *StructValidator) Validator() *validator.Validate {
	return v.validate
}

// Struct validates s; a nil result means s is valid.
func (v *StructValidator) Struct(s interface{}) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Kind: KindTypeMismatch, Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   structPath(fe.Namespace()),
			Kind:    kindForTag(fe.Tag()),
			Message: fe.Translate(v.translator),
		})
	}
	return out
}

// structPath turns "ResolveRequest.bands[0].grade" into "bands.0.grade".
func structPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func kindForTag(tag string) Kind {
	switch tag {
	case "required", "required_with", "required_without":
		return KindValueRequired
	case "min", "max", "gte", "lte", "gt", "lt", "len":
		return KindBoundsViolation
	case "oneof":
		return KindEnumViolation
	case "gtefield", "ltefield", "gtfield", "ltfield":
		return KindOrderingViolation
	default:
		return KindTypeMismatch
	}
}
