package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bandPayload struct {
	Grade string  `json:"grade" validate:"required"`
	Min   float64 `json:"min_percentage" validate:"gte=0,lte=100"`
}

type scalePayload struct {
	Name   string        `json:"name" validate:"required,max=10"`
	Kind   string        `json:"kind" validate:"omitempty,oneof=letter numeric"`
	Grades []bandPayload `json:"grades" validate:"required,min=1,dive"`
}

func TestStructValidatorUsesJSONPaths(t *testing.T) {
	v := NewStructValidator()

	errs := v.Struct(scalePayload{
		Name:   "Standard",
		Kind:   "roman",
		Grades: []bandPayload{{Grade: "A", Min: 80}, {Min: 120}},
	})
	require.Len(t, errs, 3)
	assert.Equal(t, FieldError{Field: "kind", Kind: KindEnumViolation, Message: "kind must be one of [letter numeric]"}, errs[0])
	assert.Equal(t, "grades.1.grade", errs[1].Field)
	assert.Equal(t, KindValueRequired, errs[1].Kind)
	assert.Equal(t, "grades.1.min_percentage", errs[2].Field)
	assert.Equal(t, KindBoundsViolation, errs[2].Kind)
	assert.Equal(t, "min_percentage must be 100 or less", errs[2].Message)
}

func TestStructValidatorValid(t *testing.T) {
	v := NewStructValidator()
	assert.Nil(t, v.Struct(scalePayload{Name: "Standard", Grades: []bandPayload{{Grade: "A"}}}))
	assert.NotNil(t, v.Validator())
}

func TestStructPath(t *testing.T) {
	assert.Equal(t, "bands.0.grade", structPath("ResolveRequest.bands[0].grade"))
	assert.Equal(t, "scales.2.grades.10.min_percentage", structPath("DefaultsCheckRequest.scales[2].grades[10].min_percentage"))
	assert.Equal(t, "percentage", structPath("ResolveRequest.percentage"))
}
