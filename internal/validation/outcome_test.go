package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	outcome := Aggregate(
		[]FieldError{{Field: "name", Kind: KindValueRequired, Message: "The name field is required."}},
		[]FieldError{{Field: "end_date", Kind: KindOrderingViolation, Message: "after"}},
		[]FieldError{{Field: "rows.0.value", Kind: KindValueRequired, Message: "required"}, {Field: "name", Kind: KindTypeMismatch, Message: "again"}},
	)

	assert.False(t, outcome.Valid())
	assert.False(t, outcome.Unavailable())
	assert.Equal(t, []string{"The name field is required.", "again"}, outcome.Fields()["name"])
	assert.Len(t, outcome.Of(KindValueRequired), 2)
}

func TestAggregateEmptyEncodesAsEmptyList(t *testing.T) {
	outcome := Aggregate(nil, nil, nil)
	assert.True(t, outcome.Valid())

	raw, err := json.Marshal(outcome)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[]}`, string(raw))
}
