package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCrossDates(t *testing.T) {
	after := CrossRule{Field: "end_date", Other: "start_date", Comparator: After}

	err := EvaluateCross(Submission{"start_date": "2024-01-08", "end_date": "2024-01-08"}, after, false)
	require.NotNil(t, err)
	assert.Equal(t, KindOrderingViolation, err.Kind)
	assert.Equal(t, "end_date", err.Field)
	assert.Equal(t, "The end date (2024-01-08) must be a date after start date (2024-01-08).", err.Message)

	assert.Nil(t, EvaluateCross(Submission{"start_date": "2024-01-08", "end_date": "2024-01-09"}, after, false))

	// Time of day is ignored: both operands fall on the same calendar day.
	onOrAfter := CrossRule{Field: "due_date", Other: "assessment_date", Comparator: AfterOrEqual}
	assert.Nil(t, EvaluateCross(Submission{"assessment_date": "2024-03-01T15:00:00Z", "due_date": "2024-03-01"}, onOrAfter, true))
}

func TestEvaluateCrossMissingOperand(t *testing.T) {
	rule := CrossRule{Field: "due_date", Other: "assessment_date", Comparator: AfterOrEqual}

	assert.Nil(t, EvaluateCross(Submission{"assessment_date": "2024-03-01"}, rule, true))
	assert.Nil(t, EvaluateCross(Submission{"assessment_date": "2024-03-01", "due_date": nil}, rule, true))

	err := EvaluateCross(Submission{"due_date": "2024-03-01"}, rule, false)
	require.NotNil(t, err)
	assert.Equal(t, KindValueRequired, err.Kind)
	assert.Equal(t, "assessment_date", err.Field)
}

func TestEvaluateCrossNumbers(t *testing.T) {
	gte := CrossRule{Field: "max", Other: "min", Comparator: Gte}
	assert.Nil(t, EvaluateCross(Submission{"min": float64(50), "max": "50"}, gte, false))

	err := EvaluateCross(Submission{"min": float64(50), "max": float64(49.5)}, gte, false)
	require.NotNil(t, err)
	assert.Equal(t, KindOrderingViolation, err.Kind)
	assert.Contains(t, err.Message, "49.5")
	assert.Contains(t, err.Message, "50")

	lte := CrossRule{Field: "min", Other: "max", Comparator: Lte}
	assert.NotNil(t, EvaluateCross(Submission{"min": float64(60), "max": float64(50)}, lte, false))

	err = EvaluateCross(Submission{"min": "low", "max": float64(50)}, lte, false)
	require.NotNil(t, err)
	assert.Equal(t, KindTypeMismatch, err.Kind)
}
