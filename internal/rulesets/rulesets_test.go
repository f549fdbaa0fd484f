package rulesets

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

type allowAll struct{}

func (allowAll) Exists(ctx context.Context, table, column string, value interface{}) (bool, error) {
	return true, nil
}

func (allowAll) IsUnique(ctx context.Context, table, column string, value interface{}, exceptID string) (bool, error) {
	return true, nil
}

func validate(t *testing.T, name string, sub validation.Submission) validation.Outcome {
	t.Helper()
	reg, err := Default()
	require.NoError(t, err)
	rs, err := reg.Get(name)
	require.NoError(t, err)
	return validation.NewEngine(allowAll{}, nil, 4).Validate(context.Background(), rs, sub)
}

func validTerm() validation.Submission {
	return validation.Submission{
		"name":        "Term 1",
		"term_number": float64(1),
		"start_date":  "2024-01-08",
		"end_date":    "2024-04-05",
		"status":      "upcoming",
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, rs := range reg.List() {
		names = append(names, rs.Name)
	}
	assert.Equal(t, []string{"assessment", "attendance", "class", "grading_scale", "results", "teacher", "term"}, names)

	_, err = reg.Get("library")
	assert.ErrorIs(t, err, ErrUnknownRuleSet)
}

func TestKnownGoodTermIsValid(t *testing.T) {
	outcome := validate(t, "term", validTerm())
	assert.True(t, outcome.Valid(), "%v", outcome.Errors)
}

func TestMissingRequiredFieldReportsOnce(t *testing.T) {
	sub := validTerm()
	delete(sub, "name")

	outcome := validate(t, "term", sub)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "name", outcome.Errors[0].Field)
	assert.Equal(t, validation.KindValueRequired, outcome.Errors[0].Kind)
}

func TestTermMustEndAfterItStarts(t *testing.T) {
	sub := validTerm()
	sub["end_date"] = sub["start_date"]

	outcome := validate(t, "term", sub)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "end_date", outcome.Errors[0].Field)
	assert.Equal(t, validation.KindOrderingViolation, outcome.Errors[0].Kind)
}

func TestAssessmentMayBeDueOnItsDate(t *testing.T) {
	outcome := validate(t, "assessment", validation.Submission{
		"name":            "Midterm",
		"class_id":        "c1",
		"term_id":         "t1",
		"type":            "exam",
		"total_marks":     float64(100),
		"assessment_date": "2024-03-01",
		"due_date":        "2024-03-01",
	})
	assert.True(t, outcome.Valid(), "%v", outcome.Errors)
}

func TestResultsMarksCannotExceedTotal(t *testing.T) {
	outcome := validate(t, "results", validation.Submission{
		"total_marks": float64(50),
		"results": []interface{}{
			map[string]interface{}{"student_id": float64(1), "marks_obtained": float64(60)},
		},
	})
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "results.0.marks_obtained", outcome.Errors[0].Field)
	assert.Equal(t, validation.KindBoundsViolation, outcome.Errors[0].Kind)
	assert.Contains(t, outcome.Errors[0].Message, "50")
}

func TestEmptyAttendanceReportsOneTopLevelError(t *testing.T) {
	outcome := validate(t, "attendance", validation.Submission{
		"class_id": "c1",
		"date":     "2024-03-01",
		"students": []interface{}{},
	})
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "students", outcome.Errors[0].Field)
}

func TestGradingScaleRowsAreIndexed(t *testing.T) {
	outcome := validate(t, "grading_scale", validation.Submission{
		"name": "Standard",
		"grades": []interface{}{
			map[string]interface{}{"grade": "A", "min_percentage": float64(80), "max_percentage": float64(100)},
			map[string]interface{}{"grade": "B", "min_percentage": float64(120)},
		},
	})
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "grades.1.min_percentage", outcome.Errors[0].Field)
	assert.Equal(t, validation.KindBoundsViolation, outcome.Errors[0].Kind)
}

func TestLoadRejectsBrokenDefinitions(t *testing.T) {
	fsys := fstest.MapFS{
		"sets/a.yaml": {Data: []byte("name: a\nfields:\n  - path: x\n    rules: [required]\n")},
		"sets/b.yaml": {Data: []byte("name: a\nfields: []\n")},
	}
	_, err := Load(fsys, "sets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")

	fsys = fstest.MapFS{"sets/c.yaml": {Data: []byte("name: c\nfields:\n  - path: x\n    rules: [\"max:ten\"]\n")}}
	_, err = Load(fsys, "sets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c.yaml")
}

func TestParse(t *testing.T) {
	rs, err := Parse([]byte(`
name: mini
fields:
  - path: start
    rules: [required, date]
  - path: end
    rules: [required, date]
cross:
  - field: end
    other: start
    comparator: after_or_equal
`))
	require.NoError(t, err)
	assert.Equal(t, "mini", rs.Name)
	require.Len(t, rs.Cross, 1)
	assert.Equal(t, validation.AfterOrEqual, rs.Cross[0].Comparator)
}

func TestTeacherClassIDsArePlainIDs(t *testing.T) {
	outcome := validate(t, "teacher", validation.Submission{
		"name":      "Ana Lim",
		"email":     "ana@example.com",
		"class_ids": []interface{}{"c1", "c2"},
	})
	assert.True(t, outcome.Valid(), "%v", outcome.Errors)

	outcome = validate(t, "teacher", validation.Submission{
		"name":      "Ana Lim",
		"email":     "ana@example.com",
		"class_ids": []interface{}{"c1", nil},
	})
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "class_ids.1", outcome.Errors[0].Field)
	assert.Equal(t, validation.KindValueRequired, outcome.Errors[0].Kind)
}

func TestClassBlankOptionalFields(t *testing.T) {
	outcome := validate(t, "class", validation.Submission{"name": "X-A", "level": "", "section": ""})
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "level", outcome.Errors[0].Field)
	assert.Equal(t, validation.KindTypeMismatch, outcome.Errors[0].Kind)
}
