package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-grading-api/internal/rulesets"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
)

type stubLookup struct {
	exists     bool
	unique     bool
	err        error
	lastExcept string
}

func (s *stubLookup) Exists(ctx context.Context, table, column string, value interface{}) (bool, error) {
	return s.exists, s.err
}

func (s *stubLookup) IsUnique(ctx context.Context, table, column string, value interface{}, exceptID string) (bool, error) {
	s.lastExcept = exceptID
	return s.unique, s.err
}

func newTestValidationService(t *testing.T, lookup validation.Lookup) *ValidationService {
	t.Helper()
	registry, err := rulesets.Default()
	require.NoError(t, err)
	engine := validation.NewEngine(lookup, nil, 2)
	return NewValidationService(registry, engine, NewMetricsService(), time.Second, zap.NewNop())
}

func TestValidationServiceValidSubmission(t *testing.T) {
	svc := newTestValidationService(t, &stubLookup{exists: true, unique: true})

	res, err := svc.Validate(context.Background(), "term", validation.Submission{
		"name":        "Term 1",
		"term_number": float64(1),
		"start_date":  "2024-01-08",
		"end_date":    "2024-04-05",
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "term", res.RuleSet)
}

func TestValidationServiceReportsFieldErrors(t *testing.T) {
	svc := newTestValidationService(t, &stubLookup{exists: true, unique: true})

	res, err := svc.Validate(context.Background(), "term", validation.Submission{
		"term_number": float64(1),
		"start_date":  "2024-01-08",
		"end_date":    "2024-04-05",
	}, nil)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "name", res.Errors[0].Field)
	assert.Equal(t, validation.KindValueRequired, res.Errors[0].Kind)
	assert.Contains(t, res.Fields, "name")
}

func TestValidationServiceUnknownRuleSet(t *testing.T) {
	svc := newTestValidationService(t, nil)

	_, err := svc.Validate(context.Background(), "library", validation.Submission{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestValidationServiceBindsExceptID(t *testing.T) {
	lookup := &stubLookup{exists: true, unique: true}
	svc := newTestValidationService(t, lookup)

	res, err := svc.Validate(context.Background(), "teacher", validation.Submission{
		"name":  "Ana",
		"email": "ana@example.com",
	}, map[string]string{"except_id": "teacher-7"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "teacher-7", lookup.lastExcept)
}

func TestValidationServiceLookupFailureIsUnavailable(t *testing.T) {
	svc := newTestValidationService(t, &stubLookup{err: errors.New("db down")})

	res, err := svc.Validate(context.Background(), "teacher", validation.Submission{
		"name":  "Ana",
		"email": "ana@example.com",
	}, nil)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, validation.KindLookupUnavailable, res.Errors[0].Kind)
	assert.Equal(t, "email", res.Errors[0].Field)
}

func TestValidationServiceListsRuleSets(t *testing.T) {
	svc := newTestValidationService(t, nil)

	defs := svc.RuleSets()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"assessment", "attendance", "class", "grading_scale", "results", "teacher", "term"}, names)
}
