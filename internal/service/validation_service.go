package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-grading-api/internal/dto"
	"github.com/noah-isme/sma-grading-api/internal/rulesets"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
)

type ruleSetRegistry interface {
	Get(name string) (*validation.RuleSet, error)
	List() []*validation.RuleSet
}

type submissionEngine interface {
	Validate(ctx context.Context, rs *validation.RuleSet, sub validation.Submission) validation.Outcome
}

// ValidationService runs named rule sets against submissions.
type ValidationService struct {
	registry ruleSetRegistry
	engine   submissionEngine
	metrics  *MetricsService
	timeout  time.Duration
	logger   *zap.Logger
}

// NewValidationService constructs the service. timeout bounds each validation pass, lookups included.
func NewValidationService(registry ruleSetRegistry, engine submissionEngine, metrics *MetricsService, timeout time.Duration, logger *zap.Logger) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{registry: registry, engine: engine, metrics: metrics, timeout: timeout, logger: logger}
}

// RuleSets lists the registered rule sets in declarative form.
func (s *ValidationService) RuleSets() []validation.Definition {
	sets := s.registry.List()
	defs := make([]validation.Definition, len(sets))
	for i, rs := range sets {
		defs[i] = rs.Definition()
	}
	return defs
}

// Validate checks sub against the named rule set. params bind placeholders such as {except_id}.
// Invalid input is reported in the result, not as an error.
func (s *ValidationService) Validate(ctx context.Context, name string, sub validation.Submission, params map[string]string) (*dto.ValidationResult, error) {
	rs, err := s.registry.Get(name)
	if err != nil {
		if errors.Is(err, rulesets.ErrUnknownRuleSet) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rule set not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rule set")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := s.engine.Validate(ctx, rs.Bind(params), sub)
	s.observe(name, outcome, time.Since(start))

	return &dto.ValidationResult{
		RuleSet: name,
		Valid:   outcome.Valid(),
		Errors:  outcome.Errors,
		Fields:  outcome.Fields(),
	}, nil
}

func (s *ValidationService) observe(name string, outcome validation.Outcome, duration time.Duration) {
	result := "valid"
	switch {
	case outcome.Unavailable():
		result = "unavailable"
		s.logger.Warn("validation incomplete: lookups unavailable", zap.String("ruleset", name), zap.Int("errors", len(outcome.Errors)))
	case !outcome.Valid():
		result = "invalid"
		s.logger.Debug("submission rejected", zap.String("ruleset", name), zap.Int("errors", len(outcome.Errors)))
	}
	kinds := make([]string, len(outcome.Errors))
	for i, fe := range outcome.Errors {
		kinds[i] = string(fe.Kind)
	}
	s.metrics.ObserveValidation(name, result, kinds, duration)
}
