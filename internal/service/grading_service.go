package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-grading-api/internal/dto"
	"github.com/noah-isme/sma-grading-api/internal/grading"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
	"github.com/noah-isme/sma-grading-api/pkg/export"
)

// GradingScaleRuleSet names the rule set applied to grading scale payloads.
const GradingScaleRuleSet = "grading_scale"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type submissionValidator interface {
	Validate(ctx context.Context, name string, sub validation.Submission, params map[string]string) (*dto.ValidationResult, error)
}

type tableRenderer interface {
	ContentType() string
	Render(table export.Table) ([]byte, error)
}

// GradingService validates grading scales and resolves percentages against them.
type GradingService struct {
	validations submissionValidator
	structs     *validation.StructValidator
	renderers   map[string]tableRenderer
	logger      *zap.Logger
}

// NewGradingService constructs the grading service with CSV and PDF exporters.
func NewGradingService(validations submissionValidator, structs *validation.StructValidator, logger *zap.Logger) *GradingService {
	if structs == nil {
		structs = validation.NewStructValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{
		validations: validations,
		structs:     structs,
		renderers: map[string]tableRenderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// ValidateScale checks a grading scale payload field by field, then its band set as a whole.
// The band-set pass only runs once every band is individually valid.
func (s *GradingService) ValidateScale(ctx context.Context, sub validation.Submission) (*dto.ScaleValidationResult, error) {
	res, err := s.validations.Validate(ctx, GradingScaleRuleSet, sub, nil)
	if err != nil {
		return nil, err
	}
	out := &dto.ScaleValidationResult{Errors: res.Errors}
	if touches(res.Errors, "grades") {
		out.Valid = len(out.Errors) == 0
		return out, nil
	}

	bands, err := grading.BandsFromSubmission(sub["grades"])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read grade bands")
	}
	out.Errors = append(out.Errors, grading.ValidateBands("grades", bands)...)
	out.Gaps = grading.Gaps(bands)
	out.Valid = len(out.Errors) == 0
	return out, nil
}

// Resolve returns the band a percentage falls into.
func (s *GradingService) Resolve(ctx context.Context, req dto.ResolveRequest) (*grading.Resolution, error) {
	if errs := s.structs.Struct(req); len(errs) > 0 {
		return nil, invalidPayload(errs)
	}
	res, err := grading.Resolve(*req.Percentage, req.ScaleID, req.Grades)
	if err != nil {
		var gradeErr *grading.Error
		if errors.As(err, &gradeErr) {
			return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrUnprocessable, gradeErr.Message),
				[]validation.FieldError{{Field: "percentage", Kind: gradeErr.Kind, Message: gradeErr.Message}})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve grade")
	}
	if res.Overlapping() {
		s.logger.Warn("grade resolved against overlapping bands", zap.String("scale_id", req.ScaleID), zap.Float64("percentage", res.Percentage))
	}
	return &res, nil
}

// Regrade computes percentages and grades for a set of result rows. Rows that cannot be
// graded are reported without stopping the others.
func (s *GradingService) Regrade(ctx context.Context, req dto.RegradeRequest) (*dto.RegradeResult, error) {
	if errs := s.structs.Struct(req); len(errs) > 0 {
		return nil, invalidPayload(errs)
	}
	graded, errs := grading.Regrade(req.ScaleID, req.TotalMarks, req.Results, req.Grades)
	if errs == nil {
		errs = []validation.FieldError{}
	}
	if len(errs) > 0 {
		s.logger.Info("regrade left rows ungraded", zap.String("scale_id", req.ScaleID), zap.Int("rows", len(req.Results)), zap.Int("failed", len(errs)))
	}
	return &dto.RegradeResult{ScaleID: req.ScaleID, Valid: len(errs) == 0, Results: graded, Errors: errs}, nil
}

// CheckDefaults reports candidate scales that would give a school more than one default.
func (s *GradingService) CheckDefaults(ctx context.Context, req dto.DefaultsCheckRequest) (*dto.DefaultsCheckResult, error) {
	if errs := s.structs.Struct(req); len(errs) > 0 {
		return nil, invalidPayload(errs)
	}
	errs := grading.CheckDefaults(req.Scales)
	if errs == nil {
		errs = []validation.FieldError{}
	}
	return &dto.DefaultsCheckResult{Valid: len(errs) == 0, Errors: errs}, nil
}

// Export renders a scale's band table in the requested format. Problems with the band set
// are listed as notes rather than blocking the export.
func (s *GradingService) Export(ctx context.Context, req dto.ExportScaleRequest, format string) (*dto.ExportFile, error) {
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if errs := s.structs.Struct(req); len(errs) > 0 {
		return nil, invalidPayload(errs)
	}

	body, err := renderer.Render(scaleTable(req))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grading scale")
	}
	return &dto.ExportFile{
		Filename:    slug(req.Name) + "." + strings.ToLower(format),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func scaleTable(req dto.ExportScaleRequest) export.Table {
	table := export.Table{
		Title:   req.Name,
		Headers: []string{"Grade", "Label", "Min %", "Max %", "GPA", "Description"},
	}
	for _, b := range grading.Sorted(req.Grades) {
		table.Rows = append(table.Rows, []string{
			b.Grade,
			deref(b.Label),
			formatFloat(&b.MinPercentage),
			formatFloat(b.MaxPercentage),
			formatFloat(b.GPAValue),
			deref(b.Description),
		})
	}
	for _, fe := range grading.ValidateBands("grades", req.Grades) {
		table.Notes = append(table.Notes, fe.Message)
	}
	for _, gap := range grading.Gaps(req.Grades) {
		table.Notes = append(table.Notes, fmt.Sprintf("No grade covers %s-%s%%.", formatFloat(&gap.From), formatFloat(&gap.To)))
	}
	return table
}

func touches(errs []validation.FieldError, collection string) bool {
	for _, fe := range errs {
		if fe.Field == collection || strings.HasPrefix(fe.Field, collection+".") {
			return true
		}
	}
	return false
}

func invalidPayload(errs []validation.FieldError) error {
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid payload"), errs)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func slug(name string) string {
	s := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "grading-scale"
	}
	return s
}
