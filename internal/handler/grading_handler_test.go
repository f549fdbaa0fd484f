package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-grading-api/internal/dto"
	"github.com/noah-isme/sma-grading-api/internal/grading"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
)

type gradingServiceMock struct {
	scale      *dto.ScaleValidationResult
	resolution *grading.Resolution
	regrade    *dto.RegradeResult
	defaults   *dto.DefaultsCheckResult
	file       *dto.ExportFile
	err        error
	lastFormat string
}

func (m *gradingServiceMock) ValidateScale(ctx context.Context, sub validation.Submission) (*dto.ScaleValidationResult, error) {
	return m.scale, m.err
}

func (m *gradingServiceMock) Resolve(ctx context.Context, req dto.ResolveRequest) (*grading.Resolution, error) {
	return m.resolution, m.err
}

func (m *gradingServiceMock) Regrade(ctx context.Context, req dto.RegradeRequest) (*dto.RegradeResult, error) {
	return m.regrade, m.err
}

func (m *gradingServiceMock) CheckDefaults(ctx context.Context, req dto.DefaultsCheckRequest) (*dto.DefaultsCheckResult, error) {
	return m.defaults, m.err
}

func (m *gradingServiceMock) Export(ctx context.Context, req dto.ExportScaleRequest, format string) (*dto.ExportFile, error) {
	m.lastFormat = format
	return m.file, m.err
}

func newGradingContext(target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestGradingHandlerValidateOverlap(t *testing.T) {
	svc := &gradingServiceMock{scale: &dto.ScaleValidationResult{
		Errors: []validation.FieldError{{Field: "grades.1.min_percentage", Kind: validation.KindOverlappingBands}},
	}}
	c, w := newGradingContext("/grading-scales/validate", `{"name":"S","grades":[]}`)

	NewGradingHandler(svc).Validate(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGradingHandlerResolve(t *testing.T) {
	svc := &gradingServiceMock{resolution: &grading.Resolution{Percentage: 72.5, Band: grading.Band{Grade: "B"}}}
	c, w := newGradingContext("/grading-scales/resolve", `{"percentage":72.5,"grades":[{"grade":"B","min_percentage":65}]}`)

	NewGradingHandler(svc).Resolve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"grade":"B"`)
}

func TestGradingHandlerResolveInvalidJSON(t *testing.T) {
	c, w := newGradingContext("/grading-scales/resolve", `{"percentage":"high"}`)

	NewGradingHandler(&gradingServiceMock{}).Resolve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradingHandlerResolveServiceError(t *testing.T) {
	svc := &gradingServiceMock{err: appErrors.Clone(appErrors.ErrUnprocessable, "no grade band covers 40%")}
	c, w := newGradingContext("/grading-scales/resolve", `{"percentage":40,"grades":[{"grade":"A","min_percentage":50}]}`)

	NewGradingHandler(svc).Resolve(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGradingHandlerRegradeAllGraded(t *testing.T) {
	svc := &gradingServiceMock{regrade: &dto.RegradeResult{Valid: true, Errors: []validation.FieldError{}}}
	c, w := newGradingContext("/grading-scales/regrade", `{"total_marks":50,"results":[],"grades":[]}`)

	NewGradingHandler(svc).Regrade(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGradingHandlerCheckDefaultsConflict(t *testing.T) {
	svc := &gradingServiceMock{defaults: &dto.DefaultsCheckResult{
		Errors: []validation.FieldError{{Field: "scales.1.is_default", Kind: validation.KindDuplicateValue}},
	}}
	c, w := newGradingContext("/grading-scales/defaults/check", `{"scales":[]}`)

	NewGradingHandler(svc).CheckDefaults(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGradingHandlerExport(t *testing.T) {
	svc := &gradingServiceMock{file: &dto.ExportFile{Filename: "standard.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.3")}}
	c, w := newGradingContext("/grading-scales/export?format=pdf", `{"name":"Standard","grades":[]}`)

	NewGradingHandler(svc).Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", svc.lastFormat)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="standard.pdf"`, w.Header().Get("Content-Disposition"))
}
