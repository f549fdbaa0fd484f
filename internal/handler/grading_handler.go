package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-grading-api/internal/dto"
	"github.com/noah-isme/sma-grading-api/internal/grading"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
	"github.com/noah-isme/sma-grading-api/pkg/response"
)

type gradingService interface {
	ValidateScale(ctx context.Context, sub validation.Submission) (*dto.ScaleValidationResult, error)
	Resolve(ctx context.Context, req dto.ResolveRequest) (*grading.Resolution, error)
	Regrade(ctx context.Context, req dto.RegradeRequest) (*dto.RegradeResult, error)
	CheckDefaults(ctx context.Context, req dto.DefaultsCheckRequest) (*dto.DefaultsCheckResult, error)
	Export(ctx context.Context, req dto.ExportScaleRequest, format string) (*dto.ExportFile, error)
}

// GradingHandler exposes grading scale endpoints.
type GradingHandler struct {
	service gradingService
}

// NewGradingHandler constructs handler.
func NewGradingHandler(service gradingService) *GradingHandler {
	return &GradingHandler{service: service}
}

func invalidBody(c *gin.Context, err error) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
}

// Validate godoc
// @Summary Validate a grading scale and its bands
// @Tags Grading Scales
// @Accept json
// @Produce json
// @Param payload body object true "Grading scale"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-scales/validate [post]
func (h *GradingHandler) Validate(c *gin.Context) {
	var sub validation.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		invalidBody(c, err)
		return
	}
	result, err := h.service.ValidateScale(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, outcomeStatus(result.Errors), result)
}

// Resolve godoc
// @Summary Resolve the grade for a percentage
// @Tags Grading Scales
// @Accept json
// @Produce json
// @Param payload body dto.ResolveRequest true "Percentage and bands"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-scales/resolve [post]
func (h *GradingHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	result, err := h.service.Resolve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Regrade godoc
// @Summary Grade result rows against a scale
// @Tags Grading Scales
// @Accept json
// @Produce json
// @Param payload body dto.RegradeRequest true "Result rows and bands"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-scales/regrade [post]
func (h *GradingHandler) Regrade(c *gin.Context) {
	var req dto.RegradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	result, err := h.service.Regrade(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, outcomeStatus(result.Errors), result)
}

// CheckDefaults godoc
// @Summary Check that each school has at most one default scale
// @Tags Grading Scales
// @Accept json
// @Produce json
// @Param payload body dto.DefaultsCheckRequest true "Candidate scales"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-scales/defaults/check [post]
func (h *GradingHandler) CheckDefaults(c *gin.Context) {
	var req dto.DefaultsCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	result, err := h.service.CheckDefaults(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, outcomeStatus(result.Errors), result)
}

// Export godoc
// @Summary Export a grading scale table
// @Tags Grading Scales
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param payload body dto.ExportScaleRequest true "Scale"
// @Success 200 {file} file
// @Router /grading-scales/export [post]
func (h *GradingHandler) Export(c *gin.Context) {
	var req dto.ExportScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), req, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
