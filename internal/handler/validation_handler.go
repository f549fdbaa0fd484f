package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-grading-api/internal/dto"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
	"github.com/noah-isme/sma-grading-api/pkg/response"
)

type validationService interface {
	RuleSets() []validation.Definition
	Validate(ctx context.Context, name string, sub validation.Submission, params map[string]string) (*dto.ValidationResult, error)
}

// ValidationHandler exposes rule set validation endpoints.
type ValidationHandler struct {
	service validationService
}

// NewValidationHandler constructs the handler.
func NewValidationHandler(service validationService) *ValidationHandler {
	return &ValidationHandler{service: service}
}

// List godoc
// @Summary List rule sets
// @Tags Validation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rulesets [get]
func (h *ValidationHandler) List(c *gin.Context) {
	response.OK(c, h.service.RuleSets())
}

// Validate godoc
// @Summary Validate a submission against a rule set
// @Tags Validation
// @Accept json
// @Produce json
// @Param ruleset path string true "Rule set name"
// @Param except_id query string false "Row excluded from uniqueness checks (updates)"
// @Param payload body object true "Submission"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /validate/{ruleset} [post]
func (h *ValidationHandler) Validate(c *gin.Context) {
	var sub validation.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	params := map[string]string{}
	if exceptID := c.Query("except_id"); exceptID != "" {
		params["except_id"] = exceptID
	}

	result, err := h.service.Validate(c.Request.Context(), c.Param("ruleset"), sub, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, outcomeStatus(result.Errors), result)
}

// outcomeStatus maps collected errors onto a status: 503 if any lookup could not be
// answered, 422 for any other error, 200 otherwise.
func outcomeStatus(errs []validation.FieldError) int {
	outcome := validation.Outcome{Errors: errs}
	switch {
	case outcome.Valid():
		return http.StatusOK
	case outcome.Unavailable():
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
