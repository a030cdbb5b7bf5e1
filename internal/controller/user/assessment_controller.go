package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/service"
	"github.com/rs/zerolog/log"
)

type AssessmentController struct {
	assessmentService service.AssessmentService
}

func NewAssessmentController(assessmentService service.AssessmentService) *AssessmentController {
	return &AssessmentController{assessmentService: assessmentService}
}

// Create godoc
// @Summary Start a new assessment
// @Description The caller becomes partner 1. Requires a completed purchase.
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.AssessmentResponseDTO
// @Failure 402 {object} dto.ErrorResponse "Payment required"
// @Router /assessments [post]
func (c *AssessmentController) Create(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	resp, err := c.assessmentService.Create(id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to start assessment")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List the caller's assessments
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AssessmentResponseDTO
// @Router /assessments [get]
func (c *AssessmentController) List(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	resp, err := c.assessmentService.ListMine(id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve assessments")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get one assessment
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.AssessmentResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Not a partner on this assessment"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Router /assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.assessmentService.Get(assessmentID, id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve assessment")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Progress godoc
// @Summary Answer counts for both partners
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.AssessmentProgressDTO
// @Router /assessments/{id}/progress [get]
func (c *AssessmentController) Progress(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.assessmentService.Progress(assessmentID, id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve progress")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswers godoc
// @Summary Submit answers
// @Description Answers are final once stored. Resubmitting an answered question rejects the whole batch.
// @Tags Assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Param body body dto.SubmitAnswersRequest true "Answers"
// @Success 200 {object} dto.AssessmentProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown question or malformed batch"
// @Failure 409 {object} dto.ErrorResponse "Question already answered or assessment completed"
// @Router /assessments/{id}/answers [post]
func (c *AssessmentController) SubmitAnswers(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswers: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.assessmentService.SubmitAnswers(assessmentID, id.ProfileID, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to submit answers")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
