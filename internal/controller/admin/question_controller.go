package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// List godoc
// @Summary (Admin) All questions, drafts included
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuestionResponseDTO
// @Router /admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	resp, err := c.questionService.ListAll()
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve questions")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary (Admin) One question
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Router /admin/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.questionService.GetQuestion(id)
	if err != nil {
		controller.RespondError(ctx, err, "Question not found")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary (Admin) Create a draft question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.QuestionCreateDTO true "Question"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Router /admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.questionService.CreateQuestion(req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create question")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary (Admin) Edit a draft question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param body body dto.QuestionCreateDTO true "Question"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Question is published"
// @Router /admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.questionService.UpdateQuestion(id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update question")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Publish godoc
// @Summary (Admin) Publish a question
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Router /admin/questions/{id}/publish [post]
func (c *QuestionController) Publish(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.questionService.Publish(id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to publish question")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Unpublish godoc
// @Summary (Admin) Withdraw an unanswered question
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Question already answered"
// @Router /admin/questions/{id}/unpublish [post]
func (c *QuestionController) Unpublish(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.questionService.Unpublish(id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to unpublish question")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary (Admin) Delete an unanswered question
// @Tags Admin - Questions
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Question already answered"
// @Router /admin/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionService.DeleteQuestion(id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete question")
		return
	}
	ctx.Status(http.StatusNoContent)
}
