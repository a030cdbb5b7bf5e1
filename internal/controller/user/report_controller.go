package user

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/render"
	"github.com/lshigami/Kindred/internal/service"
)

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GetReport godoc
// @Summary Comparison report
// @Description Both partners' answers side by side, grouped by section, with the alignment percentage.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.ReportResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Not a partner on this assessment"
// @Failure 409 {object} dto.ErrorResponse "Assessment not completed yet"
// @Router /assessments/{id}/report [get]
func (c *ReportController) GetReport(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.reportService.GetReport(assessmentID, id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to build report")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// PrintReport godoc
// @Summary Printable report
// @Tags Reports
// @Produce html
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {string} string "HTML document"
// @Router /assessments/{id}/report/print [get]
func (c *ReportController) PrintReport(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.reportService.BuildReport(assessmentID, id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to build report")
		return
	}

	var buf bytes.Buffer
	err = render.Print(&buf, render.Document{
		Partner1Name: view.Partner1Name,
		Partner2Name: view.Partner2Name,
		Report:       view.Report,
		Summary:      view.Summary,
		GeneratedAt:  view.GeneratedAt,
	})
	if err != nil {
		controller.RespondError(ctx, err, "Failed to render report")
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetSummary godoc
// @Summary AI coaching summary of the report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.CoachingSummaryDTO
// @Failure 503 {object} dto.ErrorResponse "Summaries not configured"
// @Router /assessments/{id}/report/summary [get]
func (c *ReportController) GetSummary(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.reportService.GetCoachingSummary(ctx.Request.Context(), assessmentID, id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to generate summary")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
