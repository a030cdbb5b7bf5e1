package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/service"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Stats godoc
// @Summary (Admin) Headline counts
// @Tags Admin - Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStatsDTO
// @Router /admin/dashboard [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	resp, err := c.dashboardService.Stats()
	if err != nil {
		controller.RespondError(ctx, err, "Failed to load dashboard")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
