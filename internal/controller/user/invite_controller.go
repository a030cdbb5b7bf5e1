package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/service"
)

type InviteController struct {
	inviteService service.InviteService
}

func NewInviteController(inviteService service.InviteService) *InviteController {
	return &InviteController{inviteService: inviteService}
}

// Create godoc
// @Summary Invite a partner to an assessment
// @Description Emails a single-use link. Asking again for the same email re-sends the live link.
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Param body body dto.CreateInviteRequest true "Partner email"
// @Success 201 {object} dto.InviteResponseDTO
// @Failure 402 {object} dto.ErrorResponse "Inviter has not paid"
// @Failure 409 {object} dto.ErrorResponse "Assessment already has a partner"
// @Router /assessments/{id}/invites [post]
func (c *InviteController) Create(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	assessmentID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.inviteService.CreateInvite(ctx.Request.Context(), assessmentID, id.ProfileID, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create invite")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Look up an invite
// @Tags Invites
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} dto.InviteResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Unknown invite"
// @Failure 410 {object} dto.ErrorResponse "Invite expired or already used"
// @Router /invites/{token} [get]
func (c *InviteController) Get(ctx *gin.Context) {
	resp, err := c.inviteService.GetInvite(ctx.Param("token"))
	if err != nil {
		controller.RespondError(ctx, err, "This invite link is no longer valid")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Accept godoc
// @Summary Accept an invite
// @Description Joins the caller to the inviter's assessment and grants paid access. Safe to retry.
// @Tags Invites
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invite token"
// @Success 200 {object} dto.AcceptInviteResponseDTO
// @Failure 402 {object} dto.ErrorResponse "Inviter has not paid"
// @Failure 410 {object} dto.ErrorResponse "Invite expired or already used"
// @Router /invites/{token}/accept [post]
func (c *InviteController) Accept(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	resp, err := c.inviteService.AcceptInvite(ctx.Param("token"), id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to accept invite")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
