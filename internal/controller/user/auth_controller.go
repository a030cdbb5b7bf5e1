package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// SignUp godoc
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.SignUpRequest true "Email, password and display name"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req dto.SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.authService.SignUp(req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create account")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.authService.Login(req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to sign in")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Sign out and revoke the current token
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	if err := c.authService.SignOut(id.TokenID, id.ExpiresAt); err != nil {
		controller.RespondError(ctx, err, "Failed to sign out")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Current profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponseDTO
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	resp, err := c.authService.CurrentProfile(id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to load profile")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
