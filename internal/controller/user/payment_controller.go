package user

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/service"
)

// maxWebhookBody matches the provider's documented payload ceiling.
const maxWebhookBody = 65536

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Checkout godoc
// @Summary Start a checkout session
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CheckoutResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Already paid"
// @Failure 503 {object} dto.ErrorResponse "Payments not configured"
// @Router /payments/checkout [post]
func (c *PaymentController) Checkout(ctx *gin.Context) {
	id, ok := controller.Caller(ctx)
	if !ok {
		return
	}
	resp, err := c.paymentService.CreateCheckout(ctx.Request.Context(), id.ProfileID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to start checkout")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Webhook godoc
// @Summary Payment provider webhook
// @Description Verifies the Stripe-Signature header. Replayed events are acknowledged without effect.
// @Tags Payments
// @Accept json
// @Success 200
// @Failure 400 {object} dto.ErrorResponse "Bad signature or payload"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read body"})
		return
	}
	if err := c.paymentService.HandleWebhook(payload, ctx.GetHeader("Stripe-Signature")); err != nil {
		controller.RespondError(ctx, err, "Webhook rejected")
		return
	}
	ctx.Status(http.StatusOK)
}
