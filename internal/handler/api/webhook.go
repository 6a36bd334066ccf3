package api

import (
	"errors"
	"io"
	"net/http"

	"courtside/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewWebhookHandler(paymentCommands commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{paymentCommands: paymentCommands}
}

// @Summary Payment gateway webhook
// @Description Receives signed settlement notifications from the payment gateway
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /webhooks/payment-gateway [post]
func (h *WebhookHandler) HandlePaymentGateway(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	err = h.paymentCommands.HandleGatewayWebhook(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidWebhookSignature):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid webhook signature",
			})
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrReservationExpired):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation hold has expired",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
