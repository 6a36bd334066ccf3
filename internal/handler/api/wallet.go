package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "courtside/internal/handler/dto/request"
	resdto "courtside/internal/handler/dto/response"
	"courtside/internal/handler/middleware"
	"courtside/internal/usecase/commands"
	"courtside/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	creditCommands  commands.CreditCommands
	paymentCommands commands.PaymentCommands
	walletQueries   queries.WalletQueries
}

func NewWalletHandler(
	creditCommands commands.CreditCommands,
	paymentCommands commands.PaymentCommands,
	walletQueries queries.WalletQueries,
) *WalletHandler {
	return &WalletHandler{
		creditCommands:  creditCommands,
		paymentCommands: paymentCommands,
		walletQueries:   walletQueries,
	}
}

// @Summary Get wallet
// @Description Get the current user's credit balance
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.WalletResponse
// @Failure 401 {object} map[string]string
// @Router /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.walletQueries.GetWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}

// @Summary List ledger entries
// @Description List the current user's wallet ledger, newest first
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items"
// @Success 200 {array} resdto.LedgerEntryResponse
// @Failure 401 {object} map[string]string
// @Router /wallet/ledger [get]
func (h *WalletHandler) ListEntries(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.walletQueries.ListEntries(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.LedgerEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = resdto.FromLedgerEntryView(e)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Adjust credits
// @Description Credit or debit a member's wallet (admin)
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AdjustCreditsRequest true "Adjustment"
// @Success 201 {object} resdto.LedgerEntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /wallet/adjustments [post]
func (h *WalletHandler) AdjustCredits(c *gin.Context) {
	var req reqdto.AdjustCreditsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	entry, err := h.creditCommands.Adjust(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "Debit would overdraw the wallet",
			})
		case errors.Is(err, commands.ErrInvalidAdjustment):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid adjustment",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromLedgerEntryView(entry))
}

// @Summary Refund payment
// @Description Reverse a settled payment (staff)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RefundRequest true "Refund request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments/refund [post]
func (h *WalletHandler) Refund(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.RefundRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.paymentCommands.Refund(c.Request.Context(), req.ReservationID, actorID, req.Reason); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrNotRefundable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Payment is not refundable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
