package api

import (
	"errors"
	"net/http"

	reqdto "conftix/internal/handler/dto/request"
	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/handler/middleware"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
	}
}

// @Summary Create checkout session
// @Description Re-price selected products and open a hosted payment session
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSessionRequest true "Checkout request"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout/session [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req reqdto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	result, err := h.checkoutCommands.CreateSession(c.Request.Context(), commands.CreateSessionParams{
		ProductIDs: req.ProductIDs,
		UserID:     userID,
		GuestEmail: req.Email,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSessionResult(result))
}

// @Summary Confirm payment
// @Description Verify payment state with the processor and record purchases
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.ConfirmRequest true "Confirmation request"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout/confirm [post]
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	var req reqdto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkoutCommands.Confirm(c.Request.Context(), commands.ConfirmParams{
		PaymentReference: req.Reference,
		CreateAccount:    req.CreateAccount,
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromConfirmResult(result))
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrEmptyCheckout):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Checkout requires at least one product",
		})
	case errors.Is(err, errs.ErrInvalidPayerEmail):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A valid payer email is required",
		})
	case errors.Is(err, errs.ErrProductNotFound), errors.Is(err, errs.ErrProductUnavailable):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not available",
		})
	case errors.Is(err, errs.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, errs.ErrCouponExpired),
		errors.Is(err, errs.ErrCouponNotYetValid),
		errors.Is(err, errs.ErrCouponRedemptionExhausted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Coupon cannot be applied",
		})
	case errors.Is(err, errs.ErrPaymentNotCompleted):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error": "Payment has not completed",
		})
	case errors.Is(err, errs.ErrProcessorUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment processor unavailable",
		})
	case errors.Is(err, errs.ErrPersistenceFailure):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Payment received but order recording failed; contact support with your reference",
		})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
