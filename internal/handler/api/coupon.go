package api

import (
	"errors"
	"net/http"

	reqdto "conftix/internal/handler/dto/request"
	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponQueries queries.CouponQueries
}

func NewCouponHandler(couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponQueries: couponQueries,
	}
}

// @Summary Evaluate coupon
// @Description Preview a coupon's discount against a subtotal without redeeming it
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.EvaluateCouponRequest true "Evaluation request"
// @Success 200 {object} resdto.CouponEvaluationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /coupons/evaluate [post]
func (h *CouponHandler) Evaluate(c *gin.Context) {
	var req reqdto.EvaluateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	eval, err := h.couponQueries.Evaluate(c.Request.Context(), req.Code, req.SubtotalCents)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
		case errors.Is(err, errs.ErrCouponExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Coupon has expired",
			})
		case errors.Is(err, errs.ErrCouponNotYetValid):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Coupon is not valid yet",
			})
		case errors.Is(err, errs.ErrCouponRedemptionExhausted):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Coupon redemption limit reached",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponEvaluation(eval))
}
