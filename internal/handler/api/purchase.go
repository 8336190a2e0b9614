package api

import (
	"net/http"

	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/handler/middleware"
	"conftix/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseQueries queries.PurchaseQueries
}

func NewPurchaseHandler(purchaseQueries queries.PurchaseQueries) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseQueries: purchaseQueries,
	}
}

// @Summary Get user purchases
// @Description List all purchases and grants for the current user
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.PurchaseResponse
// @Failure 401 {object} map[string]string
// @Router /purchases [get]
func (h *PurchaseHandler) GetUserPurchases(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.purchaseQueries.GetUserPurchases(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.PurchaseResponse, len(views))
	for i := range views {
		response[i] = resdto.FromPurchaseView(&views[i])
	}

	c.JSON(http.StatusOK, response)
}
