package api

import (
	"errors"
	"net/http"

	reqdto "conftix/internal/handler/dto/request"
	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	grantCommands commands.GrantCommands
}

func NewAdminHandler(grantCommands commands.GrantCommands) *AdminHandler {
	return &AdminHandler{
		grantCommands: grantCommands,
	}
}

// @Summary Create entitlement grant
// @Description Grant a user access to a replay or a whole event year without payment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateGrantRequest true "Grant request"
// @Success 201 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/grants [post]
func (h *AdminHandler) CreateGrant(c *gin.Context) {
	var req reqdto.CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	record, err := h.grantCommands.CreateGrant(c.Request.Context(), commands.CreateGrantParams{
		UserID:    req.UserID,
		EventYear: req.EventYear,
		ReplayID:  req.ReplayID,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPurchaseRecord(record))
}
