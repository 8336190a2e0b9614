package api

import (
	"net/http"
	"strconv"

	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/handler/middleware"
	"conftix/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccessHandler struct {
	entitlementQueries queries.EntitlementQueries
}

func NewAccessHandler(entitlementQueries queries.EntitlementQueries) *AccessHandler {
	return &AccessHandler{
		entitlementQueries: entitlementQueries,
	}
}

// @Summary Check replay access
// @Description Check whether the caller may watch a replay; anonymous callers get false
// @Tags access
// @Produce json
// @Param replay_id query string true "Replay ID"
// @Param event_year query int true "Event year"
// @Success 200 {object} resdto.AccessResponse
// @Failure 400 {object} map[string]string
// @Router /access [get]
func (h *AccessHandler) CheckAccess(c *gin.Context) {
	replayID, err := uuid.Parse(c.Query("replay_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid replay ID format",
		})
		return
	}

	eventYear, err := strconv.Atoi(c.Query("event_year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event year",
		})
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}
	role, _ := middleware.GetUserRole(c)

	hasAccess, err := h.entitlementQueries.HasAccess(c.Request.Context(), userID, role, queries.AccessCheck{
		ReplayID:  replayID,
		EventYear: eventYear,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.AccessResponse{HasAccess: hasAccess})
}
