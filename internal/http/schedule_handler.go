package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/repository"
)

// ScheduleHandler sirve el horario sincronizado del caller (el dashboard).
type ScheduleHandler struct {
	logger *zap.Logger
	events repository.ScheduleEventRepository
}

func NewScheduleHandler(logger *zap.Logger, events repository.ScheduleEventRepository) *ScheduleHandler {
	return &ScheduleHandler{logger: logger, events: events}
}

// ListSchedule maneja GET /schedule.
func (h *ScheduleHandler) ListSchedule(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	events, err := h.events.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list schedule failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
