package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type ActivityHandler struct {
	activity services.ActivityService
}

func NewActivityHandler(activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GET /api/streak
func (h *ActivityHandler) Streak(c *gin.Context) {
	out, err := h.activity.Streak(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newStreakView(out))
}
