package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newUserView(me))
}

// PATCH /api/me
// body: { "displayName": "..." }
func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondFromError(c, invalidBody(err))
		return
	}
	me, err := uh.userService.UpdateDisplayName(c.Request.Context(), req.DisplayName)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newUserView(me))
}

// GET /api/leaderboard?limit=
func (uh *UserHandler) Leaderboard(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	rows, err := uh.userService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newLeaderboardView(rows))
}
