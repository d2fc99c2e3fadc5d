package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type PreferencesHandler struct {
	prefs services.PreferencesService
}

func NewPreferencesHandler(prefs services.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// GET /api/preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	p, err := h.prefs.Get(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newPreferencesView(p))
}

// PUT /api/preferences
func (h *PreferencesHandler) Replace(c *gin.Context) {
	var in services.PreferencesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondFromError(c, invalidBody(err))
		return
	}
	p, err := h.prefs.Replace(c.Request.Context(), in)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newPreferencesView(p))
}

// PATCH /api/preferences
func (h *PreferencesHandler) Patch(c *gin.Context) {
	var in services.PreferencesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondFromError(c, invalidBody(err))
		return
	}
	p, err := h.prefs.Patch(c.Request.Context(), in)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newPreferencesView(p))
}
