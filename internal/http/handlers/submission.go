package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type SubmissionHandler struct {
	submissions services.SubmissionService
}

func NewSubmissionHandler(submissions services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// POST /api/submissions
// body: { "questionId": "...", "selectedOption": 0 }
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req struct {
		QuestionID     string `json:"questionId"`
		SelectedOption *int   `json:"selectedOption"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondFromError(c, invalidBody(err))
		return
	}
	if req.QuestionID == "" || req.SelectedOption == nil {
		response.RespondFromError(c, invalidBody(errors.New("questionId and selectedOption are required")))
		return
	}
	res, err := h.submissions.Submit(c.Request.Context(), req.QuestionID, *req.SelectedOption)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/submissions?page=&limit=
func (h *SubmissionHandler) History(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	hist, err := h.submissions.History(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newSubmissionHistoryView(hist))
}
