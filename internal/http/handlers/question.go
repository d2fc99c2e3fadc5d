package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type QuestionHandler struct {
	questions  services.QuestionService
	engagement services.EngagementService
	users      services.UserService
}

func NewQuestionHandler(questions services.QuestionService, engagement services.EngagementService, users services.UserService) *QuestionHandler {
	return &QuestionHandler{questions: questions, engagement: engagement, users: users}
}

// GET /api/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	q, err := h.questions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newQuestionView(q))
}

// GET /api/questions/:id/meta
func (h *QuestionHandler) Meta(c *gin.Context) {
	meta, err := h.questions.Meta(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, meta)
}

// POST /api/questions/:id/like
func (h *QuestionHandler) ToggleLike(c *gin.Context) {
	liked, err := h.engagement.ToggleLike(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"liked": liked})
}

// GET /api/questions/:id/like
func (h *QuestionHandler) LikeStatus(c *gin.Context) {
	likes, liked, err := h.engagement.LikeStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"likes": likes, "isLiked": liked})
}

// GET /api/questions/:id/comments?page=&limit=
func (h *QuestionHandler) ListComments(c *gin.Context) {
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
	ctx := c.Request.Context()
	rows, err := h.engagement.ListComments(ctx, c.Param("id"), page, limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	names := map[uuid.UUID]string{}
	if h.users != nil {
		if names, err = h.users.DisplayNames(ctx, ids); err != nil {
			response.RespondFromError(c, err)
			return
		}
	}
	out := make([]commentView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newCommentView(r, names))
	}
	response.RespondOK(c, gin.H{"items": out})
}

// POST /api/questions/:id/comments
// body: { "body": "..." }
func (h *QuestionHandler) AddComment(c *gin.Context) {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondFromError(c, invalidBody(err))
		return
	}
	row, err := h.engagement.AddComment(c.Request.Context(), c.Param("id"), req.Body)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, newCommentView(row, nil))
}
