package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/questions?category=&difficulty=&page=&limit=
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
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
	out, err := h.catalog.ListQuestions(c.Request.Context(), services.QuestionListQuery{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newQuestionListView(out))
}

// GET /api/tags?search=&page=&limit=
func (h *CatalogHandler) Tags(c *gin.Context) {
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
	tags, err := h.catalog.Tags(c.Request.Context(), services.TagQuery{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, tags)
}
