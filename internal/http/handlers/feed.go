package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/http/response"
	"github.com/yungbote/practicefeed-backend/internal/platform/ctxutil"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type FeedHandler struct {
	feed services.FeedService
}

func NewFeedHandler(feed services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// GET /api/feed?cursor=&limit=
func (h *FeedHandler) GetFeed(c *gin.Context) {
	n, err := queryInt(c, "limit")
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	var limit *int
	if n > 0 {
		limit = &n
	}

	ctx := c.Request.Context()
	page, err := h.feed.GetFeedPage(ctx, services.FeedRequest{
		UserID: ctxutil.UserID(ctx),
		Cursor: c.Query("cursor"),
		Limit:  limit,
	})
	if errors.Is(err, services.ErrFeedUnavailable) {
		_ = c.Error(err)
		response.RespondError(c, http.StatusServiceUnavailable, "feed_unavailable", services.ErrFeedUnavailable)
		return
	}
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, newFeedPageView(page))
}
