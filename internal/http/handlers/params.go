package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
)

// queryInt returns 0 when the parameter is absent.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.BadRequest("invalid_request", fmt.Errorf("%s must be an integer", name))
	}
	return n, nil
}

func invalidBody(err error) error {
	return apierr.BadRequest("invalid_request", fmt.Errorf("invalid request body: %w", err))
}
