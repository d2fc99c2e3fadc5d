package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/ctxutil"
)

// ErrFeedUnavailable wraps every collaborator failure while building a feed
// page. Callers see a generic message; the cause is only logged.
var ErrFeedUnavailable = errors.New("feed unavailable")

var ErrUnauthenticated = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("authentication required"))

func requireUser(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}
