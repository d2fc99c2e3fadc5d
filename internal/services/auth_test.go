package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/practicefeed-backend/internal/platform/ctxutil"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	svc, err := NewAuthService(logger.Nop(), "secret", "practicefeed", time.Minute)
	require.NoError(t, err)

	userID := uuid.New()
	tok, err := svc.IssueAccessToken(userID)
	require.NoError(t, err)

	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, userID, ctxutil.UserID(ctx))
}

func TestAuthServiceRejects(t *testing.T) {
	svc, err := NewAuthService(logger.Nop(), "secret", "", time.Minute)
	require.NoError(t, err)
	other, err := NewAuthService(logger.Nop(), "other-secret", "", time.Minute)
	require.NoError(t, err)

	foreign, err := other.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	expired := svc.(*authService)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.IssueAccessToken(uuid.New())
	require.NoError(t, err)
	expired.now = time.Now

	notUUID := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}})
	badSubject, err := notUUID.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":       "",
		"garbage":     "not.a.token",
		"wrong key":   foreign,
		"expired":     old,
		"bad subject": badSubject,
	} {
		_, err := svc.SetContextFromToken(context.Background(), tok)
		assert.Error(t, err, name)
	}

	_, err = NewAuthService(logger.Nop(), " ", "", 0)
	assert.Error(t, err)
}
