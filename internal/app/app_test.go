package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/practicefeed-backend/internal/data/db"
)

func newSQLiteApp(t *testing.T) *App {
	t.Helper()
	cfg := defaultConfig()
	cfg.LogMode = "test"
	cfg.DB.Driver = db.DriverSQLite
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "app.db")
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestAppWiresMemoryBackend(t *testing.T) {
	a := newSQLiteApp(t)
	assert.NotNil(t, a.Repos.FeedScan)
	assert.Nil(t, a.Clients.EngagementCache)
	assert.Nil(t, a.Clients.FeedPool)
	require.NoError(t, a.Migrate())

	_, err := wireMiddleware(a.Log, a.Cfg)
	assert.ErrorContains(t, err, "JWT_SECRET")

	a.Cfg.JWTSecretKey = "s3cret"
	mw, err := wireMiddleware(a.Log, a.Cfg)
	require.NoError(t, err)
	srv := wireServer(a.Log, a.Cfg, wireHandlers(a.Log, a.Services, a.Metrics), mw, a.Metrics)
	assert.NotNil(t, srv.Engine)

	sched, err := wireJobs(a.Log, a.Cfg, a.Repos, a.Services)
	require.NoError(t, err)
	require.NotNil(t, sched)

	a.Cfg.EngagementWarmInterval = 0
	sched, err = wireJobs(a.Log, a.Cfg, a.Repos, a.Services)
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func TestAppImportCSV(t *testing.T) {
	a := newSQLiteApp(t)
	ctx := context.Background()
	data := "id,title,description,options,correct_option,difficulty,tags\n" +
		"imp-1,One,first,a|b,0,easy,array\n" +
		"imp-2,Two,second,a|b,5,hard,\n"

	res, n, err := a.importFrom(ctx, "bank.csv", "", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, res.Errors, 1)

	q, err := a.Services.Question.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, "One", q.Title)
}
