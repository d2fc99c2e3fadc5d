package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yungbote/practicefeed-backend/internal/clients/redis"
	"github.com/yungbote/practicefeed-backend/internal/data/feedsql"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type Clients struct {
	// EngagementCache is nil when REDIS_ADDR is unset.
	EngagementCache redis.EngagementCache
	// FeedPool is only opened for FEED_SCAN_MODE=sql.
	FeedPool *pgxpool.Pool
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients
	if cfg.RedisAddr != "" {
		cache, err := redis.NewEngagementCache(log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.EngagementCacheTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis engagement cache: %w", err)
		}
		out.EngagementCache = cache
	} else {
		log.Info("REDIS_ADDR unset; engagement counts read from the database")
	}

	if cfg.FeedScanMode == FeedScanSQL {
		pool, err := feedsql.Connect(ctx, cfg.DB.PostgresDSN())
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init feed scan pool: %w", err)
		}
		out.FeedPool = pool
	}
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.EngagementCache != nil {
		_ = c.EngagementCache.Close()
	}
	if c.FeedPool != nil {
		c.FeedPool.Close()
	}
}
