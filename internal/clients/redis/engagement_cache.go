package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

const defaultKeyPrefix = "practicefeed:engagement:"

type EngagementCache interface {
	// GetMany returns cached counts and the ids that missed.
	GetMany(ctx context.Context, questionIDs []string) (map[string]types.EngagementCounts, []string, error)
	SetMany(ctx context.Context, counts map[string]types.EngagementCounts) error
	Invalidate(ctx context.Context, questionIDs ...string) error
	Close() error
}

type Options struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

type engagementCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

func NewEngagementCache(log *logger.Logger, opts Options) (EngagementCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = defaultKeyPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &engagementCache{
		log:    log.With("service", "RedisEngagementCache"),
		rdb:    rdb,
		ttl:    opts.TTL,
		prefix: opts.KeyPrefix,
	}, nil
}

func (c *engagementCache) key(id string) string { return c.prefix + id }

func (c *engagementCache) GetMany(ctx context.Context, questionIDs []string) (map[string]types.EngagementCounts, []string, error) {
	hits := make(map[string]types.EngagementCounts, len(questionIDs))
	if len(questionIDs) == 0 {
		return hits, nil, nil
	}
	keys := make([]string, len(questionIDs))
	for i, id := range questionIDs {
		keys[i] = c.key(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, questionIDs, fmt.Errorf("redis mget: %w", err)
	}
	var misses []string
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			misses = append(misses, questionIDs[i])
			continue
		}
		var counts types.EngagementCounts
		if err := json.Unmarshal([]byte(raw), &counts); err != nil {
			c.log.Warn("Dropping undecodable engagement entry", "question_id", questionIDs[i], "error", err)
			misses = append(misses, questionIDs[i])
			continue
		}
		hits[questionIDs[i]] = counts
	}
	return hits, misses, nil
}

func (c *engagementCache) SetMany(ctx context.Context, counts map[string]types.EngagementCounts) error {
	if len(counts) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for id, v := range counts {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		pipe.Set(ctx, c.key(id), raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set engagement: %w", err)
	}
	return nil
}

func (c *engagementCache) Invalidate(ctx context.Context, questionIDs ...string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	keys := make([]string, len(questionIDs))
	for i, id := range questionIDs {
		keys[i] = c.key(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *engagementCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
