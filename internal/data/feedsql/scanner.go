package feedsql

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// FEED_SCAN_SQL_PATH replaces the embedded template, for tuning without a rebuild.
const templatePathEnv = "FEED_SCAN_SQL_PATH"

//go:embed queries/feed_page.sql
var queriesFS embed.FS

var (
	templateOnce sync.Once
	templateSQL  string
	templateErr  error
)

func pageTemplate() (string, error) {
	templateOnce.Do(func() {
		templateSQL, templateErr = loadTemplate()
	})
	return templateSQL, templateErr
}

func loadTemplate() (string, error) {
	var (
		raw []byte
		err error
	)
	if path := strings.TrimSpace(os.Getenv(templatePathEnv)); path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = queriesFS.ReadFile("queries/feed_page.sql")
	}
	if err != nil {
		return "", fmt.Errorf("load feed scan template: %w", err)
	}
	sql := strings.TrimSpace(string(raw))
	if sql == "" {
		return "", fmt.Errorf("feed scan template is empty")
	}
	return sql, nil
}

// Connect opens the pool used by Scanner.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Scanner pushes scoring, cursor filtering and ordering down to Postgres.
type Scanner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewScanner(pool *pgxpool.Pool, baseLog *logger.Logger) *Scanner {
	return &Scanner{pool: pool, log: baseLog.With("repo", "FeedSQLScanner")}
}

func (s *Scanner) FetchScoredPage(ctx context.Context, req feed.ScanRequest) ([]feed.Row, error) {
	ctx, span := otel.Tracer("practicefeed/feedsql").Start(ctx, "feedsql.FetchScoredPage")
	defer span.End()
	span.SetAttributes(attribute.Int("feed.limit", req.Limit))

	if req.Limit <= 0 {
		return []feed.Row{}, nil
	}
	query, err := pageTemplate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	args := queryArgs(req)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("feedsql: query: %w", err)
	}
	out, err := scanRows(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("feedsql: scan: %w", err)
	}
	span.SetAttributes(attribute.Int("feed.rows", len(out)))
	return out, nil
}

func queryArgs(req feed.ScanRequest) []any {
	var (
		cursorScore any
		cursorID    any
	)
	if req.Cursor != nil && req.Cursor.QuestionID != "" {
		cursorScore = req.Cursor.Score
		cursorID = req.Cursor.QuestionID
	}
	preferred, interested, difficulties := []string{}, []string{}, []string{}
	if p := req.Preferences; p != nil {
		preferred = append(preferred, p.PreferredTopics...)
		interested = append(interested, p.InterestedTopics...)
		for _, d := range p.PreferredDifficulties {
			difficulties = append(difficulties, string(d))
		}
	}
	return []any{
		req.UserID,
		req.DueThreshold,
		cursorScore,
		cursorID,
		req.Limit,
		preferred,
		interested,
		difficulties,
		feed.PreferredTopicWeight,
		feed.InterestedTopicWeight,
		feed.DifficultyWeight,
		feed.PriorityWeight,
	}
}

func scanRows(rows pgx.Rows) ([]feed.Row, error) {
	defer rows.Close()
	out := []feed.Row{}
	for rows.Next() {
		var (
			q             types.Question
			difficulty    string
			options, tags []byte
			hasSub        bool
			attempts      *int
			correct       *int
			isCorrect     *bool
			lastShownAt   *time.Time
			b             feed.Breakdown
			priority      int
		)
		if err := rows.Scan(
			&q.ID, &q.Title, &q.Description, &options, &difficulty, &q.Category, &tags, &q.CodeSnippet,
			&hasSub, &attempts, &correct, &isCorrect, &lastShownAt,
			&b.MatchingTags, &b.InterestedTags, &b.DifficultyMatch, &priority, &b.Score,
		); err != nil {
			return nil, err
		}
		q.Difficulty = types.Difficulty(difficulty)
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("question %s options: %w", q.ID, err)
			}
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &q.Tags); err != nil {
				return nil, fmt.Errorf("question %s tags: %w", q.ID, err)
			}
		}
		b.Priority = feed.Priority(priority)

		row := feed.Row{Question: &q, Ranking: b}
		if hasSub {
			row.Progress = &feed.Progress{
				Attempts:        deref(attempts),
				CorrectAttempts: deref(correct),
				IsCorrect:       isCorrect,
				LastShownAt:     lastShownAt,
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
