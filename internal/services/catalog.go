package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type QuestionListQuery struct {
	Category   string
	Difficulty string
	Page       int
	Limit      int
}

type QuestionList struct {
	Questions  []*types.Question
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type TagQuery struct {
	Search string
	Page   int
	Limit  int
}

// CatalogService browses the question bank outside the ranked feed.
type CatalogService interface {
	ListQuestions(ctx context.Context, q QuestionListQuery) (*QuestionList, error)
	// Tags lists distinct tags in order, leaving out the caller's preferred
	// topics so the result only offers topics they have not picked yet.
	Tags(ctx context.Context, q TagQuery) ([]string, error)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	prefsRepo    repos.UserPreferencesRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, prefsRepo repos.UserPreferencesRepo) CatalogService {
	return &catalogService{
		db:           db,
		log:          log.With("service", "CatalogService"),
		questionRepo: questionRepo,
		prefsRepo:    prefsRepo,
	}
}

func (s *catalogService) ListQuestions(ctx context.Context, q QuestionListQuery) (*QuestionList, error) {
	filter := repos.QuestionFilter{Category: strings.TrimSpace(q.Category)}
	if raw := strings.TrimSpace(q.Difficulty); raw != "" {
		d, err := types.ParseDifficulty(raw)
		if err != nil {
			return nil, apierr.BadRequest("invalid_request", err)
		}
		filter.Difficulty = d
	}
	page, limit := normalizePaging(q.Page, q.Limit, 10, 50)
	rows, total, err := s.questionRepo.List(ctx, nil, filter, (page-1)*limit, limit)
	if err != nil {
		s.log.Error("List questions failed", "error", err)
		return nil, err
	}
	return &QuestionList{
		Questions:  rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *catalogService) Tags(ctx context.Context, q TagQuery) ([]string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	page, limit := normalizePaging(q.Page, q.Limit, 15, 100)

	excluded := map[string]bool{}
	prefs, err := s.prefsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		for _, t := range prefs.PreferredTopics {
			excluded[strings.ToLower(t)] = true
		}
	}

	sets, err := s.questionRepo.ListTagSets(ctx, nil)
	if err != nil {
		s.log.Error("List tags failed", "user_id", userID, "error", err)
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	seen := map[string]bool{}
	tags := []string{}
	for _, set := range sets {
		for _, tag := range set {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			lower := strings.ToLower(tag)
			if excluded[lower] {
				continue
			}
			if search != "" && !strings.Contains(lower, search) {
				continue
			}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	start := (page - 1) * limit
	if start >= len(tags) {
		return []string{}, nil
	}
	end := start + limit
	if end > len(tags) {
		end = len(tags)
	}
	return tags[start:end], nil
}
