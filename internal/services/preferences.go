package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// PreferencesInput is used for both full replacement and partial updates.
// For a patch, nil fields are left untouched.
type PreferencesInput struct {
	PreferredDifficulties *[]string `json:"preferredDifficulties"`
	PreferredTopics       *[]string `json:"preferredTopics"`
	InterestedTopics      *[]string `json:"interestedTopics"`
	PreferredLanguages    *[]string `json:"preferredLanguages"`
	FeedSize              *int      `json:"feedSize"`
}

type PreferencesService interface {
	Get(ctx context.Context) (*types.UserPreferences, error)
	Replace(ctx context.Context, in PreferencesInput) (*types.UserPreferences, error)
	Patch(ctx context.Context, in PreferencesInput) (*types.UserPreferences, error)
}

type preferencesService struct {
	db        *gorm.DB
	log       *logger.Logger
	prefsRepo repos.UserPreferencesRepo
	maxFeed   int
}

func NewPreferencesService(db *gorm.DB, log *logger.Logger, prefsRepo repos.UserPreferencesRepo, maxFeedSize int) PreferencesService {
	return &preferencesService{
		db:        db,
		log:       log.With("service", "PreferencesService"),
		prefsRepo: prefsRepo,
		maxFeed:   maxFeedSize,
	}
}

func (s *preferencesService) Get(ctx context.Context) (*types.UserPreferences, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.prefsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return types.DefaultPreferences(userID), nil
	}
	return p, nil
}

func (s *preferencesService) Replace(ctx context.Context, in PreferencesInput) (*types.UserPreferences, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	next := types.DefaultPreferences(userID)
	if err := s.apply(next, in); err != nil {
		return nil, err
	}
	return s.save(ctx, next)
}

func (s *preferencesService) Patch(ctx context.Context, in PreferencesInput) (*types.UserPreferences, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.apply(current, in); err != nil {
		return nil, err
	}
	return s.save(ctx, current)
}

func (s *preferencesService) save(ctx context.Context, p *types.UserPreferences) (*types.UserPreferences, error) {
	// the upsert conflicts on user_id; a fresh row id keeps the primary key out of it
	row := *p
	row.ID = uuid.Nil
	row.CreatedAt = time.Time{}
	out, err := s.prefsRepo.Upsert(ctx, nil, &row)
	if err != nil {
		s.log.Error("Save preferences failed", "user_id", p.UserID, "error", err)
		return nil, err
	}
	return out, nil
}

func (s *preferencesService) apply(p *types.UserPreferences, in PreferencesInput) error {
	if in.PreferredDifficulties != nil {
		diffs, err := normalizeDifficulties(*in.PreferredDifficulties)
		if err != nil {
			return apierr.BadRequest("invalid_request", err)
		}
		p.PreferredDifficulties = diffs
	}
	if in.PreferredTopics != nil {
		p.PreferredTopics = normalizeTopics(*in.PreferredTopics)
	}
	if in.InterestedTopics != nil {
		p.InterestedTopics = normalizeTopics(*in.InterestedTopics)
	}
	if in.PreferredLanguages != nil {
		p.PreferredLanguages = normalizeTopics(*in.PreferredLanguages)
	}
	if in.FeedSize != nil {
		n := *in.FeedSize
		if n < 0 || (s.maxFeed > 0 && n > s.maxFeed) {
			return apierr.BadRequest("invalid_request", fmt.Errorf("feedSize must be between 0 and %d", s.maxFeed))
		}
		p.FeedSize = n
	}
	return nil
}

func normalizeDifficulties(raw []string) (datatypes.JSONSlice[types.Difficulty], error) {
	out := datatypes.JSONSlice[types.Difficulty]{}
	seen := map[types.Difficulty]struct{}{}
	for _, r := range raw {
		d, err := types.ParseDifficulty(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// normalizeTopics trims and dedupes, keeping first occurrences. Case is
// preserved because tag matching is exact.
func normalizeTopics(raw []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	seen := map[string]struct{}{}
	for _, r := range raw {
		t := strings.TrimSpace(r)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
