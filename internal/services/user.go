package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

const maxDisplayNameLength = 64

type UserService interface {
	GetMe(ctx context.Context) (*types.AppUser, error)
	UpdateDisplayName(ctx context.Context, name string) (*types.AppUser, error)
	// DisplayNames resolves comment authors; unknown ids are omitted.
	DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
	// Leaderboard is public; limit defaults to 50.
	Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.AppUser, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := us.userRepo.Ensure(ctx, nil, userID); err != nil {
		return nil, err
	}
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) UpdateDisplayName(ctx context.Context, name string) (*types.AppUser, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxDisplayNameLength {
		return nil, apierr.BadRequest("invalid_request", errors.New("displayName must be 1-64 characters"))
	}
	var out *types.AppUser
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userRepo.Ensure(ctx, tx, userID); err != nil {
			return err
		}
		if err := us.userRepo.UpdateDisplayName(ctx, tx, userID, name); err != nil {
			return err
		}
		u, err := us.userRepo.GetByID(ctx, tx, userID)
		out = u
		return err
	})
	if err != nil {
		us.log.Error("Update display name failed", "user_id", userID, "error", err)
		return nil, err
	}
	return out, nil
}

func (us *userService) DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(userIDs) == 0 {
		return out, nil
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.DisplayName != "" {
			out[u.ID] = u.DisplayName
		}
	}
	return out, nil
}

func (us *userService) Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error) {
	_, limit = normalizePaging(1, limit, 50, 100)
	rows, err := us.userRepo.Leaderboard(ctx, nil, limit)
	if err != nil {
		us.log.Error("Load leaderboard failed", "error", err)
		return nil, err
	}
	return rows, nil
}
