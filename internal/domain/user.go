package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"gorm.io/gorm"
)

const maxInterests = 50

type UserDomain interface {
	UpdateInterests(context.Context, *model.UpdateInterestsRequest) (*model.UpdateInterestsResponse, error)
}

type userDomain struct {
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

func NewUserDomain(userRepo repository.UserRepository, redisClient xredis.Client) UserDomain {
	return &userDomain{
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

// UpdateInterests replaces the interests of the requester. They are stored
// normalized, the same way the feed matches them.
func (d *userDomain) UpdateInterests(
	ctx context.Context, req *model.UpdateInterestsRequest,
) (*model.UpdateInterestsResponse, error) {
	interests := normalizeInterests(req.Interests)
	if len(interests) > maxInterests {
		return nil, errorx.New(errorx.BadRequest, "Too many interests (at most %d)", maxInterests)
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.userRepo.UpdateInterests(ctx, userID, interests); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot update interests: %v", err)
		return nil, errorx.Unknown
	}

	invalidateFeeds(ctx, d.redisClient, userID)

	return &model.UpdateInterestsResponse{Interests: interests}, nil
}
