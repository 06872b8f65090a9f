package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"gorm.io/gorm"
)

type FollowDomain interface {
	FollowTopic(context.Context, *model.FollowTopicRequest) (*model.FollowTopicResponse, error)
	UnfollowTopic(context.Context, *model.UnfollowTopicRequest) (*model.UnfollowTopicResponse, error)
	GetFollowedTopics(context.Context, *model.GetFollowedTopicsRequest) (*model.GetFollowedTopicsResponse, error)
	FollowUser(context.Context, *model.FollowUserRequest) (*model.FollowUserResponse, error)
	UnfollowUser(context.Context, *model.UnfollowUserRequest) (*model.UnfollowUserResponse, error)
	GetFollowedUsers(context.Context, *model.GetFollowedUsersRequest) (*model.GetFollowedUsersResponse, error)
}

type followDomain struct {
	followRepo  repository.FollowRepository
	topicRepo   repository.TopicRepository
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

func NewFollowDomain(
	followRepo repository.FollowRepository,
	topicRepo repository.TopicRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) FollowDomain {
	return &followDomain{
		followRepo:  followRepo,
		topicRepo:   topicRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (d *followDomain) FollowTopic(
	ctx context.Context, req *model.FollowTopicRequest,
) (*model.FollowTopicResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.TopicID == "" {
		return nil, errorx.New(errorx.BadRequest, "Topic id is required")
	}

	if _, err := d.topicRepo.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found topic")
		}

		xcontext.Logger(ctx).Errorf("Cannot get topic: %v", err)
		return nil, errorx.Unknown
	}

	_, err := d.followRepo.GetTopicFollow(ctx, userID, req.TopicID)
	if err == nil {
		return &model.FollowTopicResponse{}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get topic follow: %v", err)
		return nil, errorx.Unknown
	}

	err = d.followRepo.CreateIfNotExists(ctx, &entity.Follow{
		Base:       entity.Base{ID: uuid.NewString()},
		FollowerID: userID,
		TopicID:    sql.NullString{String: req.TopicID, Valid: true},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot follow topic: %v", err)
		return nil, errorx.Unknown
	}

	invalidateFeeds(ctx, d.redisClient, userID)

	return &model.FollowTopicResponse{}, nil
}

func (d *followDomain) UnfollowTopic(
	ctx context.Context, req *model.UnfollowTopicRequest,
) (*model.UnfollowTopicResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.followRepo.DeleteTopicFollow(ctx, userID, req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not following this topic")
		}

		xcontext.Logger(ctx).Errorf("Cannot unfollow topic: %v", err)
		return nil, errorx.Unknown
	}

	invalidateFeeds(ctx, d.redisClient, userID)

	return &model.UnfollowTopicResponse{}, nil
}

func (d *followDomain) GetFollowedTopics(
	ctx context.Context, req *model.GetFollowedTopicsRequest,
) (*model.GetFollowedTopicsResponse, error) {
	topics, err := d.topicRepo.GetFollowedByActivity(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followed topics: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Topic{}
	for i := range topics {
		result = append(result, convertTopic(&topics[i]))
	}

	return &model.GetFollowedTopicsResponse{Topics: result}, nil
}

func (d *followDomain) FollowUser(
	ctx context.Context, req *model.FollowUserRequest,
) (*model.FollowUserResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "User id is required")
	}

	if req.UserID == followerID {
		return nil, errorx.New(errorx.BadRequest, "Cannot follow yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	_, err := d.followRepo.GetUserFollow(ctx, followerID, req.UserID)
	if err == nil {
		return &model.FollowUserResponse{}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user follow: %v", err)
		return nil, errorx.Unknown
	}

	err = d.followRepo.CreateIfNotExists(ctx, &entity.Follow{
		Base:        entity.Base{ID: uuid.NewString()},
		FollowerID:  followerID,
		FollowingID: sql.NullString{String: req.UserID, Valid: true},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot follow user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FollowUserResponse{}, nil
}

func (d *followDomain) UnfollowUser(
	ctx context.Context, req *model.UnfollowUserRequest,
) (*model.UnfollowUserResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if err := d.followRepo.DeleteUserFollow(ctx, followerID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not following this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot unfollow user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnfollowUserResponse{}, nil
}

func (d *followDomain) GetFollowedUsers(
	ctx context.Context, req *model.GetFollowedUsersRequest,
) (*model.GetFollowedUsersResponse, error) {
	followingIDs, err := d.followRepo.GetFollowingIDs(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following ids: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, followingIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followed users: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.ShortUser{}
	for i := range users {
		result = append(result, convertShortUser(&users[i]))
	}

	return &model.GetFollowedUsersResponse{Users: result}, nil
}
