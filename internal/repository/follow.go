package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	CreateIfNotExists(ctx context.Context, data *entity.Follow) error
	GetTopicFollow(ctx context.Context, followerID, topicID string) (*entity.Follow, error)
	GetUserFollow(ctx context.Context, followerID, followingID string) (*entity.Follow, error)
	DeleteTopicFollow(ctx context.Context, followerID, topicID string) error
	DeleteUserFollow(ctx context.Context, followerID, followingID string) error
	GetFollowedTopicIDs(ctx context.Context, followerID string) ([]string, error)
	GetFollowingIDs(ctx context.Context, followerID string) ([]string, error)
	GetTopicFollowerIDs(ctx context.Context, topicID string) ([]string, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

// CreateIfNotExists inserts the follow edge. If the same edge was inserted
// concurrently, the unique index swallows this one and no error is returned.
func (r *followRepository) CreateIfNotExists(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data).Error
}

func (r *followRepository) GetTopicFollow(
	ctx context.Context, followerID, topicID string,
) (*entity.Follow, error) {
	var result entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=? AND topic_id=?", followerID, topicID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *followRepository) GetUserFollow(
	ctx context.Context, followerID, followingID string,
) (*entity.Follow, error) {
	var result entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=? AND following_id=?", followerID, followingID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *followRepository) DeleteTopicFollow(ctx context.Context, followerID, topicID string) error {
	tx := xcontext.DB(ctx).
		Where("follower_id=? AND topic_id=?", followerID, topicID).
		Delete(&entity.Follow{})
	if tx.Error != nil {
		return tx.Error
	}

	return checkAffectedRows(tx)
}

func (r *followRepository) DeleteUserFollow(ctx context.Context, followerID, followingID string) error {
	tx := xcontext.DB(ctx).
		Where("follower_id=? AND following_id=?", followerID, followingID).
		Delete(&entity.Follow{})
	if tx.Error != nil {
		return tx.Error
	}

	return checkAffectedRows(tx)
}

func (r *followRepository) GetFollowedTopicIDs(ctx context.Context, followerID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("follower_id=? AND topic_id IS NOT NULL", followerID).
		Pluck("topic_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("follower_id=? AND following_id IS NOT NULL", followerID).
		Pluck("following_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetTopicFollowerIDs(ctx context.Context, topicID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("topic_id=?", topicID).
		Pluck("follower_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
