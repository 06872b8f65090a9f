package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

type TopicRepository interface {
	Create(ctx context.Context, data *entity.Topic) error
	GetByID(ctx context.Context, id string) (*entity.Topic, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Topic, error)
	GetFollowedByActivity(ctx context.Context, followerID string) ([]entity.Topic, error)
}

type topicRepository struct{}

func NewTopicRepository() *topicRepository {
	return &topicRepository{}
}

func (r *topicRepository) Create(ctx context.Context, data *entity.Topic) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *topicRepository) GetByID(ctx context.Context, id string) (*entity.Topic, error) {
	var result entity.Topic
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *topicRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Topic, error) {
	var result []entity.Topic
	if len(ids) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetFollowedByActivity returns the topics followed by the user, the topic
// with the most recent post first. A topic without posts is ranked by its own
// creation time.
func (r *topicRepository) GetFollowedByActivity(
	ctx context.Context, followerID string,
) ([]entity.Topic, error) {
	var result []entity.Topic
	err := xcontext.DB(ctx).
		Model(&entity.Topic{}).
		Select("topics.*").
		Joins("JOIN follows ON follows.topic_id = topics.id").
		Joins("LEFT JOIN posts ON posts.topic_id = topics.id").
		Where("follows.follower_id=?", followerID).
		Group("topics.id").
		Order("COALESCE(MAX(posts.created_at), topics.created_at) DESC").
		Order("topics.id").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
