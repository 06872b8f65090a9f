package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

// FeedCandidateFilter selects the posts which may appear in a feed.
type FeedCandidateFilter struct {
	// Posts written by any of these users.
	AuthorIDs []string

	// Posts in any of these topics.
	TopicIDs []string

	// Posts written by this user in public topics.
	OwnerID string

	// Limit keeps only the most recent candidates. Zero means no limit.
	Limit int
}

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetListByTopicID(ctx context.Context, topicID string, offset, limit int) ([]entity.Post, error)
	GetFeedCandidates(ctx context.Context, filter FeedCandidateFilter) ([]entity.Post, error)
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetListByTopicID(
	ctx context.Context, topicID string, offset, limit int,
) ([]entity.Post, error) {
	var result []entity.Post
	err := xcontext.DB(ctx).
		Where("topic_id=?", topicID).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetFeedCandidates returns every post matching at least one branch of the
// filter. Each post appears once even if it matches several branches.
func (r *postRepository) GetFeedCandidates(
	ctx context.Context, filter FeedCandidateFilter,
) ([]entity.Post, error) {
	publicTopics := xcontext.DB(ctx).
		Model(&entity.Topic{}).
		Select("id").
		Where("is_public=?", true)

	tx := xcontext.DB(ctx).
		Where("created_by IN (?) OR topic_id IN (?) OR (created_by=? AND topic_id IN (?))",
			filter.AuthorIDs, filter.TopicIDs, filter.OwnerID, publicTopics).
		Order("created_at DESC").
		Order("id")

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var result []entity.Post
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
