package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"gorm.io/gorm"
)

const (
	maxTopicTitleLength = 255
	defaultPostLimit    = 20
	maxPostLimit        = 100
)

type TopicDomain interface {
	Create(context.Context, *model.CreateTopicRequest) (*model.CreateTopicResponse, error)
	Get(context.Context, *model.GetTopicRequest) (*model.GetTopicResponse, error)
	CreatePost(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	GetPosts(context.Context, *model.GetPostsRequest) (*model.GetPostsResponse, error)
}

type topicDomain struct {
	topicRepo      repository.TopicRepository
	postRepo       repository.PostRepository
	friendshipRepo repository.FriendshipRepository
	followRepo     repository.FollowRepository
	redisClient    xredis.Client
}

func NewTopicDomain(
	topicRepo repository.TopicRepository,
	postRepo repository.PostRepository,
	friendshipRepo repository.FriendshipRepository,
	followRepo repository.FollowRepository,
	redisClient xredis.Client,
) TopicDomain {
	return &topicDomain{
		topicRepo:      topicRepo,
		postRepo:       postRepo,
		friendshipRepo: friendshipRepo,
		followRepo:     followRepo,
		redisClient:    redisClient,
	}
}

func (d *topicDomain) Create(
	ctx context.Context, req *model.CreateTopicRequest,
) (*model.CreateTopicResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errorx.New(errorx.BadRequest, "Title is required")
	}

	if len(title) > maxTopicTitleLength {
		return nil, errorx.New(errorx.BadRequest, "Title too long (at most %d characters)", maxTopicTitleLength)
	}

	topic := &entity.Topic{
		Base:      entity.Base{ID: uuid.NewString()},
		Title:     title,
		CreatedBy: xcontext.RequestUserID(ctx),
		IsPublic:  req.IsPublic,
	}

	if err := d.topicRepo.Create(ctx, topic); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create topic: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTopicResponse{Topic: convertTopic(topic)}, nil
}

func (d *topicDomain) Get(
	ctx context.Context, req *model.GetTopicRequest,
) (*model.GetTopicResponse, error) {
	topic, err := d.getTopic(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}

	return &model.GetTopicResponse{Topic: convertTopic(topic)}, nil
}

func (d *topicDomain) CreatePost(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, errorx.New(errorx.BadRequest, "Content is required")
	}

	topic, err := d.getTopic(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		Base:      entity.Base{ID: uuid.NewString()},
		Content:   req.Content,
		CreatedBy: xcontext.RequestUserID(ctx),
		TopicID:   topic.ID,
	}

	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidateReaderFeeds(ctx, topic, post.CreatedBy)

	return &model.CreatePostResponse{Post: convertPost(post)}, nil
}

// invalidateReaderFeeds drops the cached feeds which may rank a new post of
// authorID in topic: the author, the author's friends and, for a public
// topic, its followers. The post is already stored, so failures only leave
// those feeds stale until their ttl expires.
func (d *topicDomain) invalidateReaderFeeds(ctx context.Context, topic *entity.Topic, authorID string) {
	if d.redisClient == nil {
		return
	}

	readers := []string{authorID}

	friendIDs, err := d.friendshipRepo.GetFriendIDs(ctx, authorID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get friend ids of post author: %v", err)
	}
	readers = append(readers, friendIDs...)

	if topic.IsPublic {
		followerIDs, err := d.followRepo.GetTopicFollowerIDs(ctx, topic.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get topic followers: %v", err)
		}
		readers = append(readers, followerIDs...)
	}

	invalidateFeeds(ctx, d.redisClient, readers...)
}

func (d *topicDomain) GetPosts(
	ctx context.Context, req *model.GetPostsRequest,
) (*model.GetPostsResponse, error) {
	if req.Limit == 0 {
		req.Limit = defaultPostLimit
	}

	if req.Limit < 0 || req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset and limit must not be negative")
	}

	if req.Limit > maxPostLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", maxPostLimit)
	}

	topic, err := d.getTopic(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}

	posts, err := d.postRepo.GetListByTopicID(ctx, topic.ID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Post{}
	for i := range posts {
		result = append(result, convertPost(&posts[i]))
	}

	return &model.GetPostsResponse{Posts: result}, nil
}

func (d *topicDomain) getTopic(ctx context.Context, topicID string) (*entity.Topic, error) {
	if topicID == "" {
		return nil, errorx.New(errorx.BadRequest, "Topic id is required")
	}

	topic, err := d.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found topic")
		}

		xcontext.Logger(ctx).Errorf("Cannot get topic: %v", err)
		return nil, errorx.Unknown
	}

	return topic, nil
}
