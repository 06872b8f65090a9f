package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/questx-lab/forum/internal/common"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	friendPostScore     = 100
	followedTopicScore  = 80
	interestMatchScore  = 20
	defaultFeedPageSize = 50
)

type FeedDomain interface {
	Get(context.Context, *model.GetFeedRequest) (*model.GetFeedResponse, error)
}

type feedDomain struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	followRepo     repository.FollowRepository
	topicRepo      repository.TopicRepository
	postRepo       repository.PostRepository
	redisClient    xredis.Client
}

func NewFeedDomain(
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	followRepo repository.FollowRepository,
	topicRepo repository.TopicRepository,
	postRepo repository.PostRepository,
	redisClient xredis.Client,
) FeedDomain {
	return &feedDomain{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		followRepo:     followRepo,
		topicRepo:      topicRepo,
		postRepo:       postRepo,
		redisClient:    redisClient,
	}
}

type rankedPost struct {
	post       *entity.Post
	topicTitle string
	score      int
}

// Get ranks the posts of friends, of followed topics and the requester's own
// posts in public topics. Each step reads separately, so the result is a best
// effort view when writes happen concurrently.
func (d *feedDomain) Get(
	ctx context.Context, req *model.GetFeedRequest,
) (*model.GetFeedResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "User is required")
	}

	cfg := xcontext.Configs(ctx).Feed
	useCache := d.redisClient != nil && cfg.CacheTTL > 0
	if useCache {
		var cached model.GetFeedResponse
		err := d.redisClient.GetObj(ctx, common.RedisKeyFeed(userID), &cached)
		if err == nil {
			return &cached, nil
		}

		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get cached feed: %v", err)
		}
	}

	friendIDs, err := d.friendshipRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friend ids: %v", err)
		return nil, errorx.Unknown
	}

	topicIDs, err := d.followRepo.GetFollowedTopicIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followed topic ids: %v", err)
		return nil, errorx.Unknown
	}

	candidates, err := d.postRepo.GetFeedCandidates(ctx, repository.FeedCandidateFilter{
		AuthorIDs: friendIDs,
		TopicIDs:  topicIDs,
		OwnerID:   userID,
		Limit:     cfg.MaxCandidates,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feed candidates: %v", err)
		return nil, errorx.Unknown
	}

	common.PromHistograms[common.FeedCandidates].WithLabelValues().Observe(float64(len(candidates)))

	titles, err := d.getTopicTitles(ctx, candidates)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get topics of candidates: %v", err)
		return nil, errorx.Unknown
	}

	interests, err := d.userRepo.GetInterests(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get interests: %v", err)
		return nil, errorx.Unknown
	}

	ranked := rankPosts(candidates, titles, toSet(friendIDs), toSet(topicIDs), normalizeInterests(interests))

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultFeedPageSize
	}

	if len(ranked) > pageSize {
		ranked = ranked[:pageSize]
	}

	resp := &model.GetFeedResponse{Items: []model.FeedItem{}}
	for _, r := range ranked {
		resp.Items = append(resp.Items, model.FeedItem{
			Post:       convertPost(r.post),
			TopicTitle: r.topicTitle,
			Score:      r.score,
		})
	}

	if useCache {
		if err := d.redisClient.SetObj(ctx, common.RedisKeyFeed(userID), resp, cfg.CacheTTL); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache feed: %v", err)
		}
	}

	return resp, nil
}

func (d *feedDomain) getTopicTitles(ctx context.Context, posts []entity.Post) (map[string]string, error) {
	ids := []string{}
	seen := map[string]struct{}{}
	for _, p := range posts {
		if _, ok := seen[p.TopicID]; !ok {
			seen[p.TopicID] = struct{}{}
			ids = append(ids, p.TopicID)
		}
	}

	topics, err := d.topicRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// A topic deleted after the candidates were read keeps an empty title.
	titles := map[string]string{}
	for _, t := range topics {
		titles[t.ID] = t.Title
	}

	return titles, nil
}

// rankPosts scores every post once and sorts them by score, then by recency.
func rankPosts(
	posts []entity.Post,
	titles map[string]string,
	friends, followedTopics map[string]struct{},
	interests []string,
) []rankedPost {
	ranked := make([]rankedPost, 0, len(posts))
	seen := map[string]struct{}{}
	for i := range posts {
		if _, ok := seen[posts[i].ID]; ok {
			continue
		}
		seen[posts[i].ID] = struct{}{}

		title := titles[posts[i].TopicID]
		ranked = append(ranked, rankedPost{
			post:       &posts[i],
			topicTitle: title,
			score:      scorePost(&posts[i], title, friends, followedTopics, interests),
		})
	}

	slices.SortFunc(ranked, func(a, b rankedPost) bool {
		if a.score != b.score {
			return a.score > b.score
		}

		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}

		return a.post.ID < b.post.ID
	})

	return ranked
}

// scorePost takes the strongest relationship signal, never their sum, then
// adds a bonus for every interest found in the content or the topic title.
func scorePost(
	post *entity.Post,
	topicTitle string,
	friends, followedTopics map[string]struct{},
	interests []string,
) int {
	score := 0
	if _, ok := friends[post.CreatedBy]; ok {
		score = friendPostScore
	}

	if _, ok := followedTopics[post.TopicID]; ok && score < followedTopicScore {
		score = followedTopicScore
	}

	content := strings.ToLower(post.Content)
	title := strings.ToLower(topicTitle)
	for _, interest := range interests {
		if strings.Contains(content, interest) {
			score += interestMatchScore
		}

		if strings.Contains(title, interest) {
			score += interestMatchScore
		}
	}

	return score
}

// normalizeInterests lowercases the interests and drops blank or duplicated
// ones.
func normalizeInterests(interests []string) []string {
	result := []string{}
	for _, interest := range interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" || slices.Contains(result, interest) {
			continue
		}

		result = append(result, interest)
	}

	return result
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}
