package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/forum/internal/common"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/testutil"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func newFeedDomain(redisClient xredis.Client) FeedDomain {
	return NewFeedDomain(
		repository.NewUserRepository(),
		repository.NewFriendshipRepository(),
		repository.NewFollowRepository(),
		repository.NewTopicRepository(),
		repository.NewPostRepository(),
		redisClient,
	)
}

func followTopic(t *testing.T, ctx context.Context, userID, topicID string) {
	_, err := newFollowDomain(nil).FollowTopic(withUser(ctx, userID), &model.FollowTopicRequest{TopicID: topicID})
	require.NoError(t, err)
}

func setInterests(t *testing.T, ctx context.Context, userID string, interests ...string) {
	_, err := newUserDomain(nil).UpdateInterests(withUser(ctx, userID), &model.UpdateInterestsRequest{Interests: interests})
	require.NoError(t, err)
}

func feedScores(items []model.FeedItem) map[string]int {
	scores := map[string]int{}
	for _, item := range items {
		scores[item.Post.ID] = item.Score
	}

	return scores
}

func Test_scorePost(t *testing.T) {
	friends := toSet([]string{"friend"})
	topics := toSet([]string{"followed"})

	tests := []struct {
		name      string
		post      *entity.Post
		title     string
		interests []string
		want      int
	}{
		{
			name: "friend post",
			post: &entity.Post{CreatedBy: "friend", TopicID: "other"},
			want: friendPostScore,
		},
		{
			name: "followed topic post",
			post: &entity.Post{CreatedBy: "stranger", TopicID: "followed"},
			want: followedTopicScore,
		},
		{
			name: "friend post in followed topic is not summed",
			post: &entity.Post{CreatedBy: "friend", TopicID: "followed"},
			want: friendPostScore,
		},
		{
			name: "unrelated post",
			post: &entity.Post{CreatedBy: "stranger", TopicID: "other"},
			want: 0,
		},
		{
			name:      "two interests accumulate",
			post:      &entity.Post{CreatedBy: "friend", TopicID: "other", Content: "chess and go tonight"},
			interests: []string{"chess", "go"},
			want:      friendPostScore + 2*interestMatchScore,
		},
		{
			name:      "content and title both match",
			post:      &entity.Post{CreatedBy: "stranger", TopicID: "followed", Content: "anyone for chess?"},
			title:     "Chess Club",
			interests: []string{"chess"},
			want:      followedTopicScore + 2*interestMatchScore,
		},
		{
			name:      "case insensitive",
			post:      &entity.Post{CreatedBy: "stranger", TopicID: "other", Content: "CHESS"},
			interests: normalizeInterests([]string{"Chess"}),
			want:      interestMatchScore,
		},
		{
			name:      "no match",
			post:      &entity.Post{CreatedBy: "stranger", TopicID: "other", Content: "football"},
			title:     "Sports",
			interests: []string{"chess"},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, scorePost(tt.post, tt.title, friends, topics, tt.interests))
		})
	}
}

func Test_normalizeInterests(t *testing.T) {
	require.Equal(t,
		[]string{"chess", "go"},
		normalizeInterests([]string{" Chess", "chess", "", "GO ", "  "}),
	)
	require.Empty(t, normalizeInterests(nil))
}

func Test_rankPosts_TieBreak(t *testing.T) {
	now := time.Now()
	posts := []entity.Post{
		{Base: entity.Base{ID: "old", CreatedAt: now.Add(-time.Hour)}, CreatedBy: "friend"},
		{Base: entity.Base{ID: "new", CreatedAt: now}, CreatedBy: "friend"},
		{Base: entity.Base{ID: "low", CreatedAt: now.Add(time.Hour)}, CreatedBy: "stranger"},
		{Base: entity.Base{ID: "new", CreatedAt: now}, CreatedBy: "friend"},
	}

	ranked := rankPosts(posts, nil, toSet([]string{"friend"}), nil, nil)
	require.Len(t, ranked, 3)
	require.Equal(t, "new", ranked[0].post.ID)
	require.Equal(t, "old", ranked[1].post.ID)
	require.Equal(t, "low", ranked[2].post.ID)
}

func Test_feedDomain_Get_InterestScenario(t *testing.T) {
	ctx := newFixtureContext()
	makeFriends(t, ctx, testutil.User1.ID, testutil.User2.ID)
	setInterests(t, ctx, testutil.User1.ID, "chess")

	chessClub := &entity.Topic{
		Base:      entity.Base{ID: "chess-club"},
		Title:     "Chess Club",
		CreatedBy: testutil.User2.ID,
		IsPublic:  true,
	}
	require.NoError(t, repository.NewTopicRepository().Create(ctx, chessClub))

	now := time.Now()
	testutil.InsertPost(ctx, "chess", testutil.User2.ID, chessClub.ID, "anyone for chess tonight?", now.Add(-time.Hour))
	testutil.InsertPost(ctx, "own", testutil.User1.ID, testutil.Topic1.ID, "hello", now)

	got, err := newFeedDomain(nil).Get(withUser(ctx, testutil.User1.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	require.Equal(t, "chess", got.Items[0].Post.ID)
	require.Equal(t, 140, got.Items[0].Score)
	require.Equal(t, "Chess Club", got.Items[0].TopicTitle)

	require.Equal(t, "own", got.Items[1].Post.ID)
	require.Equal(t, 0, got.Items[1].Score)
}

func Test_feedDomain_Get_MaxNotSum(t *testing.T) {
	ctx := newFixtureContext()
	makeFriends(t, ctx, testutil.User1.ID, testutil.User3.ID)
	followTopic(t, ctx, testutil.User1.ID, testutil.Topic3.ID)

	now := time.Now()
	testutil.InsertPost(ctx, "both", testutil.User3.ID, testutil.Topic3.ID, "my move", now)
	testutil.InsertPost(ctx, "topic", testutil.User4.ID, testutil.Topic3.ID, "your move", now)

	got, err := newFeedDomain(nil).Get(withUser(ctx, testutil.User1.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"both": 100, "topic": 80}, feedScores(got.Items))
	require.Equal(t, "both", got.Items[0].Post.ID)
}

func Test_feedDomain_Get_Candidates(t *testing.T) {
	ctx := newFixtureContext()
	makeFriends(t, ctx, testutil.User2.ID, testutil.User3.ID)

	now := time.Now()
	testutil.InsertPost(ctx, "own-private", testutil.User2.ID, testutil.Topic2.ID, "secret", now)
	testutil.InsertPost(ctx, "own-public", testutil.User2.ID, testutil.Topic1.ID, "hello", now)
	testutil.InsertPost(ctx, "friend-private", testutil.User3.ID, testutil.Topic2.ID, "psst", now)
	testutil.InsertPost(ctx, "stranger", testutil.User4.ID, testutil.Topic1.ID, "hi", now)

	got, err := newFeedDomain(nil).Get(withUser(ctx, testutil.User2.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"own-public": 0, "friend-private": 100}, feedScores(got.Items))
}

func Test_feedDomain_Get_Empty(t *testing.T) {
	ctx := newFixtureContext()

	got, err := newFeedDomain(nil).Get(withUser(ctx, testutil.User4.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.NotNil(t, got.Items)
	require.Empty(t, got.Items)
}

func Test_feedDomain_Get_PageSize(t *testing.T) {
	ctx := newFixtureContext()
	followTopic(t, ctx, testutil.User1.ID, testutil.Topic3.ID)

	now := time.Now()
	for i, id := range []string{"p0", "p1", "p2", "p3"} {
		testutil.InsertPost(ctx, id, testutil.User3.ID, testutil.Topic3.ID, "post", now.Add(time.Duration(i)*time.Minute))
	}

	cfg := xcontext.Configs(ctx)
	cfg.Feed.PageSize = 2
	ctx = xcontext.WithConfigs(ctx, cfg)

	got, err := newFeedDomain(nil).Get(withUser(ctx, testutil.User1.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.Equal(t, "p3", got.Items[0].Post.ID)
	require.Equal(t, "p2", got.Items[1].Post.ID)
}

func Test_feedDomain_Get_Cache(t *testing.T) {
	ctx := newFixtureContext()
	followTopic(t, ctx, testutil.User1.ID, testutil.Topic3.ID)
	testutil.InsertPost(ctx, "p1", testutil.User3.ID, testutil.Topic3.ID, "first", time.Now())

	cfg := xcontext.Configs(ctx)
	cfg.Feed.CacheTTL = time.Minute
	ctx = xcontext.WithConfigs(ctx, cfg)

	redisClient := testutil.NewMockRedisClient()
	feed := newFeedDomain(redisClient)
	userCtx := withUser(ctx, testutil.User1.ID)

	got, err := feed.Get(userCtx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.True(t, feedCached(t, ctx, redisClient, testutil.User1.ID))

	// The cached page is served as is.
	cached := model.GetFeedResponse{Items: []model.FeedItem{{Post: model.Post{ID: "cached"}}}}
	require.NoError(t, redisClient.SetObj(ctx, common.RedisKeyFeed(testutil.User1.ID), cached, time.Minute))
	got, err = feed.Get(userCtx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Equal(t, cached.Items, got.Items)

	_, err = newFollowDomain(redisClient).FollowTopic(userCtx, &model.FollowTopicRequest{TopicID: testutil.Topic1.ID})
	require.NoError(t, err)

	got, err = feed.Get(userCtx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "p1", got.Items[0].Post.ID)
}

func Test_feedDomain_Get_CacheNewPost(t *testing.T) {
	tests := []struct {
		name     string
		authorID string
		topicID  string
		want     int
	}{
		{
			name:     "own post",
			authorID: testutil.User1.ID,
			topicID:  testutil.Topic1.ID,
			want:     0,
		},
		{
			name:     "friend post",
			authorID: testutil.User2.ID,
			topicID:  testutil.Topic1.ID,
			want:     friendPostScore,
		},
		{
			name:     "friend post in private topic",
			authorID: testutil.User2.ID,
			topicID:  testutil.Topic2.ID,
			want:     friendPostScore,
		},
		{
			name:     "post in followed topic",
			authorID: testutil.User4.ID,
			topicID:  testutil.Topic3.ID,
			want:     followedTopicScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newFixtureContext()
			makeFriends(t, ctx, testutil.User1.ID, testutil.User2.ID)
			followTopic(t, ctx, testutil.User1.ID, testutil.Topic3.ID)

			cfg := xcontext.Configs(ctx)
			cfg.Feed.CacheTTL = time.Minute
			ctx = xcontext.WithConfigs(ctx, cfg)

			redisClient := testutil.NewMockRedisClient()
			feed := newFeedDomain(redisClient)
			userCtx := withUser(ctx, testutil.User1.ID)

			got, err := feed.Get(userCtx, &model.GetFeedRequest{})
			require.NoError(t, err)
			require.Empty(t, got.Items)
			require.True(t, feedCached(t, ctx, redisClient, testutil.User1.ID))

			post, err := newTopicDomain(redisClient).CreatePost(
				withUser(ctx, tt.authorID),
				&model.CreatePostRequest{TopicID: tt.topicID, Content: "hello"},
			)
			require.NoError(t, err)
			require.False(t, feedCached(t, ctx, redisClient, testutil.User1.ID))

			got, err = feed.Get(userCtx, &model.GetFeedRequest{})
			require.NoError(t, err)
			require.Len(t, got.Items, 1)
			require.Equal(t, post.Post.ID, got.Items[0].Post.ID)
			require.Equal(t, tt.want, got.Items[0].Score)
		})
	}
}

func Test_feedDomain_Get_CacheUnrelatedPost(t *testing.T) {
	ctx := newFixtureContext()

	cfg := xcontext.Configs(ctx)
	cfg.Feed.CacheTTL = time.Minute
	ctx = xcontext.WithConfigs(ctx, cfg)

	redisClient := testutil.NewMockRedisClient()
	_, err := newFeedDomain(redisClient).Get(withUser(ctx, testutil.User1.ID), &model.GetFeedRequest{})
	require.NoError(t, err)

	_, err = newTopicDomain(redisClient).CreatePost(
		withUser(ctx, testutil.User4.ID),
		&model.CreatePostRequest{TopicID: testutil.Topic1.ID, Content: "hello"},
	)
	require.NoError(t, err)
	require.True(t, feedCached(t, ctx, redisClient, testutil.User1.ID))
}

func Test_feedDomain_Get_CacheFailure(t *testing.T) {
	ctx := newFixtureContext()
	followTopic(t, ctx, testutil.User1.ID, testutil.Topic3.ID)
	testutil.InsertPost(ctx, "p1", testutil.User3.ID, testutil.Topic3.ID, "first", time.Now())

	cfg := xcontext.Configs(ctx)
	cfg.Feed.CacheTTL = time.Minute
	ctx = xcontext.WithConfigs(ctx, cfg)

	redisClient := &testutil.MockRedisClient{
		GetObjFunc: func(context.Context, string, any) error { return errors.New("connection refused") },
		SetObjFunc: func(context.Context, string, any, time.Duration) error { return errors.New("connection refused") },
	}

	got, err := newFeedDomain(redisClient).Get(withUser(ctx, testutil.User1.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
}
