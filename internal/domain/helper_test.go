package domain

import (
	"context"
	"testing"

	"github.com/questx-lab/forum/internal/common"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/testutil"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"github.com/stretchr/testify/require"
)

// withUser returns ctx acting on behalf of userID. The database is shared with
// ctx.
func withUser(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}

func newFixtureContext() context.Context {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	return ctx
}

func makeFriends(t *testing.T, ctx context.Context, a, b string) {
	require.NoError(t, repository.NewFriendshipRepository().CreatePair(ctx, a, b))
}

func countRows(t *testing.T, ctx context.Context, model any, query string, args ...any) int64 {
	var count int64
	tx := xcontext.DB(ctx).Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}

	require.NoError(t, tx.Count(&count).Error)
	return count
}

// requireSymmetricFriendships checks that every friendship row has its mirror.
func requireSymmetricFriendships(t *testing.T, ctx context.Context) {
	var friendships []entity.Friendship
	require.NoError(t, xcontext.DB(ctx).Find(&friendships).Error)

	pairs := map[[2]string]bool{}
	for _, f := range friendships {
		pairs[[2]string{f.UserID, f.FriendID}] = true
	}

	for pair := range pairs {
		require.True(t, pairs[[2]string{pair[1], pair[0]}], "missing mirror of %v", pair)
	}
}

// feedCached reports whether the feed of userID is in the cache.
func feedCached(t *testing.T, ctx context.Context, redisClient xredis.Client, userID string) bool {
	var feed model.GetFeedResponse
	err := redisClient.GetObj(ctx, common.RedisKeyFeed(userID), &feed)
	if xredis.IsNil(err) {
		return false
	}

	require.NoError(t, err)
	return true
}
