package domain

import (
	"context"
	"testing"

	"github.com/questx-lab/forum/internal/common"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newRelationshipDomain(publisher *testutil.MockPublisher) RelationshipDomain {
	return NewRelationshipDomain(
		repository.NewUserRepository(),
		repository.NewFriendRequestRepository(),
		repository.NewFriendshipRepository(),
		testutil.NewMockRedisClient(),
		publisher,
	)
}

func Test_relationshipDomain_SendFriendRequest(t *testing.T) {
	tests := []struct {
		name       string
		senderID   string
		receiverID string
		setup      func(t *testing.T, ctx context.Context)
		wantErr    error
	}{
		{
			name:       "happy case",
			senderID:   testutil.User1.ID,
			receiverID: testutil.User2.ID,
		},
		{
			name:       "send to yourself",
			senderID:   testutil.User1.ID,
			receiverID: testutil.User1.ID,
			wantErr:    errorx.New(errorx.BadRequest, ""),
		},
		{
			name:       "empty receiver",
			senderID:   testutil.User1.ID,
			receiverID: "",
			wantErr:    errorx.New(errorx.BadRequest, ""),
		},
		{
			name:       "unknown receiver",
			senderID:   testutil.User1.ID,
			receiverID: "unknown",
			wantErr:    errorx.New(errorx.NotFound, ""),
		},
		{
			name:       "already friends",
			senderID:   testutil.User1.ID,
			receiverID: testutil.User2.ID,
			setup: func(t *testing.T, ctx context.Context) {
				makeFriends(t, ctx, testutil.User1.ID, testutil.User2.ID)
			},
			wantErr: errorx.New(errorx.AlreadyExists, ""),
		},
		{
			name:       "request in the other direction",
			senderID:   testutil.User1.ID,
			receiverID: testutil.User2.ID,
			setup: func(t *testing.T, ctx context.Context) {
				_, err := newRelationshipDomain(&testutil.MockPublisher{}).SendFriendRequest(
					withUser(ctx, testutil.User2.ID),
					&model.SendFriendRequestRequest{ReceiverID: testutil.User1.ID},
				)
				require.NoError(t, err)
			},
			wantErr: errorx.New(errorx.AlreadyExists, ""),
		},
		{
			name:       "declined request blocks a new one",
			senderID:   testutil.User1.ID,
			receiverID: testutil.User2.ID,
			setup: func(t *testing.T, ctx context.Context) {
				d := newRelationshipDomain(&testutil.MockPublisher{})
				resp, err := d.SendFriendRequest(
					withUser(ctx, testutil.User1.ID),
					&model.SendFriendRequestRequest{ReceiverID: testutil.User2.ID},
				)
				require.NoError(t, err)

				_, err = d.RespondFriendRequest(
					withUser(ctx, testutil.User2.ID),
					&model.RespondFriendRequestRequest{RequestID: resp.Request.ID, Decision: model.FriendRequestDecline},
				)
				require.NoError(t, err)
			},
			wantErr: errorx.New(errorx.AlreadyExists, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newFixtureContext()
			if tt.setup != nil {
				tt.setup(t, ctx)
			}

			publisher := &testutil.MockPublisher{}
			d := newRelationshipDomain(publisher)
			got, err := d.SendFriendRequest(
				withUser(ctx, tt.senderID),
				&model.SendFriendRequestRequest{ReceiverID: tt.receiverID},
			)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, publisher.Published)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.senderID, got.Request.SenderID)
			require.Equal(t, tt.receiverID, got.Request.ReceiverID)
			require.Equal(t, string(entity.FriendRequestPending), got.Request.Status)
			require.Len(t, publisher.Published, 1)

			require.EqualValues(t, 1, countRows(t, ctx, &entity.FriendRequest{}, ""))
		})
	}
}

func Test_relationshipDomain_RespondFriendRequest_Accept(t *testing.T) {
	ctx := newFixtureContext()
	publisher := &testutil.MockPublisher{}
	redisClient := testutil.NewMockRedisClient()
	d := NewRelationshipDomain(
		repository.NewUserRepository(),
		repository.NewFriendRequestRepository(),
		repository.NewFriendshipRepository(),
		redisClient,
		publisher,
	)

	sent, err := d.SendFriendRequest(
		withUser(ctx, testutil.User1.ID),
		&model.SendFriendRequestRequest{ReceiverID: testutil.User2.ID},
	)
	require.NoError(t, err)

	// A cached feed must not survive the new friendship.
	require.NoError(t, redisClient.SetObj(ctx, common.RedisKeyFeed(testutil.User1.ID), model.GetFeedResponse{}, 0))

	_, err = d.RespondFriendRequest(
		withUser(ctx, testutil.User2.ID),
		&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestAccept},
	)
	require.NoError(t, err)

	request, err := repository.NewFriendRequestRepository().GetByID(ctx, sent.Request.ID)
	require.NoError(t, err)
	require.Equal(t, entity.FriendRequestAccepted, request.Status)

	friendshipRepo := repository.NewFriendshipRepository()
	for _, pair := range [][2]string{{testutil.User1.ID, testutil.User2.ID}, {testutil.User2.ID, testutil.User1.ID}} {
		exists, err := friendshipRepo.Exists(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, exists)
	}

	require.False(t, feedCached(t, ctx, redisClient, testutil.User1.ID))

	require.Len(t, publisher.Published, 2)
	requireSymmetricFriendships(t, ctx)

	for _, userID := range []string{testutil.User1.ID, testutil.User2.ID} {
		other := testutil.User2.ID
		if userID == testutil.User2.ID {
			other = testutil.User1.ID
		}

		status, err := d.GetRelationshipStatus(
			withUser(ctx, userID),
			&model.GetRelationshipStatusRequest{UserID: other},
		)
		require.NoError(t, err)
		require.Equal(t, model.RelationshipFriends, status.Status)
	}

	// The request is not pending anymore.
	_, err = d.RespondFriendRequest(
		withUser(ctx, testutil.User2.ID),
		&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestAccept},
	)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_relationshipDomain_RespondFriendRequest_Decline(t *testing.T) {
	ctx := newFixtureContext()
	d := newRelationshipDomain(&testutil.MockPublisher{})

	sent, err := d.SendFriendRequest(
		withUser(ctx, testutil.User1.ID),
		&model.SendFriendRequestRequest{ReceiverID: testutil.User2.ID},
	)
	require.NoError(t, err)

	_, err = d.RespondFriendRequest(
		withUser(ctx, testutil.User2.ID),
		&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestDecline},
	)
	require.NoError(t, err)

	request, err := repository.NewFriendRequestRepository().GetByID(ctx, sent.Request.ID)
	require.NoError(t, err)
	require.Equal(t, entity.FriendRequestDeclined, request.Status)
	require.EqualValues(t, 0, countRows(t, ctx, &entity.Friendship{}, ""))
}

func Test_relationshipDomain_RespondFriendRequest_Invalid(t *testing.T) {
	ctx := newFixtureContext()
	d := newRelationshipDomain(&testutil.MockPublisher{})

	sent, err := d.SendFriendRequest(
		withUser(ctx, testutil.User1.ID),
		&model.SendFriendRequestRequest{ReceiverID: testutil.User2.ID},
	)
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  string
		req     *model.RespondFriendRequestRequest
		wantErr error
	}{
		{
			name:    "unknown request",
			userID:  testutil.User2.ID,
			req:     &model.RespondFriendRequestRequest{RequestID: "unknown", Decision: model.FriendRequestAccept},
			wantErr: errorx.New(errorx.NotFound, ""),
		},
		{
			name:    "sender cannot respond",
			userID:  testutil.User1.ID,
			req:     &model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestAccept},
			wantErr: errorx.New(errorx.NotFound, ""),
		},
		{
			name:    "third user cannot respond",
			userID:  testutil.User3.ID,
			req:     &model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestDecline},
			wantErr: errorx.New(errorx.NotFound, ""),
		},
		{
			name:    "invalid decision",
			userID:  testutil.User2.ID,
			req:     &model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: "maybe"},
			wantErr: errorx.New(errorx.BadRequest, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.RespondFriendRequest(withUser(ctx, tt.userID), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	request, err := repository.NewFriendRequestRepository().GetByID(ctx, sent.Request.ID)
	require.NoError(t, err)
	require.Equal(t, entity.FriendRequestPending, request.Status)
}

// staleFriendRequestRepo serves a stale pending copy of the request on the
// first read, as if another accept committed right after this call checked it.
type staleFriendRequestRepo struct {
	repository.FriendRequestRepository
	stale *entity.FriendRequest
}

func (r *staleFriendRequestRepo) GetByID(ctx context.Context, id string) (*entity.FriendRequest, error) {
	if r.stale != nil {
		stale := r.stale
		r.stale = nil
		return stale, nil
	}

	return r.FriendRequestRepository.GetByID(ctx, id)
}

func Test_relationshipDomain_RespondFriendRequest_ConcurrentAccept(t *testing.T) {
	ctx := newFixtureContext()
	d := newRelationshipDomain(&testutil.MockPublisher{})

	sent, err := d.SendFriendRequest(
		withUser(ctx, testutil.User1.ID),
		&model.SendFriendRequestRequest{ReceiverID: testutil.User2.ID},
	)
	require.NoError(t, err)

	pending, err := repository.NewFriendRequestRepository().GetByID(ctx, sent.Request.ID)
	require.NoError(t, err)

	_, err = d.RespondFriendRequest(
		withUser(ctx, testutil.User2.ID),
		&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestAccept},
	)
	require.NoError(t, err)

	loser := NewRelationshipDomain(
		repository.NewUserRepository(),
		&staleFriendRequestRepo{FriendRequestRepository: repository.NewFriendRequestRepository(), stale: pending},
		repository.NewFriendshipRepository(),
		nil,
		nil,
	)
	_, err = loser.RespondFriendRequest(
		withUser(ctx, testutil.User2.ID),
		&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestAccept},
	)
	require.NoError(t, err)

	require.EqualValues(t, 2, countRows(t, ctx, &entity.Friendship{}, ""))
	requireSymmetricFriendships(t, ctx)

	// A decline losing against an accept is reported, the outcome differs.
	loser = NewRelationshipDomain(
		repository.NewUserRepository(),
		&staleFriendRequestRepo{FriendRequestRepository: repository.NewFriendRequestRepository(), stale: pending},
		repository.NewFriendshipRepository(),
		nil,
		nil,
	)
	_, err = loser.RespondFriendRequest(
		withUser(ctx, testutil.User2.ID),
		&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: model.FriendRequestDecline},
	)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_relationshipDomain_RemoveFriend(t *testing.T) {
	ctx := newFixtureContext()
	publisher := &testutil.MockPublisher{}
	d := newRelationshipDomain(publisher)

	makeFriends(t, ctx, testutil.User1.ID, testutil.User2.ID)
	makeFriends(t, ctx, testutil.User1.ID, testutil.User3.ID)

	_, err := d.RemoveFriend(withUser(ctx, testutil.User2.ID), &model.RemoveFriendRequest{FriendID: testutil.User1.ID})
	require.NoError(t, err)
	require.Len(t, publisher.Published, 1)

	require.EqualValues(t, 0, countRows(t, ctx, &entity.Friendship{},
		"user_id IN (?) AND friend_id IN (?)",
		[]string{testutil.User1.ID, testutil.User2.ID}, []string{testutil.User1.ID, testutil.User2.ID}))
	require.EqualValues(t, 2, countRows(t, ctx, &entity.Friendship{}, ""))
	requireSymmetricFriendships(t, ctx)

	// Removing again is a no-op.
	_, err = d.RemoveFriend(withUser(ctx, testutil.User1.ID), &model.RemoveFriendRequest{FriendID: testutil.User2.ID})
	require.NoError(t, err)
	require.Len(t, publisher.Published, 1)

	_, err = d.RemoveFriend(withUser(ctx, testutil.User1.ID), &model.RemoveFriendRequest{FriendID: testutil.User1.ID})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_relationshipDomain_GetRelationshipStatus(t *testing.T) {
	ctx := newFixtureContext()
	d := newRelationshipDomain(&testutil.MockPublisher{})

	_, err := d.SendFriendRequest(
		withUser(ctx, testutil.User1.ID),
		&model.SendFriendRequestRequest{ReceiverID: testutil.User2.ID},
	)
	require.NoError(t, err)

	// user3 and user4 are friends but a pending request from before the
	// friendship is still around.
	require.NoError(t, repository.NewFriendRequestRepository().Create(ctx, &entity.FriendRequest{
		Base:       entity.Base{ID: "stale-request"},
		SenderID:   testutil.User3.ID,
		ReceiverID: testutil.User4.ID,
		Status:     entity.FriendRequestPending,
	}))
	makeFriends(t, ctx, testutil.User3.ID, testutil.User4.ID)

	tests := []struct {
		name   string
		userID string
		other  string
		want   string
	}{
		{name: "request sent", userID: testutil.User1.ID, other: testutil.User2.ID, want: model.RelationshipRequestSent},
		{name: "request received", userID: testutil.User2.ID, other: testutil.User1.ID, want: model.RelationshipRequestReceived},
		{name: "none", userID: testutil.User1.ID, other: testutil.User3.ID, want: model.RelationshipNone},
		{name: "friendship wins over stale request", userID: testutil.User4.ID, other: testutil.User3.ID, want: model.RelationshipFriends},
		{name: "friendship wins from the sender side", userID: testutil.User3.ID, other: testutil.User4.ID, want: model.RelationshipFriends},
		{name: "yourself", userID: testutil.User1.ID, other: testutil.User1.ID, want: model.RelationshipNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.GetRelationshipStatus(
				withUser(ctx, tt.userID),
				&model.GetRelationshipStatusRequest{UserID: tt.other},
			)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Status)
		})
	}
}

func Test_relationshipDomain_GetFriendsAndPendingRequests(t *testing.T) {
	ctx := newFixtureContext()
	d := newRelationshipDomain(&testutil.MockPublisher{})

	makeFriends(t, ctx, testutil.User1.ID, testutil.User2.ID)
	_, err := d.SendFriendRequest(
		withUser(ctx, testutil.User3.ID),
		&model.SendFriendRequestRequest{ReceiverID: testutil.User1.ID},
	)
	require.NoError(t, err)

	friends, err := d.GetFriends(withUser(ctx, testutil.User1.ID), &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Equal(t, []model.ShortUser{{ID: testutil.User2.ID, Username: testutil.User2.Username}}, friends.Friends)

	pending, err := d.GetPendingFriendRequests(withUser(ctx, testutil.User1.ID), &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Requests, 1)
	require.Equal(t, testutil.User3.ID, pending.Requests[0].SenderID)
	require.Equal(t, testutil.User3.Username, pending.Requests[0].Sender.Username)

	pending, err = d.GetPendingFriendRequests(withUser(ctx, testutil.User3.ID), &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Empty(t, pending.Requests)
}

func Test_relationshipDomain_Symmetry(t *testing.T) {
	ctx := newFixtureContext()
	d := newRelationshipDomain(&testutil.MockPublisher{})

	users := []string{testutil.User1.ID, testutil.User2.ID, testutil.User3.ID, testutil.User4.ID}
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			sent, err := d.SendFriendRequest(
				withUser(ctx, users[i]),
				&model.SendFriendRequestRequest{ReceiverID: users[j]},
			)
			require.NoError(t, err)

			decision := model.FriendRequestAccept
			if (i+j)%2 == 0 {
				decision = model.FriendRequestDecline
			}

			_, err = d.RespondFriendRequest(
				withUser(ctx, users[j]),
				&model.RespondFriendRequestRequest{RequestID: sent.Request.ID, Decision: decision},
			)
			require.NoError(t, err)
			requireSymmetricFriendships(t, ctx)
		}
	}

	_, err := d.RemoveFriend(withUser(ctx, users[0]), &model.RemoveFriendRequest{FriendID: users[1]})
	require.NoError(t, err)
	requireSymmetricFriendships(t, ctx)
}
