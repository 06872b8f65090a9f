package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/pubsub"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"gorm.io/gorm"
)

type RelationshipDomain interface {
	SendFriendRequest(context.Context, *model.SendFriendRequestRequest) (*model.SendFriendRequestResponse, error)
	RespondFriendRequest(context.Context, *model.RespondFriendRequestRequest) (*model.RespondFriendRequestResponse, error)
	RemoveFriend(context.Context, *model.RemoveFriendRequest) (*model.RemoveFriendResponse, error)
	GetRelationshipStatus(context.Context, *model.GetRelationshipStatusRequest) (*model.GetRelationshipStatusResponse, error)
	GetFriends(context.Context, *model.GetFriendsRequest) (*model.GetFriendsResponse, error)
	GetPendingFriendRequests(context.Context, *model.GetPendingFriendRequestsRequest) (*model.GetPendingFriendRequestsResponse, error)
}

type relationshipDomain struct {
	userRepo          repository.UserRepository
	friendRequestRepo repository.FriendRequestRepository
	friendshipRepo    repository.FriendshipRepository
	redisClient       xredis.Client
	publisher         pubsub.Publisher
}

func NewRelationshipDomain(
	userRepo repository.UserRepository,
	friendRequestRepo repository.FriendRequestRepository,
	friendshipRepo repository.FriendshipRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) RelationshipDomain {
	return &relationshipDomain{
		userRepo:          userRepo,
		friendRequestRepo: friendRequestRepo,
		friendshipRepo:    friendshipRepo,
		redisClient:       redisClient,
		publisher:         publisher,
	}
}

func (d *relationshipDomain) SendFriendRequest(
	ctx context.Context, req *model.SendFriendRequestRequest,
) (*model.SendFriendRequestResponse, error) {
	senderID := xcontext.RequestUserID(ctx)
	if senderID == "" || req.ReceiverID == "" {
		return nil, errorx.New(errorx.BadRequest, "Sender and receiver are required")
	}

	if senderID == req.ReceiverID {
		return nil, errorx.New(errorx.BadRequest, "Cannot send a friend request to yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found receiver")
		}

		xcontext.Logger(ctx).Errorf("Cannot get receiver: %v", err)
		return nil, errorx.Unknown
	}

	isFriend, err := d.friendshipRepo.Exists(ctx, senderID, req.ReceiverID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check friendship: %v", err)
		return nil, errorx.Unknown
	}

	if isFriend {
		return nil, errorx.New(errorx.AlreadyExists, "You are already friends")
	}

	existed, err := d.friendRequestRepo.ExistsBetween(ctx, senderID, req.ReceiverID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check existing friend requests: %v", err)
		return nil, errorx.Unknown
	}

	if existed {
		return nil, errorx.New(errorx.AlreadyExists, "A friend request already exists between you")
	}

	request := &entity.FriendRequest{
		Base:       entity.Base{ID: uuid.NewString()},
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Status:     entity.FriendRequestPending,
	}

	if err := d.friendRequestRepo.Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "A friend request already exists between you")
		}

		xcontext.Logger(ctx).Errorf("Cannot create friend request: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, model.FriendRequestSentEvent, senderID, req.ReceiverID, request.ID)

	return &model.SendFriendRequestResponse{Request: convertFriendRequest(request)}, nil
}

func (d *relationshipDomain) RespondFriendRequest(
	ctx context.Context, req *model.RespondFriendRequestRequest,
) (*model.RespondFriendRequestResponse, error) {
	if req.RequestID == "" {
		return nil, errorx.New(errorx.BadRequest, "Request id is required")
	}

	var newStatus entity.FriendRequestStatus
	var eventType string
	switch req.Decision {
	case model.FriendRequestAccept:
		newStatus = entity.FriendRequestAccepted
		eventType = model.FriendRequestAcceptedEvent
	case model.FriendRequestDecline:
		newStatus = entity.FriendRequestDeclined
		eventType = model.FriendRequestDeclinedEvent
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid decision %q", req.Decision)
	}

	responderID := xcontext.RequestUserID(ctx)
	request, err := d.friendRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friend request: %v", err)
		return nil, errorx.Unknown
	}

	if request.ReceiverID != responderID || request.Status != entity.FriendRequestPending {
		return nil, errorx.New(errorx.NotFound, "Not found friend request")
	}

	err = xcontext.Transaction(ctx, func(ctx context.Context) error {
		err := d.friendRequestRepo.UpdateStatus(ctx, request.ID, entity.FriendRequestPending, newStatus)
		if err != nil {
			return err
		}

		if newStatus == entity.FriendRequestAccepted {
			return d.friendshipRepo.CreatePair(ctx, request.SenderID, request.ReceiverID)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot respond to friend request: %v", err)
			return nil, errorx.Unknown
		}

		// Another call resolved the request between the check and the update.
		// If it reached the same decision, this call has nothing left to do.
		current, err := d.friendRequestRepo.GetByID(ctx, request.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get friend request: %v", err)
			return nil, errorx.Unknown
		}

		if current.Status != newStatus {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		return &model.RespondFriendRequestResponse{}, nil
	}

	invalidateFeeds(ctx, d.redisClient, request.SenderID, request.ReceiverID)
	publishEvent(ctx, d.publisher, eventType, responderID, request.SenderID, request.ID)

	return &model.RespondFriendRequestResponse{}, nil
}

func (d *relationshipDomain) RemoveFriend(
	ctx context.Context, req *model.RemoveFriendRequest,
) (*model.RemoveFriendResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" || req.FriendID == "" {
		return nil, errorx.New(errorx.BadRequest, "User and friend are required")
	}

	if userID == req.FriendID {
		return nil, errorx.New(errorx.BadRequest, "Cannot remove yourself")
	}

	var deleted int64
	err := xcontext.Transaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = d.friendshipRepo.DeletePair(ctx, userID, req.FriendID)
		return err
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove friendship: %v", err)
		return nil, errorx.Unknown
	}

	if deleted > 0 {
		invalidateFeeds(ctx, d.redisClient, userID, req.FriendID)
		publishEvent(ctx, d.publisher, model.FriendRemovedEvent, userID, req.FriendID, "")
	}

	return &model.RemoveFriendResponse{}, nil
}

func (d *relationshipDomain) GetRelationshipStatus(
	ctx context.Context, req *model.GetRelationshipStatusRequest,
) (*model.GetRelationshipStatusResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" || req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Both users are required")
	}

	if userID == req.UserID {
		return &model.GetRelationshipStatusResponse{Status: model.RelationshipNone}, nil
	}

	// A friendship wins over any pending request left from before it.
	isFriend, err := d.friendshipRepo.Exists(ctx, userID, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check friendship: %v", err)
		return nil, errorx.Unknown
	}

	if isFriend {
		return &model.GetRelationshipStatusResponse{Status: model.RelationshipFriends}, nil
	}

	directions := []struct {
		senderID   string
		receiverID string
		status     string
	}{
		{senderID: userID, receiverID: req.UserID, status: model.RelationshipRequestSent},
		{senderID: req.UserID, receiverID: userID, status: model.RelationshipRequestReceived},
	}

	for _, direction := range directions {
		_, err := d.friendRequestRepo.GetPending(ctx, direction.senderID, direction.receiverID)
		if err == nil {
			return &model.GetRelationshipStatusResponse{Status: direction.status}, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get pending friend request: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.GetRelationshipStatusResponse{Status: model.RelationshipNone}, nil
}

func (d *relationshipDomain) GetFriends(
	ctx context.Context, req *model.GetFriendsRequest,
) (*model.GetFriendsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	friendIDs, err := d.friendshipRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friend ids: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, friendIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friends: %v", err)
		return nil, errorx.Unknown
	}

	userByID := map[string]*entity.User{}
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	friends := []model.ShortUser{}
	for _, id := range friendIDs {
		if u, ok := userByID[id]; ok {
			friends = append(friends, convertShortUser(u))
		} else {
			friends = append(friends, model.ShortUser{ID: id})
		}
	}

	return &model.GetFriendsResponse{Friends: friends}, nil
}

func (d *relationshipDomain) GetPendingFriendRequests(
	ctx context.Context, req *model.GetPendingFriendRequestsRequest,
) (*model.GetPendingFriendRequestsResponse, error) {
	requests, err := d.friendRequestRepo.GetPendingByReceiver(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending friend requests: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.FriendRequest{}
	for i := range requests {
		result = append(result, convertFriendRequest(&requests[i]))
	}

	return &model.GetPendingFriendRequestsResponse{Requests: result}, nil
}
