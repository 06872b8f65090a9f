package model

const (
	RelationshipNone            = "none"
	RelationshipFriends         = "friends"
	RelationshipRequestSent     = "request_sent"
	RelationshipRequestReceived = "request_received"
)

const (
	FriendRequestAccept  = "accept"
	FriendRequestDecline = "decline"
)

type SendFriendRequestRequest struct {
	ReceiverID string `json:"receiver_id"`
}

type SendFriendRequestResponse struct {
	Request FriendRequest `json:"request"`
}

type RespondFriendRequestRequest struct {
	RequestID string `json:"request_id"`

	// Decision is either accept or decline.
	Decision string `json:"decision"`
}

type RespondFriendRequestResponse struct{}

type RemoveFriendRequest struct {
	FriendID string `json:"friend_id"`
}

type RemoveFriendResponse struct{}

type GetRelationshipStatusRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type GetRelationshipStatusResponse struct {
	Status string `json:"status"`
}

type GetFriendsRequest struct{}

type GetFriendsResponse struct {
	Friends []ShortUser `json:"friends"`
}

type GetPendingFriendRequestsRequest struct{}

type GetPendingFriendRequestsResponse struct {
	Requests []FriendRequest `json:"requests"`
}
