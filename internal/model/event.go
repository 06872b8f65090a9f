package model

const (
	FriendRequestSentEvent        = "friend_request.sent"
	FriendRequestAcceptedEvent    = "friend_request.accepted"
	FriendRequestDeclinedEvent    = "friend_request.declined"
	FriendRemovedEvent            = "friend.removed"
	GroupInvitationCreatedEvent   = "group_invitation.created"
	GroupInvitationRespondedEvent = "group_invitation.responded"
	GroupMemberJoinedEvent        = "group_member.joined"
	GroupMemberLeftEvent          = "group_member.left"
)

// RelationshipEvent is published after a relationship change is committed.
type RelationshipEvent struct {
	Type     string `json:"type"`
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
	ObjectID string `json:"object_id,omitempty"`
	Time     string `json:"time"`
}
