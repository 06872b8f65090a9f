package entity

import "github.com/questx-lab/forum/pkg/enum"

type FriendRequestStatus string

var (
	FriendRequestPending  = enum.New(FriendRequestStatus("pending"))
	FriendRequestAccepted = enum.New(FriendRequestStatus("accepted"))
	FriendRequestDeclined = enum.New(FriendRequestStatus("declined"))
)

type FriendRequest struct {
	Base
	SenderID   string              `gorm:"size:36;uniqueIndex:idx_friend_requests_triple"`
	Sender     User                `gorm:"foreignKey:SenderID"`
	ReceiverID string              `gorm:"size:36;uniqueIndex:idx_friend_requests_triple;index"`
	Receiver   User                `gorm:"foreignKey:ReceiverID"`
	Status     FriendRequestStatus `gorm:"size:16;uniqueIndex:idx_friend_requests_triple"`
}
