package entity

const FriendshipAccepted = "accepted"

// Friendship is one direction of a friendship pair. A row (a, b) always exists
// together with its mirror (b, a).
type Friendship struct {
	Base
	UserID   string `gorm:"size:36;uniqueIndex:idx_friendships_pair"`
	User     User   `gorm:"foreignKey:UserID"`
	FriendID string `gorm:"size:36;uniqueIndex:idx_friendships_pair;index"`
	Friend   User   `gorm:"foreignKey:FriendID"`
	Status   string `gorm:"size:16;default:accepted"`
}
