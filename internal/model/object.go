package model

type ShortUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type FriendRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	Sender     ShortUser `json:"sender"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"created_at"`
}

type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AccessType  string `json:"access_type"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	Members     int64  `json:"members,omitempty"`
}

type GroupMember struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	User     ShortUser `json:"user"`
	Role     string    `json:"role"`
	JoinedAt string    `json:"joined_at"`
}

type GroupInvitation struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Group     Group  `json:"group"`
	InviterID string `json:"inviter_id"`
	InviteeID string `json:"invitee_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type Topic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedBy string `json:"created_by"`
	IsPublic  bool   `json:"is_public"`
	CreatedAt string `json:"created_at"`
}

type Post struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
	TopicID   string `json:"topic_id"`
	CreatedAt string `json:"created_at"`
}

type FeedItem struct {
	Post       Post   `json:"post"`
	TopicTitle string `json:"topic_title"`
	Score      int    `json:"score"`
}
