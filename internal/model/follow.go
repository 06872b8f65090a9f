package model

type FollowTopicRequest struct {
	TopicID string `json:"topic_id"`
}

type FollowTopicResponse struct{}

type UnfollowTopicRequest struct {
	TopicID string `json:"topic_id"`
}

type UnfollowTopicResponse struct{}

type GetFollowedTopicsRequest struct{}

type GetFollowedTopicsResponse struct {
	Topics []Topic `json:"topics"`
}

type FollowUserRequest struct {
	UserID string `json:"user_id"`
}

type FollowUserResponse struct{}

type UnfollowUserRequest struct {
	UserID string `json:"user_id"`
}

type UnfollowUserResponse struct{}

type GetFollowedUsersRequest struct{}

type GetFollowedUsersResponse struct {
	Users []ShortUser `json:"users"`
}
