package model

type CreateTopicRequest struct {
	Title    string `json:"title"`
	IsPublic bool   `json:"is_public"`
}

type CreateTopicResponse struct {
	Topic Topic `json:"topic"`
}

type GetTopicRequest struct {
	TopicID string `json:"topic_id" form:"topic_id"`
}

type GetTopicResponse struct {
	Topic Topic `json:"topic"`
}

type CreatePostRequest struct {
	TopicID string `json:"topic_id"`
	Content string `json:"content"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

type GetPostsRequest struct {
	TopicID string `json:"topic_id" form:"topic_id"`
	Offset  int    `json:"offset" form:"offset"`
	Limit   int    `json:"limit" form:"limit"`
}

type GetPostsResponse struct {
	Posts []Post `json:"posts"`
}
