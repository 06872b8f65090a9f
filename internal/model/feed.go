package model

type GetFeedRequest struct{}

type GetFeedResponse struct {
	Items []FeedItem `json:"items"`
}
