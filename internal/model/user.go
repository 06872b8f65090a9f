package model

type UpdateInterestsRequest struct {
	Interests []string `json:"interests"`
}

type UpdateInterestsResponse struct {
	Interests []string `json:"interests"`
}
