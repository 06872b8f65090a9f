package common

import "fmt"

func RedisKeyFeed(userID string) string {
	return fmt.Sprintf("feed:%s", userID)
}
