package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/questx-lab/forum/internal/common"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/pkg/pubsub"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
)

// publishEvent sends the event to the bus. The change it describes is already
// committed, so a failure is only logged.
func publishEvent(
	ctx context.Context,
	publisher pubsub.Publisher,
	eventType, actorID, targetID, objectID string,
) {
	if publisher == nil {
		return
	}

	b, err := json.Marshal(model.RelationshipEvent{
		Type:     eventType,
		ActorID:  actorID,
		TargetID: targetID,
		ObjectID: objectID,
		Time:     time.Now().Format(defaultTimeLayout),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", eventType, err)
		return
	}

	err = publisher.Publish(ctx, xcontext.Configs(ctx).Kafka.Topic, &pubsub.Pack{
		Key: []byte(actorID),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event %s: %v", eventType, err)
		common.PromCounters[common.EventPublishFailure].WithLabelValues(eventType).Inc()
	}
}

// invalidateFeeds drops the cached feeds of the given users.
func invalidateFeeds(ctx context.Context, redisClient xredis.Client, userIDs ...string) {
	if redisClient == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, common.RedisKeyFeed(id))
	}

	if err := redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate feed cache: %v", err)
	}
}
