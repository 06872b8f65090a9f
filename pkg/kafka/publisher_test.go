package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/questx-lab/forum/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	p := &publisher{clientID: "forum", producer: producer}
	defer func() { require.NoError(t, p.Stop(context.Background())) }()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"type":"friend.removed"}` {
			return errors.New("unexpected value")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.Publish(context.Background(), "forum.events", &pubsub.Pack{
		Key: []byte("user1"),
		Msg: []byte(`{"type":"friend.removed"}`),
	})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "forum.events", &pubsub.Pack{Key: []byte("user1"), Msg: []byte("{}")})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}
