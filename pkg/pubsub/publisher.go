package pubsub

import "context"

// Pack is one message on the event bus. Key decides the partition, so events
// about the same entity keep their order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}
