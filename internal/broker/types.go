package broker

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Message is a raw record as fetched from the broker. Decoding is the
// handler's job so that malformed payloads can still be acknowledged.
type Message struct {
	Key     []byte
	Value   []byte
	Headers []kafka.Header
}

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload interface{}) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

// HandlerFunc processes one message. The returned error is logged only;
// the consumer acknowledges the message regardless so a poisonous record
// can never stall the partition.
type HandlerFunc func(ctx context.Context, msg Message) error
