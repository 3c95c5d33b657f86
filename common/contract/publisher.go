package contract

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
)

//go:generate mockgen -source=publisher.go -destination=../jetstream/mocks/publisher.go -package=mocks

// Publisher is the part of jetstream.JetStream the handlers publish through.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EmailSender delivers a plain text email.
type EmailSender interface {
	Send(to []string, subject string, body string) error
}
