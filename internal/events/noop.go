package events

import "context"

// NoopPublisher discards events. The server falls back to it when
// SYLLABUS_NATS_URL is unset.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(_ context.Context, _ string, _ any) error {
	return nil
}

func (n *NoopPublisher) Close() error { return nil }
