package event

import "context"

// NoopPublisher stands in when no broker is configured; the deployment
// then degrades to cron/manual refresh only.
type NoopPublisher struct{}

func (NoopPublisher) PublishChange(ctx context.Context, routingKey string, payload any) error {
	return nil
}
