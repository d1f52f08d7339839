package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/sse"
)

const publishTimeout = 2 * time.Second

// Publisher is the subset of RedisClient the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message []byte) error
}

// RedisNotifier publishes catalog events as JSON on a Redis channel so other
// services can follow catalog changes. Failures are logged and dropped.
type RedisNotifier struct {
	publisher Publisher
	channel   string
}

// NewRedisNotifier creates a notifier publishing on channel.
func NewRedisNotifier(publisher Publisher, channel string) *RedisNotifier {
	return &RedisNotifier{publisher: publisher, channel: channel}
}

func (n *RedisNotifier) Notify(event *sse.CatalogEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Event)).Msg("Failed to marshal catalog event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, n.channel, payload); err != nil {
		log.Warn().Err(err).
			Str("channel", n.channel).
			Str("event", string(event.Event)).
			Int("entity_id", event.EntityID).
			Msg("Failed to publish catalog event")
	}
}
