package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/eduflow/campus/pkg/config"
	"github.com/eduflow/campus/pkg/logging"
)

// redisChannelPrefix namespaces pub/sub channels shared with other
// deployments on the same Redis.
const redisChannelPrefix = "campus:rt:"

// Broker is the realtime publisher. With Redis configured, events go
// through Redis pub/sub so every server instance's hub sees them; the
// local hub then receives them through the subscription loop. Without
// Redis the broker degrades to local-only fan-out. Publishing is
// fire-and-forget: it never blocks and never fails the calling
// operation.
type Broker struct {
	hub    *Hub
	client *redis.Client
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewBroker creates a broker bridged over Redis when enabled
func NewBroker(cfg *config.RedisConfig, hub *Hub) (*Broker, error) {
	b := &Broker{
		hub:    hub,
		logger: logging.WithComponent("realtime-broker"),
	}

	if !cfg.Enabled {
		b.logger.Info("Redis disabled, realtime fan-out is local only")
		return b, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	b.client = client
	loopCtx, loopCancel := context.WithCancel(context.Background())
	b.cancel = loopCancel
	go b.listen(loopCtx)

	b.logger.Info("Redis connection established")
	return b, nil
}

// Publish fans an event out on a channel. Best-effort: transport
// errors are logged and swallowed, and the event still reaches local
// subscribers.
func (b *Broker) Publish(channel, event string, payload interface{}) {
	ev := Event{Channel: channel, Name: event, Payload: payload}

	if b.client == nil {
		b.hub.Broadcast(ev)
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("failed to encode realtime event",
			zap.String("channel", channel),
			zap.String("event", event),
			zap.Error(err))
		b.hub.Broadcast(ev)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.client.Publish(ctx, redisChannelPrefix+channel, data).Err(); err != nil {
			b.logger.Warn("realtime publish failed, delivering locally only",
				zap.String("channel", channel),
				zap.String("event", event),
				zap.Error(err))
			// Local subscribers still get the event when Redis is down.
			b.hub.Broadcast(ev)
		}
	}()
}

// listen bridges Redis pub/sub messages into the local hub
func (b *Broker) listen(ctx context.Context) {
	pubsub := b.client.PSubscribe(ctx, redisChannelPrefix+"*")
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("dropping malformed realtime event", zap.Error(err))
				continue
			}
			b.hub.Broadcast(ev)
		}
	}
}

// Close stops the subscription loop and the Redis client
func (b *Broker) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}
