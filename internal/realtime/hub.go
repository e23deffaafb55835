package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/eduflow/campus/pkg/logging"
)

// subscriptionBuffer is the per-subscriber event buffer. Delivery is
// best-effort: a subscriber that falls this far behind loses events.
const subscriptionBuffer = 64

// Subscription is one attached viewer of a set of channels.
type Subscription struct {
	// C delivers events for the subscribed channels.
	C        chan Event
	channels []string
}

// Channels returns the channel names this subscription is attached to.
func (s *Subscription) Channels() []string {
	return s.channels
}

// Hub is the in-process fan-out: events published to a channel are
// delivered to every subscription currently attached to it. There is
// no replay and no acknowledgement.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logging.WithComponent("realtime"),
	}
}

// Subscribe attaches a new subscription to the given channels
func (h *Hub) Subscribe(channels ...string) *Subscription {
	sub := &Subscription{
		C:        make(chan Event, subscriptionBuffer),
		channels: channels,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range channels {
		if h.subs[ch] == nil {
			h.subs[ch] = make(map[*Subscription]struct{})
		}
		h.subs[ch][sub] = struct{}{}
	}
	return sub
}

// Unsubscribe detaches a subscription and closes its event channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range sub.channels {
		if set, ok := h.subs[ch]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, ch)
			}
		}
	}
	close(sub.C)
}

// Broadcast delivers an event to every subscription of its channel.
// Never blocks: slow subscribers are skipped.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[ev.Channel] {
		select {
		case sub.C <- ev:
		default:
			h.logger.Debug("dropping event for slow subscriber",
				zap.String("channel", ev.Channel),
				zap.String("event", ev.Name))
		}
	}
}

// SubscriberCount returns the number of subscriptions on a channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}
