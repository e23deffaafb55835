package realtime

import "fmt"

// ChannelModeration is the single fixed channel moderators subscribe
// to; report events land here regardless of which thread they belong
// to.
const ChannelModeration = "moderation"

// TopicChannel names the channel for topic-wide events.
func TopicChannel(topicID int64) string {
	return fmt.Sprintf("topic:%d", topicID)
}

// ThreadChannel names the channel for thread-scoped events.
func ThreadChannel(threadID int64) string {
	return fmt.Sprintf("thread:%d", threadID)
}

// Event names.
const (
	EventThreadCreated   = "threadCreated"
	EventThreadUpdated   = "threadUpdated"
	EventThreadHidden    = "threadHidden"
	EventThreadVoted     = "threadVoted"
	EventThreadReported  = "threadReported"
	EventCommentCreated  = "commentCreated"
	EventCommentUpdated  = "commentUpdated"
	EventCommentHidden   = "commentHidden"
	EventCommentVoted    = "commentVoted"
	EventCommentReported = "commentReported"
)

// Event is the wire record delivered to subscribers.
type Event struct {
	Channel string      `json:"channel"`
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}
