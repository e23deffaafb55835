package forum

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/models"
)

// TopicInput carries the fields of a new topic.
type TopicInput struct {
	CategoryID int64
	AreaID     int64
	Title      string
}

// TopicView is the client-facing shape of a topic.
type TopicView struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	AreaID     int64     `json:"area_id,omitempty"`
	Title      string    `json:"title"`
	Category   string    `json:"category,omitempty"`
	CreatorID  int64     `json:"creator_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTopicView maps a topic row to its client-facing shape
func NewTopicView(t *models.Topic) TopicView {
	v := TopicView{
		ID:         t.ID,
		CategoryID: t.CategoryID,
		AreaID:     t.AreaID,
		Title:      t.Title,
		CreatorID:  t.CreatorID,
		CreatedAt:  t.CreatedAt,
	}
	if t.Category != nil {
		v.Category = t.Category.Name
	}
	return v
}

// CreateTopic opens a discussion topic. Only moderators may create
// topics.
func (s *Service) CreateTopic(ctx context.Context, actor Identity, input TopicInput) (TopicView, error) {
	if !actor.IsModerator() {
		return TopicView{}, NewError(KindForbidden, "only a moderator may create a topic")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return TopicView{}, NewError(KindValidation, "topic needs a title")
	}
	if input.CategoryID == 0 {
		return TopicView{}, NewError(KindValidation, "topic needs a category")
	}

	topic := &models.Topic{
		CategoryID: input.CategoryID,
		AreaID:     input.AreaID,
		Title:      input.Title,
		CreatorID:  actor.UserID,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return TopicView{}, WrapError(KindUnexpected, "create topic", err)
	}
	s.logger.Info("topic created",
		zap.Int64("topic_id", topic.ID),
		zap.Int64("creator_id", actor.UserID))
	return NewTopicView(topic), nil
}

// ListTopics returns a category's topics, newest first.
func (s *Service) ListTopics(ctx context.Context, categoryID int64) ([]TopicView, error) {
	if categoryID <= 0 {
		return nil, NewError(KindValidation, "topic listing needs a category")
	}
	topics, err := s.topics.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, WrapError(KindUnexpected, "list topics", err)
	}
	views := make([]TopicView, 0, len(topics))
	for i := range topics {
		views = append(views, NewTopicView(&topics[i]))
	}
	return views, nil
}

// GetTopic returns one topic with its owning category.
func (s *Service) GetTopic(ctx context.Context, topicID int64) (TopicView, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return TopicView{}, WrapError(KindUnexpected, "load topic", err)
	}
	if topic == nil {
		return TopicView{}, NewError(KindNotFound, "topic not found")
	}
	return NewTopicView(topic), nil
}
