package forum

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
	"github.com/eduflow/campus/internal/storage"
)

const defaultPageSize = 10

// ThreadInput carries the caller-supplied fields of a new or edited
// thread. Attachment is nil when the request carried no file.
type ThreadInput struct {
	Title      string
	Body       string
	Attachment *storage.Upload
}

// CreateThread opens a thread inside a topic. A thread must carry a
// title, a body or an attachment; an entirely empty submission is
// rejected before anything is persisted.
func (s *Service) CreateThread(ctx context.Context, actor Identity, topicID int64, input ThreadInput) (ThreadView, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	if input.Title == "" && input.Body == "" && input.Attachment == nil {
		return ThreadView{}, NewError(KindValidation, "thread needs a title, a body or an attachment")
	}

	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return ThreadView{}, WrapError(KindUnexpected, "load topic", err)
	}
	if topic == nil {
		return ThreadView{}, NewError(KindNotFound, "topic not found")
	}

	thread := &models.Thread{
		TopicID:  topicID,
		AuthorID: actor.UserID,
		Title:    nullString(input.Title),
		Body:     nullString(input.Body),
	}
	if input.Attachment != nil {
		placed, err := s.placeAttachment(ctx, topic, "thread", actor.UserID, *input.Attachment)
		if err != nil {
			return ThreadView{}, err
		}
		thread.AttachmentURL = nullString(placed.URL)
		thread.AttachmentName = nullString(placed.OriginalName)
		thread.AttachmentKind = nullString(placed.MediaKind)
	}

	if err := s.threads.Create(ctx, thread); err != nil {
		return ThreadView{}, WrapError(KindUnexpected, "create thread", err)
	}

	view := NewThreadView(thread)
	s.pub.Publish(realtime.TopicChannel(topicID), realtime.EventThreadCreated, view)
	s.logger.Info("thread created",
		zap.Int64("thread_id", thread.ID),
		zap.Int64("topic_id", topicID),
		zap.Int64("author_id", actor.UserID))
	return view, nil
}

// GetThread returns one visible thread.
func (s *Service) GetThread(ctx context.Context, threadID int64) (ThreadView, error) {
	thread, err := s.visibleThread(ctx, threadID)
	if err != nil {
		return ThreadView{}, err
	}
	return NewThreadView(thread), nil
}

// EditThread rewrites a thread's title and body. Only the author or a
// moderator may edit, and the edit may not strip the thread of all
// content unless an attachment remains.
func (s *Service) EditThread(ctx context.Context, actor Identity, threadID int64, title, body string) (ThreadView, error) {
	thread, err := s.visibleThread(ctx, threadID)
	if err != nil {
		return ThreadView{}, err
	}
	if !canModify(actor, thread.AuthorID) {
		return ThreadView{}, NewError(KindForbidden, "only the author or a moderator may edit a thread")
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" && !thread.AttachmentURL.Valid {
		return ThreadView{}, NewError(KindValidation, "thread needs a title, a body or an attachment")
	}

	if err := s.threads.UpdateContent(ctx, threadID, nullString(title), nullString(body)); err != nil {
		return ThreadView{}, WrapError(KindUnexpected, "update thread", err)
	}
	thread.Title = nullString(title)
	thread.Body = nullString(body)

	view := NewThreadView(thread)
	s.pub.Publish(realtime.TopicChannel(thread.TopicID), realtime.EventThreadUpdated, view)
	return view, nil
}

// HideThread soft-hides a thread. Hiding is idempotent at the store
// level; an already hidden thread reads as missing here.
func (s *Service) HideThread(ctx context.Context, actor Identity, threadID int64) error {
	thread, err := s.visibleThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !canModify(actor, thread.AuthorID) {
		return NewError(KindForbidden, "only the author or a moderator may hide a thread")
	}

	hidden, err := s.threads.Hide(ctx, threadID)
	if err != nil {
		return WrapError(KindUnexpected, "hide thread", err)
	}
	if !hidden {
		return nil
	}

	s.pub.Publish(realtime.TopicChannel(thread.TopicID), realtime.EventThreadHidden, map[string]int64{"id": threadID})
	s.logger.Info("thread hidden",
		zap.Int64("thread_id", threadID),
		zap.Int64("actor_id", actor.UserID))
	return nil
}

// ListThreads returns one page of a topic's visible threads.
func (s *Service) ListThreads(ctx context.Context, topicID int64, sort string, page Page) ([]ThreadView, Pagination, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, Pagination{}, WrapError(KindUnexpected, "load topic", err)
	}
	if topic == nil {
		return nil, Pagination{}, NewError(KindNotFound, "topic not found")
	}

	page = page.normalize(defaultPageSize)
	threads, total, err := s.threads.ListByTopic(ctx, topicID, normalizeSort(sort), page.offset(), page.Size)
	if err != nil {
		return nil, Pagination{}, WrapError(KindUnexpected, "list threads", err)
	}
	return NewThreadViews(threads), paginationFor(total, page), nil
}

// visibleThread loads a thread, folding both store errors and hidden
// or missing rows into the caller-facing taxonomy.
func (s *Service) visibleThread(ctx context.Context, threadID int64) (*models.Thread, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, WrapError(KindUnexpected, "load thread", err)
	}
	if thread == nil {
		return nil, NewError(KindNotFound, "thread not found")
	}
	return thread, nil
}

// placeAttachment relocates an upload into the topic's attachment
// directory, derived from the owning category and topic names.
func (s *Service) placeAttachment(ctx context.Context, topic *models.Topic, purpose string, actorID int64, up storage.Upload) (storage.Placement, error) {
	category := strconv.FormatInt(topic.CategoryID, 10)
	if topic.Category != nil {
		category = topic.Category.Name
	}
	placed, err := s.placer.Place(ctx, []string{category, topic.Title}, purpose, actorID, up)
	if err != nil {
		if errors.Is(err, storage.ErrAttachmentNotFound) {
			return storage.Placement{}, WrapError(KindValidation, "uploaded file is gone", err)
		}
		return storage.Placement{}, WrapError(KindStorage, "store attachment", err)
	}
	return placed, nil
}

// normalizeSort folds unknown sort keys onto the default ordering.
func normalizeSort(sort string) string {
	switch sort {
	case models.SortLikes, models.SortDislikes, models.SortComments, models.SortOldest:
		return sort
	default:
		return models.SortRecent
	}
}
