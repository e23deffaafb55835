package forum

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
	"github.com/eduflow/campus/internal/storage"
)

// CommentInput carries the caller-supplied fields of a new or edited
// comment. Attachment is nil when the request carried no file.
type CommentInput struct {
	Body       string
	Attachment *storage.Upload
}

// CreateComment adds a comment to a thread and bumps the thread's
// comment counter in the same transaction. A comment must carry a body
// or an attachment.
func (s *Service) CreateComment(ctx context.Context, actor Identity, threadID int64, input CommentInput) (CommentView, error) {
	input.Body = strings.TrimSpace(input.Body)
	if input.Body == "" && input.Attachment == nil {
		return CommentView{}, NewError(KindValidation, "comment needs a body or an attachment")
	}

	thread, err := s.visibleThread(ctx, threadID)
	if err != nil {
		return CommentView{}, err
	}

	comment := &models.Comment{
		ThreadID: threadID,
		AuthorID: actor.UserID,
		Body:     nullString(input.Body),
	}
	if input.Attachment != nil {
		topic, err := s.topics.GetByID(ctx, thread.TopicID)
		if err != nil {
			return CommentView{}, WrapError(KindUnexpected, "load topic", err)
		}
		if topic == nil {
			return CommentView{}, NewError(KindNotFound, "topic not found")
		}
		placed, err := s.placeAttachment(ctx, topic, "comment", actor.UserID, *input.Attachment)
		if err != nil {
			return CommentView{}, err
		}
		comment.AttachmentURL = nullString(placed.URL)
		comment.AttachmentName = nullString(placed.OriginalName)
		comment.AttachmentKind = nullString(placed.MediaKind)
	}

	count, err := s.comments.Create(ctx, comment)
	if err != nil {
		return CommentView{}, WrapError(KindUnexpected, "create comment", err)
	}

	view := NewCommentView(comment)
	s.pub.Publish(realtime.ThreadChannel(threadID), realtime.EventCommentCreated, view)
	s.pub.Publish(realtime.TopicChannel(thread.TopicID), realtime.EventThreadUpdated,
		CommentCountPayload{ID: threadID, Comments: count})
	s.logger.Info("comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("thread_id", threadID),
		zap.Int64("author_id", actor.UserID))
	return view, nil
}

// GetComment returns one visible comment.
func (s *Service) GetComment(ctx context.Context, commentID int64) (CommentView, error) {
	comment, err := s.visibleComment(ctx, commentID)
	if err != nil {
		return CommentView{}, err
	}
	return NewCommentView(comment), nil
}

// EditComment rewrites a comment's body. Only the author or a
// moderator may edit, and the edit may not strip the comment of all
// content unless an attachment remains.
func (s *Service) EditComment(ctx context.Context, actor Identity, commentID int64, body string) (CommentView, error) {
	comment, err := s.visibleComment(ctx, commentID)
	if err != nil {
		return CommentView{}, err
	}
	if !canModify(actor, comment.AuthorID) {
		return CommentView{}, NewError(KindForbidden, "only the author or a moderator may edit a comment")
	}

	body = strings.TrimSpace(body)
	if body == "" && !comment.AttachmentURL.Valid {
		return CommentView{}, NewError(KindValidation, "comment needs a body or an attachment")
	}

	if err := s.comments.UpdateContent(ctx, commentID, nullString(body)); err != nil {
		return CommentView{}, WrapError(KindUnexpected, "update comment", err)
	}
	comment.Body = nullString(body)

	view := NewCommentView(comment)
	s.pub.Publish(realtime.ThreadChannel(comment.ThreadID), realtime.EventCommentUpdated, view)
	return view, nil
}

// HideComment soft-hides a comment and decrements the parent thread's
// comment counter, which never goes below zero. Hiding an already
// hidden comment reads as missing here.
func (s *Service) HideComment(ctx context.Context, actor Identity, commentID int64) error {
	comment, err := s.visibleComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.AuthorID) {
		return NewError(KindForbidden, "only the author or a moderator may hide a comment")
	}

	hidden, count, err := s.comments.Hide(ctx, commentID, comment.ThreadID)
	if err != nil {
		return WrapError(KindUnexpected, "hide comment", err)
	}
	if !hidden {
		return nil
	}

	s.pub.Publish(realtime.ThreadChannel(comment.ThreadID), realtime.EventCommentHidden,
		map[string]int64{"id": commentID})
	if thread, err := s.threads.GetByID(ctx, comment.ThreadID); err == nil && thread != nil {
		s.pub.Publish(realtime.TopicChannel(thread.TopicID), realtime.EventThreadUpdated,
			CommentCountPayload{ID: comment.ThreadID, Comments: count})
	}
	s.logger.Info("comment hidden",
		zap.Int64("comment_id", commentID),
		zap.Int64("actor_id", actor.UserID))
	return nil
}

// ListComments returns one page of a thread's visible comments.
func (s *Service) ListComments(ctx context.Context, threadID int64, sort string, page Page) ([]CommentView, Pagination, error) {
	if _, err := s.visibleThread(ctx, threadID); err != nil {
		return nil, Pagination{}, err
	}

	page = page.normalize(defaultPageSize)
	comments, total, err := s.comments.ListByThread(ctx, threadID, normalizeSort(sort), page.offset(), page.Size)
	if err != nil {
		return nil, Pagination{}, WrapError(KindUnexpected, "list comments", err)
	}
	return NewCommentViews(comments), paginationFor(total, page), nil
}

func (s *Service) visibleComment(ctx context.Context, commentID int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, WrapError(KindUnexpected, "load comment", err)
	}
	if comment == nil {
		return nil, NewError(KindNotFound, "comment not found")
	}
	return comment, nil
}
