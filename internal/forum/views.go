package forum

import (
	"time"

	"github.com/eduflow/campus/internal/models"
)

// AttachmentView is the client-facing shape of an attachment.
type AttachmentView struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ThreadView is the client-facing shape of a thread; it is also the
// payload of thread lifecycle events.
type ThreadView struct {
	ID         int64           `json:"id"`
	TopicID    int64           `json:"topic_id"`
	AuthorID   int64           `json:"author_id"`
	Title      string          `json:"title,omitempty"`
	Body       string          `json:"body,omitempty"`
	Attachment *AttachmentView `json:"attachment,omitempty"`
	Likes      int             `json:"likes"`
	Dislikes   int             `json:"dislikes"`
	Comments   int             `json:"comments"`
	Flagged    bool            `json:"flagged"`
	Hidden     bool            `json:"hidden"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewThreadView maps a thread row to its client-facing shape
func NewThreadView(t *models.Thread) ThreadView {
	v := ThreadView{
		ID:        t.ID,
		TopicID:   t.TopicID,
		AuthorID:  t.AuthorID,
		Title:     t.Title.String,
		Body:      t.Body.String,
		Likes:     t.Likes,
		Dislikes:  t.Dislikes,
		Comments:  t.Comments,
		Flagged:   t.Flagged,
		Hidden:    t.Hidden,
		CreatedAt: t.CreatedAt,
	}
	if t.AttachmentURL.Valid {
		v.Attachment = &AttachmentView{
			URL:  t.AttachmentURL.String,
			Name: t.AttachmentName.String,
			Kind: t.AttachmentKind.String,
		}
	}
	return v
}

// NewThreadViews maps a page of thread rows
func NewThreadViews(threads []models.Thread) []ThreadView {
	views := make([]ThreadView, 0, len(threads))
	for i := range threads {
		views = append(views, NewThreadView(&threads[i]))
	}
	return views
}

// CommentView is the client-facing shape of a comment; it is also the
// payload of comment lifecycle events.
type CommentView struct {
	ID         int64           `json:"id"`
	ThreadID   int64           `json:"thread_id"`
	AuthorID   int64           `json:"author_id"`
	Body       string          `json:"body,omitempty"`
	Attachment *AttachmentView `json:"attachment,omitempty"`
	Likes      int             `json:"likes"`
	Dislikes   int             `json:"dislikes"`
	Flagged    bool            `json:"flagged"`
	Hidden     bool            `json:"hidden"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCommentView maps a comment row to its client-facing shape
func NewCommentView(c *models.Comment) CommentView {
	v := CommentView{
		ID:        c.ID,
		ThreadID:  c.ThreadID,
		AuthorID:  c.AuthorID,
		Body:      c.Body.String,
		Likes:     c.Likes,
		Dislikes:  c.Dislikes,
		Flagged:   c.Flagged,
		Hidden:    c.Hidden,
		CreatedAt: c.CreatedAt,
	}
	if c.AttachmentURL.Valid {
		v.Attachment = &AttachmentView{
			URL:  c.AttachmentURL.String,
			Name: c.AttachmentName.String,
			Kind: c.AttachmentKind.String,
		}
	}
	return v
}

// NewCommentViews maps a page of comment rows
func NewCommentViews(comments []models.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, NewCommentView(&comments[i]))
	}
	return views
}

// VoteCounts is the payload of vote events and the result of a cast.
type VoteCounts struct {
	ID       int64 `json:"id"`
	Likes    int   `json:"likes"`
	Dislikes int   `json:"dislikes"`
}

// VoteStatus is the caller's current vote on a target.
type VoteStatus struct {
	Voted bool   `json:"voted"`
	Type  string `json:"type,omitempty"`
}

// ReportedPayload is the payload of report events on the moderation
// channel.
type ReportedPayload struct {
	ID       int64  `json:"id"`
	ThreadID int64  `json:"thread_id,omitempty"`
	TopicID  int64  `json:"topic_id,omitempty"`
	Reason   string `json:"reason"`
}

// ReportView is the moderator-facing shape of a report.
type ReportView struct {
	ID          int64     `json:"id"`
	ReporterID  int64     `json:"reporter_id"`
	TargetKind  string    `json:"target_kind"`
	TargetID    int64     `json:"target_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReportView maps a report row to its moderator-facing shape
func NewReportView(r *models.Report) ReportView {
	return ReportView{
		ID:          r.ID,
		ReporterID:  r.ReporterID,
		TargetKind:  r.TargetKind,
		TargetID:    r.TargetID,
		Reason:      r.Reason,
		Description: r.Description.String,
		Resolved:    r.Resolved,
		CreatedAt:   r.CreatedAt,
	}
}

// CommentCountPayload bubbles a thread's comment count to topic
// listeners.
type CommentCountPayload struct {
	ID       int64 `json:"id"`
	Comments int   `json:"comments"`
}
