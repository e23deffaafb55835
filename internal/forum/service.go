package forum

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/storage"
	"github.com/eduflow/campus/pkg/logging"
)

// RoleModerator is the role id the platform assigns to moderators.
const RoleModerator = 1

// Identity is the authenticated caller, resolved by the platform's
// identity layer outside this service.
type Identity struct {
	UserID int64
	RoleID int64
}

// IsModerator reports whether the identity carries the moderator role.
func (i Identity) IsModerator() bool {
	return i.RoleID == RoleModerator
}

// TopicStore persists discussion topics.
type TopicStore interface {
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Topic, error)
}

// ThreadStore persists threads. GetByID treats hidden threads as
// missing.
type ThreadStore interface {
	GetByID(ctx context.Context, id int64) (*models.Thread, error)
	Create(ctx context.Context, thread *models.Thread) error
	UpdateContent(ctx context.Context, id int64, title, body sql.NullString) error
	Hide(ctx context.Context, id int64) (bool, error)
	ListByTopic(ctx context.Context, topicID int64, sort string, offset, limit int) ([]models.Thread, int64, error)
}

// CommentStore persists comments. Create and Hide also maintain the
// parent thread's comment counter atomically.
type CommentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) (int, error)
	UpdateContent(ctx context.Context, id int64, body sql.NullString) error
	Hide(ctx context.Context, id int64, threadID int64) (bool, int, error)
	ListByThread(ctx context.Context, threadID int64, sort string, offset, limit int) ([]models.Comment, int64, error)
}

// VoteTx is the vote ledger inside one transactional unit.
type VoteTx interface {
	Get(voterID int64, targetKind string, targetID int64) (*models.Vote, error)
	Create(vote *models.Vote) error
	UpdateType(voteID int64, voteType string) error
	Delete(voteID int64) error
	ApplyCounters(targetKind string, targetID int64, likesDelta, dislikesDelta int) (likes, dislikes int, err error)
}

// VoteStore persists the vote ledger.
type VoteStore interface {
	Status(ctx context.Context, voterID int64, targetKind string, targetID int64) (*models.Vote, error)
	InTx(ctx context.Context, fn func(tx VoteTx) error) error
}

// ReportStore persists the moderation ledger. Create returns false when
// the reporter already reported the target; Resolve returns false when
// no open report matched.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) (bool, error)
	ListByTarget(ctx context.Context, targetKind string, targetID int64) ([]models.Report, error)
	Resolve(ctx context.Context, reportID int64) (bool, error)
}

// AttachmentPlacer relocates uploads into the attachment tree.
type AttachmentPlacer interface {
	Place(ctx context.Context, owner []string, purpose string, actorID int64, up storage.Upload) (storage.Placement, error)
}

// Publisher fans events out to realtime subscribers. Implementations
// must never block or fail the calling operation.
type Publisher interface {
	Publish(channel, event string, payload interface{})
}

// ModeratorNotifier is the out-of-band moderation alerting collaborator
// (email, push), orthogonal to the realtime moderation channel.
type ModeratorNotifier interface {
	NotifyModerators(ctx context.Context, event string, payload interface{})
}

// Service is the discussion facade: the only component that talks to
// identity, parent-existence checks and the realtime publisher. All
// invariants live in the stores and ledgers it orchestrates.
type Service struct {
	topics   TopicStore
	threads  ThreadStore
	comments CommentStore
	votes    VoteStore
	reports  ReportStore
	placer   AttachmentPlacer
	pub      Publisher
	notifier ModeratorNotifier
	logger   *zap.Logger
}

// NewService creates the discussion facade. notifier may be nil when no
// out-of-band moderation alerting is configured.
func NewService(
	topics TopicStore,
	threads ThreadStore,
	comments CommentStore,
	votes VoteStore,
	reports ReportStore,
	placer AttachmentPlacer,
	pub Publisher,
	notifier ModeratorNotifier,
) *Service {
	return &Service{
		topics:   topics,
		threads:  threads,
		comments: comments,
		votes:    votes,
		reports:  reports,
		placer:   placer,
		pub:      pub,
		notifier: notifier,
		logger:   logging.WithComponent("forum"),
	}
}

// Page is an offset-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination describes a returned page.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

func paginationFor(total int64, page Page) Pagination {
	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page.Number,
		PerPage:     page.Size,
	}
}

// canModify applies the author-or-moderator rule shared by edit and
// hide operations.
func canModify(actor Identity, authorID int64) bool {
	return actor.UserID == authorID || actor.IsModerator()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
