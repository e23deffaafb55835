package models

import "time"

// Vote target kinds.
const (
	TargetThread  = "thread"
	TargetComment = "comment"
)

// Vote types.
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// Vote is one ledger row per (voter, target). The unique index is the
// backstop for the toggle state machine; rows are created on first
// vote, updated in place on type change and deleted on toggle-off.
type Vote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_vote_user_target;column:id_utilizador"`
	TargetKind string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_vote_user_target;column:tipo_alvo"`
	TargetID   int64     `gorm:"not null;uniqueIndex:idx_vote_user_target;index:idx_vote_target;column:id_alvo"`
	Type       string    `gorm:"type:varchar(10);not null;column:tipo"`
	CreatedAt  time.Time `gorm:"not null;column:data_interacao"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "forum_interacao"
}

// ValidVoteType reports whether t is a recognised vote type.
func ValidVoteType(t string) bool {
	return t == VoteLike || t == VoteDislike
}
