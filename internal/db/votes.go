package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduflow/campus/internal/forum"
	"github.com/eduflow/campus/internal/models"
)

// VoteRepository provides vote ledger database operations
type VoteRepository struct {
	*Repository
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(repo *Repository) *VoteRepository {
	return &VoteRepository{Repository: repo}
}

// Status retrieves the caller's vote on a target, nil when none exists
func (r *VoteRepository) Status(ctx context.Context, voterID int64, targetKind string, targetID int64) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.WithContext(ctx).
		Where("id_utilizador = ? AND tipo_alvo = ? AND id_alvo = ?", voterID, targetKind, targetID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// InTx runs the vote state machine as one transactional unit. The
// ledger row is locked for the duration so concurrent casts by the same
// voter serialize; the unique index on (voter, target) is the backstop.
func (r *VoteRepository) InTx(ctx context.Context, fn func(tx forum.VoteTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&voteTx{tx: tx})
	})
}

// voteTx implements forum.VoteTx over a gorm transaction
type voteTx struct {
	tx *gorm.DB
}

func (t *voteTx) Get(voterID int64, targetKind string, targetID int64) (*models.Vote, error) {
	var vote models.Vote
	if err := t.tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_utilizador = ? AND tipo_alvo = ? AND id_alvo = ?", voterID, targetKind, targetID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (t *voteTx) Create(vote *models.Vote) error {
	return t.tx.Create(vote).Error
}

func (t *voteTx) UpdateType(voteID int64, voteType string) error {
	return t.tx.Model(&models.Vote{}).
		Where("id = ?", voteID).
		UpdateColumn("tipo", voteType).Error
}

func (t *voteTx) Delete(voteID int64) error {
	return t.tx.Delete(&models.Vote{}, voteID).Error
}

// ApplyCounters mutates both counters of a target in a single UPDATE,
// floored at zero, and returns the resulting values. A vote switch
// therefore never exposes an intermediate state where only one counter
// has moved.
func (t *voteTx) ApplyCounters(targetKind string, targetID int64, likesDelta, dislikesDelta int) (int, int, error) {
	table, pk := targetTable(targetKind)
	var out struct {
		Likes    int
		Dislikes int
	}
	err := t.tx.Raw(fmt.Sprintf(
		`UPDATE %s
		 SET likes = GREATEST(likes + ?, 0), dislikes = GREATEST(dislikes + ?, 0)
		 WHERE %s = ?
		 RETURNING likes, dislikes`, table, pk),
		likesDelta, dislikesDelta, targetID,
	).Scan(&out).Error
	if err != nil {
		return 0, 0, err
	}
	return out.Likes, out.Dislikes, nil
}
