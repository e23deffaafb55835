package forum

import (
	"context"

	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
)

// CastVote records a like or dislike on a thread or comment. Casting
// the same vote again removes it, casting the other kind switches it;
// the target's counters move with the ledger in one transaction and
// never go below zero. The returned counts are the ones produced by
// the cast and are the same counts fanned out to thread subscribers.
func (s *Service) CastVote(ctx context.Context, actor Identity, targetKind string, targetID int64, voteType string) (VoteCounts, error) {
	if !models.ValidVoteType(voteType) {
		return VoteCounts{}, NewError(KindValidation, "vote type must be like or dislike")
	}

	threadID, _, err := s.resolveTarget(ctx, targetKind, targetID)
	if err != nil {
		return VoteCounts{}, err
	}

	var likes, dislikes int
	err = s.votes.InTx(ctx, func(tx VoteTx) error {
		existing, err := tx.Get(actor.UserID, targetKind, targetID)
		if err != nil {
			return err
		}

		var likesDelta, dislikesDelta int
		switch {
		case existing == nil:
			if err := tx.Create(&models.Vote{
				UserID:     actor.UserID,
				TargetKind: targetKind,
				TargetID:   targetID,
				Type:       voteType,
			}); err != nil {
				return err
			}
			likesDelta, dislikesDelta = voteDelta(voteType, 1)
		case existing.Type == voteType:
			if err := tx.Delete(existing.ID); err != nil {
				return err
			}
			likesDelta, dislikesDelta = voteDelta(voteType, -1)
		default:
			if err := tx.UpdateType(existing.ID, voteType); err != nil {
				return err
			}
			likesDelta, dislikesDelta = switchDelta(existing.Type, voteType)
		}

		likes, dislikes, err = tx.ApplyCounters(targetKind, targetID, likesDelta, dislikesDelta)
		return err
	})
	if err != nil {
		return VoteCounts{}, WrapError(KindUnexpected, "cast vote", err)
	}

	counts := VoteCounts{ID: targetID, Likes: likes, Dislikes: dislikes}
	event := realtime.EventThreadVoted
	if targetKind == models.TargetComment {
		event = realtime.EventCommentVoted
	}
	s.pub.Publish(realtime.ThreadChannel(threadID), event, counts)
	s.logger.Debug("vote cast",
		zap.String("target_kind", targetKind),
		zap.Int64("target_id", targetID),
		zap.Int64("voter_id", actor.UserID))
	return counts, nil
}

// VoteStatus reports the caller's current vote on a target.
func (s *Service) VoteStatus(ctx context.Context, actor Identity, targetKind string, targetID int64) (VoteStatus, error) {
	if targetKind != models.TargetThread && targetKind != models.TargetComment {
		return VoteStatus{}, NewError(KindValidation, "unknown vote target kind")
	}
	vote, err := s.votes.Status(ctx, actor.UserID, targetKind, targetID)
	if err != nil {
		return VoteStatus{}, WrapError(KindUnexpected, "load vote status", err)
	}
	if vote == nil {
		return VoteStatus{}, nil
	}
	return VoteStatus{Voted: true, Type: vote.Type}, nil
}

// resolveTarget checks the vote or report target exists and returns
// the ids of the owning thread and topic, the thread naming the channel
// that carries the resulting events.
func (s *Service) resolveTarget(ctx context.Context, targetKind string, targetID int64) (threadID, topicID int64, err error) {
	switch targetKind {
	case models.TargetThread:
		thread, err := s.visibleThread(ctx, targetID)
		if err != nil {
			return 0, 0, err
		}
		return thread.ID, thread.TopicID, nil
	case models.TargetComment:
		comment, err := s.visibleComment(ctx, targetID)
		if err != nil {
			return 0, 0, err
		}
		thread, err := s.visibleThread(ctx, comment.ThreadID)
		if err != nil {
			return 0, 0, err
		}
		return thread.ID, thread.TopicID, nil
	default:
		return 0, 0, NewError(KindValidation, "unknown vote target kind")
	}
}

// voteDelta maps one vote of the given type to counter deltas.
func voteDelta(voteType string, sign int) (likes, dislikes int) {
	if voteType == models.VoteLike {
		return sign, 0
	}
	return 0, sign
}

// switchDelta maps a vote switch to the pair of counter deltas applied
// as a single update.
func switchDelta(from, to string) (likes, dislikes int) {
	fl, fd := voteDelta(from, -1)
	tl, td := voteDelta(to, 1)
	return fl + tl, fd + td
}
