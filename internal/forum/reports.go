package forum

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
)

// ReportInput carries a report's reason and optional free-text detail.
type ReportInput struct {
	Reason      string
	Description string
}

// Report files a moderation report against a thread or comment. A
// reporter may file at most one report per target; the second attempt
// is a conflict. Filing flags the target and alerts moderators on the
// moderation channel, and through the out-of-band notifier when one is
// configured.
func (s *Service) Report(ctx context.Context, actor Identity, targetKind string, targetID int64, input ReportInput) error {
	input.Reason = strings.TrimSpace(input.Reason)
	if input.Reason == "" {
		return NewError(KindValidation, "report needs a reason")
	}

	threadID, topicID, err := s.resolveTarget(ctx, targetKind, targetID)
	if err != nil {
		return err
	}

	report := &models.Report{
		ReporterID:  actor.UserID,
		TargetKind:  targetKind,
		TargetID:    targetID,
		Reason:      input.Reason,
		Description: nullString(strings.TrimSpace(input.Description)),
	}
	created, err := s.reports.Create(ctx, report)
	if err != nil {
		return WrapError(KindUnexpected, "create report", err)
	}
	if !created {
		return NewError(KindConflict, "target already reported by this user")
	}

	event := realtime.EventThreadReported
	if targetKind == models.TargetComment {
		event = realtime.EventCommentReported
	}
	payload := ReportedPayload{ID: targetID, ThreadID: threadID, TopicID: topicID, Reason: input.Reason}
	s.pub.Publish(realtime.ChannelModeration, event, payload)
	if s.notifier != nil {
		s.notifier.NotifyModerators(ctx, event, payload)
	}
	s.logger.Info("target reported",
		zap.String("target_kind", targetKind),
		zap.Int64("target_id", targetID),
		zap.Int64("reporter_id", actor.UserID))
	return nil
}

// ListReports returns a target's reports, newest first. Moderators
// only; the target itself may already be hidden, reported content
// usually is.
func (s *Service) ListReports(ctx context.Context, actor Identity, targetKind string, targetID int64) ([]ReportView, error) {
	if !actor.IsModerator() {
		return nil, NewError(KindForbidden, "only a moderator may list reports")
	}
	if targetKind != models.TargetThread && targetKind != models.TargetComment {
		return nil, NewError(KindValidation, "unknown report target kind")
	}

	reports, err := s.reports.ListByTarget(ctx, targetKind, targetID)
	if err != nil {
		return nil, WrapError(KindUnexpected, "list reports", err)
	}
	views := make([]ReportView, 0, len(reports))
	for i := range reports {
		views = append(views, NewReportView(&reports[i]))
	}
	return views, nil
}

// ResolveReport marks one report handled. Moderators only; a report
// already resolved, like one that never existed, reads as missing.
func (s *Service) ResolveReport(ctx context.Context, actor Identity, reportID int64) error {
	if !actor.IsModerator() {
		return NewError(KindForbidden, "only a moderator may resolve a report")
	}

	resolved, err := s.reports.Resolve(ctx, reportID)
	if err != nil {
		return WrapError(KindUnexpected, "resolve report", err)
	}
	if !resolved {
		return NewError(KindNotFound, "open report not found")
	}
	s.logger.Info("report resolved",
		zap.Int64("report_id", reportID),
		zap.Int64("moderator_id", actor.UserID))
	return nil
}
