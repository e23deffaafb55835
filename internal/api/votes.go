package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/campus/internal/forum"
)

type voteRequest struct {
	Type string `json:"type" binding:"required"`
}

// voteHandler casts a vote on the target kind whose id lives in the
// named path parameter.
func (s *Server) voteHandler(targetKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := idParam(c, param)
		if !ok {
			return
		}
		var req voteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, forum.WrapError(forum.KindValidation, "invalid vote payload", err))
			return
		}

		counts, err := s.svc.CastVote(c.Request.Context(), callerIdentity(c), targetKind, targetID, req.Type)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, counts)
	}
}

// voteStatusHandler reports the caller's current vote on the target.
func (s *Server) voteStatusHandler(targetKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := idParam(c, param)
		if !ok {
			return
		}
		status, err := s.svc.VoteStatus(c.Request.Context(), callerIdentity(c), targetKind, targetID)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, status)
	}
}

type reportRequest struct {
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
}

// reportHandler files a moderation report against the target.
func (s *Server) reportHandler(targetKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := idParam(c, param)
		if !ok {
			return
		}
		var req reportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, forum.WrapError(forum.KindValidation, "invalid report payload", err))
			return
		}

		err := s.svc.Report(c.Request.Context(), callerIdentity(c), targetKind, targetID, forum.ReportInput{
			Reason:      req.Reason,
			Description: req.Description,
		})
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, gin.H{"reported": true})
	}
}

// reportsListHandler returns the target's reports to moderators.
func (s *Server) reportsListHandler(targetKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := idParam(c, param)
		if !ok {
			return
		}
		views, err := s.svc.ListReports(c.Request.Context(), callerIdentity(c), targetKind, targetID)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, views)
	}
}

func (s *Server) handleResolveReport(c *gin.Context) {
	reportID, ok := idParam(c, "reportID")
	if !ok {
		return
	}
	if err := s.svc.ResolveReport(c.Request.Context(), callerIdentity(c), reportID); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": reportID, "resolved": true})
}
