package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/campus/internal/forum"
)

func (s *Server) handleCreateComment(c *gin.Context) {
	threadID, ok := idParam(c, "threadID")
	if !ok {
		return
	}
	upload, err := s.formUpload(c)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := s.svc.CreateComment(c.Request.Context(), callerIdentity(c), threadID, forum.CommentInput{
		Body:       c.PostForm("body"),
		Attachment: upload,
	})
	if err != nil {
		s.discardUpload(upload)
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, view)
}

func (s *Server) handleGetComment(c *gin.Context) {
	commentID, ok := idParam(c, "commentID")
	if !ok {
		return
	}
	view, err := s.svc.GetComment(c.Request.Context(), commentID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

type editCommentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleEditComment(c *gin.Context) {
	commentID, ok := idParam(c, "commentID")
	if !ok {
		return
	}
	var req editCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, forum.WrapError(forum.KindValidation, "invalid comment payload", err))
		return
	}

	view, err := s.svc.EditComment(c.Request.Context(), callerIdentity(c), commentID, req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

func (s *Server) handleHideComment(c *gin.Context) {
	commentID, ok := idParam(c, "commentID")
	if !ok {
		return
	}
	if err := s.svc.HideComment(c.Request.Context(), callerIdentity(c), commentID); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": commentID})
}

func (s *Server) handleListComments(c *gin.Context) {
	threadID, ok := idParam(c, "threadID")
	if !ok {
		return
	}
	views, pagination, err := s.svc.ListComments(c.Request.Context(), threadID, c.Query("sort"), pageParams(c))
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, views, pagination)
}
