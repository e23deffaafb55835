package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/campus/internal/forum"
)

// Thread create and edit requests arrive as multipart forms so they
// can carry an attachment alongside the text fields.

func (s *Server) handleCreateThread(c *gin.Context) {
	topicID, ok := idParam(c, "topicID")
	if !ok {
		return
	}
	upload, err := s.formUpload(c)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := s.svc.CreateThread(c.Request.Context(), callerIdentity(c), topicID, forum.ThreadInput{
		Title:      c.PostForm("title"),
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

func (s *Server) handleGetThread(c *gin.Context) {
	threadID, ok := idParam(c, "threadID")
	if !ok {
		return
	}
	view, err := s.svc.GetThread(c.Request.Context(), threadID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

type editThreadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *Server) handleEditThread(c *gin.Context) {
	threadID, ok := idParam(c, "threadID")
	if !ok {
		return
	}
	var req editThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, forum.WrapError(forum.KindValidation, "invalid thread payload", err))
		return
	}

	view, err := s.svc.EditThread(c.Request.Context(), callerIdentity(c), threadID, req.Title, req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

func (s *Server) handleHideThread(c *gin.Context) {
	threadID, ok := idParam(c, "threadID")
	if !ok {
		return
	}
	if err := s.svc.HideThread(c.Request.Context(), callerIdentity(c), threadID); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": threadID})
}

func (s *Server) handleListThreads(c *gin.Context) {
	topicID, ok := idParam(c, "topicID")
	if !ok {
		return
	}
	views, pagination, err := s.svc.ListThreads(c.Request.Context(), topicID, c.Query("sort"), pageParams(c))
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, views, pagination)
}
