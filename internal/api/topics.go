package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/campus/internal/forum"
)

type createTopicRequest struct {
	CategoryID int64  `json:"category_id" binding:"required"`
	AreaID     int64  `json:"area_id"`
	Title      string `json:"title" binding:"required"`
}

func (s *Server) handleCreateTopic(c *gin.Context) {
	var req createTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, forum.WrapError(forum.KindValidation, "invalid topic payload", err))
		return
	}

	view, err := s.svc.CreateTopic(c.Request.Context(), callerIdentity(c), forum.TopicInput{
		CategoryID: req.CategoryID,
		AreaID:     req.AreaID,
		Title:      req.Title,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, view)
}

func (s *Server) handleListTopics(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Query("category_id"), 10, 64)
	if err != nil {
		fail(c, forum.NewError(forum.KindValidation, "invalid category_id"))
		return
	}
	views, err := s.svc.ListTopics(c.Request.Context(), categoryID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) handleGetTopic(c *gin.Context) {
	topicID, ok := idParam(c, "topicID")
	if !ok {
		return
	}
	view, err := s.svc.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}
