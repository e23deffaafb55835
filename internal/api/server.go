package api

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/forum"
	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
	"github.com/eduflow/campus/internal/storage"
	"github.com/eduflow/campus/pkg/logging"
)

// uploadFormField is the multipart field attachments arrive under.
const uploadFormField = "file"

// Server exposes the discussion service over HTTP and websockets.
type Server struct {
	svc      *forum.Service
	hub      *realtime.Hub
	resolver IdentityResolver
	health   func() error
	logger   *zap.Logger
}

// NewServer wires the HTTP surface. health reports database liveness
// for the health endpoint; it may be nil.
func NewServer(svc *forum.Service, hub *realtime.Hub, resolver IdentityResolver, health func() error) *Server {
	if resolver == nil {
		resolver = HeaderIdentity{}
	}
	return &Server{
		svc:      svc,
		hub:      hub,
		resolver: resolver,
		health:   health,
		logger:   logging.WithComponent("api"),
	}
}

// Router builds the gin engine with all routes registered. The upload
// tree is served statically at uploadBase so attachment URLs resolve.
func (s *Server) Router(uploadBase, uploadRoot string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID())

	router.GET("/health", s.handleHealth)
	router.Static("/"+strings.Trim(uploadBase, "/"), uploadRoot)
	router.GET("/ws", s.handleWebsocket)

	authed := router.Group("/api", Authenticated(s.resolver))
	{
		authed.POST("/topics", s.handleCreateTopic)
		authed.GET("/topics", s.handleListTopics)
		authed.GET("/topics/:topicID", s.handleGetTopic)
		authed.GET("/topics/:topicID/threads", s.handleListThreads)
		authed.POST("/topics/:topicID/threads", s.handleCreateThread)

		authed.GET("/threads/:threadID", s.handleGetThread)
		authed.PUT("/threads/:threadID", s.handleEditThread)
		authed.DELETE("/threads/:threadID", s.handleHideThread)
		authed.GET("/threads/:threadID/comments", s.handleListComments)
		authed.POST("/threads/:threadID/comments", s.handleCreateComment)
		authed.POST("/threads/:threadID/vote", s.voteHandler(models.TargetThread, "threadID"))
		authed.GET("/threads/:threadID/vote", s.voteStatusHandler(models.TargetThread, "threadID"))
		authed.POST("/threads/:threadID/report", s.reportHandler(models.TargetThread, "threadID"))
		authed.GET("/threads/:threadID/reports", s.reportsListHandler(models.TargetThread, "threadID"))

		authed.GET("/comments/:commentID", s.handleGetComment)
		authed.PUT("/comments/:commentID", s.handleEditComment)
		authed.DELETE("/comments/:commentID", s.handleHideComment)
		authed.POST("/comments/:commentID/vote", s.voteHandler(models.TargetComment, "commentID"))
		authed.GET("/comments/:commentID/vote", s.voteStatusHandler(models.TargetComment, "commentID"))
		authed.POST("/comments/:commentID/report", s.reportHandler(models.TargetComment, "commentID"))
		authed.GET("/comments/:commentID/reports", s.reportsListHandler(models.TargetComment, "commentID"))

		authed.PUT("/reports/:reportID/resolve", s.handleResolveReport)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil {
		if err := s.health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "DOWN",
				"service": "campus-forum",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "campus-forum",
	})
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, forum.NewError(forum.KindValidation, "invalid "+name))
		return 0, false
	}
	return id, true
}

// pageParams reads page and limit query parameters.
func pageParams(c *gin.Context) forum.Page {
	number, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return forum.Page{Number: number, Size: size}
}

// formUpload parks an optional multipart attachment at a temporary
// path for the placer to relocate. Returns nil when the request
// carried no file.
func (s *Server) formUpload(c *gin.Context) (*storage.Upload, error) {
	file, err := c.FormFile(uploadFormField)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, forum.WrapError(forum.KindValidation, "read uploaded file", err)
	}
	return s.parkUpload(c, file)
}

func (s *Server) parkUpload(c *gin.Context, file *multipart.FileHeader) (*storage.Upload, error) {
	tempPath := filepath.Join(os.TempDir(), "campus-upload-"+uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		return nil, forum.WrapError(forum.KindStorage, "park uploaded file", err)
	}
	return &storage.Upload{
		TempPath:     tempPath,
		OriginalName: file.Filename,
		ContentType:  file.Header.Get("Content-Type"),
	}, nil
}

// discardUpload removes a parked temp file after a failed operation.
func (s *Server) discardUpload(up *storage.Upload) {
	if up == nil {
		return
	}
	if err := os.Remove(up.TempPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to discard parked upload",
			zap.String("path", up.TempPath),
			zap.Error(err))
	}
}
