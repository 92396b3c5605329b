package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/usecase"
)

// Ingestor is the pipeline capability the HTTP surface depends on.
type Ingestor interface {
	Ingest(ctx context.Context, req domain.IngestRequest) (domain.StructuredSummary, *usecase.Failure)
}

// Server is a thin I/O wrapper: it binds submissions and renders results.
// All decisions stay in the pipeline.
type Server struct {
	engine   *gin.Engine
	pipeline Ingestor
	logger   *slog.Logger
}

type submitRequest struct {
	URL      string `json:"url" form:"url" binding:"required"`
	Type     string `json:"type" form:"type"`
	Reminder string `json:"reminder" form:"reminder"`
}

// New builds the router.
func New(pipeline Ingestor, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, pipeline: pipeline, logger: logger}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/submit", s.handleSubmit)

	return s
}

// Run starts serving on addr and blocks.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	summary, failure := s.pipeline.Ingest(c.Request.Context(), domain.IngestRequest{
		URL:      req.URL,
		TypeHint: domain.ResourceType(req.Type),
		Reminder: domain.ReminderInterval(req.Reminder),
	})
	if failure != nil {
		s.logger.Warn("ingestion failed",
			"url", req.URL, "stage", failure.Stage, "kind", failure.Kind, "message", failure.Message)
		c.JSON(statusFor(failure.Kind), gin.H{
			"stage":   failure.Stage,
			"kind":    failure.Kind,
			"message": failure.Message,
		})
		return
	}

	s.logger.Info("resource saved", "url", req.URL, "type", summary.ResourceType, "title", summary.Title)
	c.JSON(http.StatusOK, gin.H{
		"status": "saved",
		"title":  summary.Title,
		"type":   summary.ResourceType,
	})
}

func statusFor(kind string) int {
	switch kind {
	case domain.KindUnsupportedURL:
		return http.StatusBadRequest
	case domain.KindExtraction, domain.KindNoTranscript, domain.KindParse:
		return http.StatusUnprocessableEntity
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindBackendUnavailable, domain.KindBackendFatal, domain.KindPersistence:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
