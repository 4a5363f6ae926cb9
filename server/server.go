// Package server exposes the investigator over HTTP using gin.
//
// Routes:
//
//	GET  /health       liveness and version
//	POST /alerts       run an investigation for an alert
//	POST /investigate  alias of /alerts
//	GET  /tools        registered tools, name to description
//	POST /summarize    investigation plus incident summary
//	GET  /metrics      Prometheus exposition (when configured)
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/logging"
	"github.com/hupe1980/alertmesh/summarize"
)

// Version is reported by /health.
const Version = "1.0.0"

// Investigator is the orchestration surface the server depends on.
// *agent.Investigator satisfies it.
type Investigator interface {
	Handle(ctx context.Context, alert core.Alert) (*core.InvestigationReport, error)
	Tools() map[string]string
}

// Options configures a Server.
type Options struct {
	Summarizer      summarize.Summarizer
	Metrics         http.Handler // nil disables /metrics
	Logger          logging.Logger
	CORS            bool
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end of the investigator.
type Server struct {
	engine          *gin.Engine
	investigator    Investigator
	summarizer      summarize.Summarizer
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// SummarizeResponse is the body returned by POST /summarize.
type SummarizeResponse struct {
	Report  *core.InvestigationReport `json:"report"`
	Summary *summarize.Summary        `json:"summary"`
}

// New builds the gin engine and registers every route.
func New(inv Investigator, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:          logging.NoOpLogger{},
		CORS:            true,
		ShutdownTimeout: 10 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Summarizer == nil {
		opts.Summarizer = summarize.NewRuleSummarizer()
	}

	s := &Server{
		engine:          gin.New(),
		investigator:    inv,
		summarizer:      opts.Summarizer,
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	if opts.CORS {
		s.engine.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:   []string{"Content-Length"},
			MaxAge:          12 * time.Hour,
		}))
	}

	s.engine.GET("/health", s.health)
	s.engine.POST("/alerts", s.investigate)
	s.engine.POST("/investigate", s.investigate)
	s.engine.GET("/tools", s.tools)
	s.engine.POST("/summarize", s.summarize)

	if opts.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server.start", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server.shutdown", "addr", addr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.logger.Info(
			"server.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
}

func (s *Server) tools(c *gin.Context) {
	c.JSON(http.StatusOK, s.investigator.Tools())
}

func (s *Server) investigate(c *gin.Context) {
	report, ok := s.runInvestigation(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) summarize(c *gin.Context) {
	report, ok := s.runInvestigation(c)
	if !ok {
		return
	}

	summary, err := s.summarizer.Summarize(c.Request.Context(), report)
	if err != nil {
		s.logger.Error("server.summarize.error", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, SummarizeResponse{Report: report, Summary: summary})
}

// alertRequest requires both keys to be present. Empty values are valid and
// an empty type falls through to the default plan.
type alertRequest struct {
	Type    *string `json:"type" binding:"required"`
	Service *string `json:"service" binding:"required"`
}

// runInvestigation binds the alert and runs it, writing the error response
// itself when either step fails.
func (s *Server) runInvestigation(c *gin.Context) (*core.InvestigationReport, bool) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}

	alert := core.Alert{Type: *req.Type, Service: *req.Service}

	report, err := s.investigator.Handle(c.Request.Context(), alert)
	if err != nil {
		s.logger.Error("server.investigation.error", "type", alert.Type, "service", alert.Service, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return nil, false
	}

	return report, true
}
