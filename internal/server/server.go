// Package server exposes a poster session over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"postergen/internal/logging"
	"postergen/internal/session"
	"postergen/internal/usage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options configures the HTTP server.
type Options struct {
	// Mode is the gin mode: debug, release or test.
	Mode string

	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64

	// Logger receives one line per request. Nil disables request logging.
	Logger *zap.Logger

	// Usage backs GET /api/usage. Nil serves empty stats.
	Usage *usage.Tracker
}

// Server serves one session.
type Server struct {
	session   *session.Session
	usage     *usage.Tracker
	maxUpload int64
	engine    *gin.Engine
}

// New builds the router for a session.
func New(s *session.Session, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Usage == nil {
		opts.Usage = usage.NewTracker()
	}

	srv := &Server{
		session:   s,
		usage:     opts.Usage,
		maxUpload: opts.MaxUploadBytes,
	}

	r := gin.New()
	r.MaxMultipartMemory = opts.MaxUploadBytes
	r.Use(gin.Recovery(), requestLogger(opts.Logger))
	srv.routes(r)
	srv.engine = r
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/status", s.getStatus)
	api.GET("/usage", s.getUsage)
	api.POST("/usage/reset", s.resetUsage)

	f := api.Group("/form")
	f.GET("", s.getForm)
	f.PATCH("", s.patchForm)
	f.POST("/reset", s.resetForm)
	f.POST("/topics/toggle", s.toggleTopic)
	f.PUT("/format", s.setFormat)

	f.POST("/speakers", s.addSpeaker)
	f.PATCH("/speakers/:id", s.updateSpeaker)
	f.DELETE("/speakers/:id", s.removeSpeaker)
	f.PUT("/speakers/:id/image", s.setSpeakerImage)
	f.DELETE("/speakers/:id/image", s.clearSpeakerImage)

	f.POST("/agenda", s.addAgendaItem)
	f.PATCH("/agenda/:id", s.updateAgendaItem)
	f.DELETE("/agenda/:id", s.removeAgendaItem)

	f.PUT("/logos/:slot", s.setLogo)
	f.DELETE("/logos/:slot", s.clearLogo)
	f.PUT("/qr", s.setQRCode)
	f.DELETE("/qr", s.clearQRCode)
	f.PUT("/upload", s.setUpload)

	api.POST("/extract", s.extract)

	api.GET("/templates", s.listTemplates)
	api.POST("/templates/:id/select", s.selectTemplate)
	api.PUT("/background", s.setBackground)
	api.DELETE("/background", s.clearBackground)

	api.GET("/prompt", s.getPrompt)
	api.POST("/generate", s.generate)
	api.GET("/poster", s.getPoster)
	api.GET("/history", s.listHistory)
	api.GET("/history/:id", s.getHistoryItem)
	api.POST("/history/:id/open", s.openHistoryItem)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readHeaderTimeout, shutdownTimeout time.Duration) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Server("listening on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logging.Server("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	return nil
}
