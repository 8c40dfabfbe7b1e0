// Package server exposes the relying-party protocol and the operator API over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/buildtall-systems/bankid-mock/internal/db"
	"github.com/buildtall-systems/bankid-mock/internal/notify"
	"github.com/buildtall-systems/bankid-mock/internal/rp"
)

// JournalReader exposes the event journal to operators.
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]db.Event, error)
	ForOrder(ctx context.Context, orderRef string) ([]db.Event, error)
}

// Options configures the HTTP server.
type Options struct {
	Listen     string
	AdminAllow []string
	Verbose    bool
	// KeepAlive is the SSE heartbeat period.
	KeepAlive time.Duration
}

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	svc        *rp.Service
	bus        *notify.Bus
	journal    JournalReader
	opts       Options
}

// New builds the router and HTTP server. journal may be nil.
func New(opts Options, svc *rp.Service, bus *notify.Bus, journal JournalReader) *Server {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = 15 * time.Second
	}

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		svc:     svc,
		bus:     bus,
		journal: journal,
		opts:    opts,
	}

	s.engine.Use(gin.Recovery(), tracing())
	if opts.Verbose {
		s.engine.Use(gin.Logger())
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	protocol := s.engine.Group("/rp/v6.0")
	{
		protocol.POST("/auth", s.handleAuth)
		protocol.POST("/collect", s.handleCollect)
	}

	admin := s.engine.Group("/admin/api", s.adminOnly())
	{
		admin.GET("/origins", s.handleOrigins)
		admin.GET("/origins/:ip/orders", s.handleOrdersByOrigin)
		admin.GET("/aliases", s.handleAliases)
		admin.GET("/aliases/:alias/orders", s.handleOrdersByAlias)
		admin.GET("/presets", s.handlePresets)
		admin.GET("/identity", s.handleIdentity)
		admin.POST("/orders/:ref/complete", s.handleComplete)
		admin.POST("/orders/:ref/quick-complete", s.handleQuickComplete)
		admin.POST("/orders/:ref/status", s.handleSubStatus)
		admin.GET("/orders/:ref/journal", s.handleOrderJournal)
		admin.GET("/journal", s.handleJournal)
		admin.GET("/events/stream", s.handleEventStream)
		admin.POST("/command", s.handleCommand)
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens and serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	log.Printf("listening on http://%s", s.opts.Listen)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
