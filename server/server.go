package server

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"

	"wsrooms/pkg/config"
	"wsrooms/pkg/health"
	"wsrooms/pkg/logger"
	"wsrooms/pkg/middleware"
	"wsrooms/pkg/pool"
	"wsrooms/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Server hosts the room registry behind an HTTP and WebSocket surface.
type Server struct {
	cfg      *config.ServerConfig
	registry *pool.Registry
	store    storage.Store
	monitor  *health.Monitor
	log      *logger.Logger

	httpServer *http.Server
	serverMu   sync.Mutex
	started    bool
	startedMu  sync.Mutex
}

// NewServer creates a server from configuration. The lifecycle-event
// store is optional: if it cannot be opened the server runs without
// persistence and reports the component as degraded.
func NewServer(cfg *config.ServerConfig) *Server {
	log := logger.Get()
	monitor := health.NewMonitor()

	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		log.ErrorErr("failed to open lifecycle-event store, continuing without persistence", err)
		monitor.SetComponentStatus("storage", health.StatusDegraded, err.Error())
		store = nil
	} else {
		monitor.SetComponentStatus("storage", health.StatusHealthy, cfg.Database.Type)
	}

	s := &Server{
		cfg:     cfg,
		store:   store,
		monitor: monitor,
		log:     log,
	}
	s.registry = pool.NewRegistry(cfg.Pool.EvictInterval(), pool.Hooks{
		OnAdd:    s.recordJoin,
		OnRemove: s.recordLeave,
	})
	return s
}

// recordJoin persists a joined event for a new pool entry.
func (s *Server) recordJoin(p *pool.Pool, e *pool.Entry) {
	s.log.Info("connection joined", "room", p.Name(), "conn_id", e.ID())
	if s.store == nil {
		return
	}
	if err := s.store.SaveEvent(&storage.SessionEvent{
		Room:   p.Name(),
		ConnID: e.ID(),
		Event:  storage.EventJoined,
	}); err != nil {
		s.log.ErrorErr("failed to record join event", err, "room", p.Name(), "conn_id", e.ID())
	}
}

// recordLeave persists a left event with the removal outcome.
func (s *Server) recordLeave(p *pool.Pool, e *pool.Entry, reason pool.Result) {
	s.log.Info("connection left", "room", p.Name(), "conn_id", e.ID(), "reason", reason.String())
	if s.store == nil {
		return
	}
	if err := s.store.SaveEvent(&storage.SessionEvent{
		Room:   p.Name(),
		ConnID: e.ID(),
		Event:  storage.EventLeft,
		Reason: reason.String(),
	}); err != nil {
		s.log.ErrorErr("failed to record leave event", err, "room", p.Name(), "conn_id", e.ID())
	}
}

// router builds the gin engine with all routes registered.
func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/healthz", s.handleHealth)

	router.GET("/ws/:room", s.handleRoomSocket)

	router.GET("/api/rooms/:room", s.handleRoomGet)
	router.GET("/api/rooms/:room/events", s.handleRoomEvents)
	router.POST("/api/rooms/:room/broadcast", s.handleRoomBroadcast)
	router.POST("/api/rooms/:room/send/:id", s.handleRoomSend)
	router.DELETE("/api/rooms/:room", s.handleRoomDispose)
	router.DELETE("/api/rooms/:room/connections/:id", s.handleConnectionRemove)

	return router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.startedMu.Lock()
	if s.started {
		s.startedMu.Unlock()
		s.log.Warn("server already started, skipping duplicate start")
		return nil
	}
	s.started = true
	s.startedMu.Unlock()

	router := s.router()

	s.log.Info("server starting", "address", s.cfg.Address, "tls", s.cfg.TLS.Enabled)

	if s.cfg.TLS.Enabled {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		srv := &http.Server{
			Addr:      s.cfg.Address,
			Handler:   router,
			TLSConfig: tlsConfig,
		}
		s.serverMu.Lock()
		s.httpServer = srv
		s.serverMu.Unlock()
		return srv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	}

	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: router,
	}
	s.serverMu.Lock()
	s.httpServer = srv
	s.serverMu.Unlock()
	return srv.ListenAndServe()
}

// Shutdown stops accepting new connections, disposes every room and
// closes the event store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("initiating graceful shutdown")

	s.startedMu.Lock()
	s.started = false
	s.startedMu.Unlock()

	s.serverMu.Lock()
	httpServer := s.httpServer
	s.serverMu.Unlock()

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.log.ErrorErr("error shutting down HTTP server", err)
			httpServer.Close()
		}
	}

	s.registry.DisposeAll()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorErr("error closing event store", err)
		}
	}

	s.log.Info("graceful shutdown complete")
	return nil
}
