// pkg/network/server.go
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/health"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/metrics"
	"github.com/opd-ai/go-orrery/pkg/render"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

// ErrServerStopped is returned for commands submitted to a server that is
// not running.
var ErrServerStopped = errors.New("server is not running")

// memoryLimitMB is the heap size above which the server reports unready.
const memoryLimitMB = 512

// Server owns a simulation and drives it from a single loop goroutine.
// HTTP and WebSocket handlers only read published snapshots and queue
// commands for the loop.
type Server struct {
	sim        *engine.Simulation
	renderer   entity.Renderer
	cfg        config.ServerConfig
	updateRate time.Duration
	// Frames between snapshots pushed to stream clients.
	framesPerSnapshot uint64

	logger    *logging.Logger
	metrics   *metrics.Collector
	validator *validation.CommandValidator
	health    *health.HealthChecker

	descriptions map[string]entity.Description
	commands     chan commandRequest
	snapshot     atomic.Pointer[engine.Snapshot]
	lastFrame    atomic.Int64

	router     *gin.Engine
	upgrader   websocket.Upgrader
	httpServer *http.Server

	mu       sync.RWMutex
	listener net.Listener

	clients      map[uint64]*streamClient
	clientsLock  sync.RWMutex
	nextClientID atomic.Uint64

	running     atomic.Bool
	done        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	unsubscribe func()
}

type commandRequest struct {
	cmd   engine.Command
	reply chan error
}

// NewServer wraps sim with the settings in cfg. Metrics are optional.
func NewServer(sim *engine.Simulation, cfg *config.SystemConfig, collector *metrics.Collector, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	sc := cfg.Server

	framesPerSnapshot := uint64(cfg.Simulation.FrameRate / sc.SnapshotRate)
	if framesPerSnapshot == 0 {
		framesPerSnapshot = 1
	}

	s := &Server{
		sim:               sim,
		renderer:          render.NewNullRenderer(logger),
		cfg:               sc,
		updateRate:        time.Second / time.Duration(cfg.Simulation.FrameRate),
		framesPerSnapshot: framesPerSnapshot,
		logger:            logger,
		metrics:           collector,
		validator:         validation.NewCommandValidator(sc.CommandRate, sc.CommandBurst, sc.MaxRequestBytes),
		health:            health.NewHealthChecker(),
		descriptions:      make(map[string]entity.Description),
		commands:          make(chan commandRequest),
		clients:           make(map[uint64]*streamClient),
		done:              make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	for _, b := range sim.System.Bodies() {
		s.descriptions[normalizeName(b.Name)] = b.LongDescription
	}

	s.health.AddCheck(health.NewSimulationHealthCheck(s.LastFrame, sc.StallTimeout))
	s.health.AddCheck(health.NewListenerHealthCheck(s.ListenerAddress))
	s.health.AddCheck(health.NewMemoryHealthCheck(memoryLimitMB, nil))

	if collector != nil {
		s.unsubscribe = collector.Subscribe(sim.EventBus)
		collector.SetBodies(sim.System.Len())
	}

	s.publishSnapshot()
	s.router = s.newRouter()
	return s
}

// Handler returns the HTTP handler serving the API, stream and probes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on address and starts the simulation loop.
func (s *Server) Start(address string) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}
	select {
	case <-s.done:
		return ErrServerStopped
	default:
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Unlock()

	s.running.Store(true)
	s.lastFrame.Store(time.Now().UnixNano())
	// The first tick must not count the time since construction.
	s.sim.LastUpdate = time.Now()

	s.wg.Add(2)
	go s.simulationLoop()
	go s.serve(ln)

	s.logger.Info(context.Background(), "orrery server started",
		"address", ln.Addr().String(),
		"frame_interval", s.updateRate.String(),
	)
	return nil
}

func (s *Server) serve(ln net.Listener) {
	defer s.wg.Done()
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error(context.Background(), "http server failed", err)
	}
}

// Stop shuts the HTTP server down, disconnects stream clients and stops the
// simulation loop. It is safe to call more than once, and a stopped server
// cannot be started again.
func (s *Server) Stop(ctx context.Context) error {
	wasRunning := s.running.Swap(false)

	var err error
	s.stopOnce.Do(func() {
		close(s.done)

		if wasRunning {
			s.mu.RLock()
			httpServer := s.httpServer
			s.mu.RUnlock()
			err = httpServer.Shutdown(ctx)

			s.clientsLock.Lock()
			for _, client := range s.clients {
				client.close()
			}
			s.clientsLock.Unlock()

			s.wg.Wait()
		}

		s.validator.Close()
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.logger.Info(ctx, "orrery server stopped", "frames", s.sim.Frame)
	})

	if err != nil {
		return logging.WrapError(err, "http shutdown")
	}
	return nil
}

// ListenerAddress returns the bound address, or "" when not listening.
func (s *Server) ListenerAddress() string {
	if !s.running.Load() {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// LastFrame returns when the loop last finished a frame.
func (s *Server) LastFrame() time.Time {
	ns := s.lastFrame.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Snapshot returns the latest published state.
func (s *Server) Snapshot() *engine.Snapshot {
	return s.snapshot.Load()
}

// Submit queues cmd for the simulation loop and waits for its result.
func (s *Server) Submit(ctx context.Context, cmd engine.Command) error {
	if !s.running.Load() {
		return ErrServerStopped
	}

	req := commandRequest{cmd: cmd, reply: make(chan error, 1)}
	select {
	case s.commands <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrServerStopped
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrServerStopped
	}
}

// simulationLoop is the only goroutine that touches the simulation once
// the server has started.
func (s *Server) simulationLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return

		case req := <-s.commands:
			req.reply <- s.sim.Apply(req.cmd)
			s.publishSnapshot()

		case <-ticker.C:
			s.frame()
			if s.sim.Frame%s.framesPerSnapshot == 0 {
				s.broadcastSnapshot()
			}
		}
	}
}

// frame advances and renders one frame, then publishes its snapshot.
func (s *Server) frame() {
	start := time.Now()

	s.sim.Tick()
	s.sim.Render(s.renderer)
	s.publishSnapshot()

	s.lastFrame.Store(time.Now().UnixNano())
	s.metrics.ObserveFrame(time.Since(start))
	s.metrics.SetBodies(s.sim.System.Len())
}

func (s *Server) publishSnapshot() {
	s.snapshot.Store(s.sim.Snapshot())
}

// checkOrigin accepts stream connections from the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", s.health.Liveness)
	router.GET("/ready", s.health.Readiness)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	router.GET("/ws", s.handleStream)

	api := router.Group("/api")
	{
		api.GET("/snapshot", s.getSnapshot)
		api.GET("/bodies", s.getBodies)
		api.GET("/bodies/:name", s.getBody)
		api.GET("/spacecraft", s.getSpacecraft)
		api.POST("/commands", s.postCommand)
	}
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	for _, origin := range s.cfg.AllowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.cfg.AllowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

// encodeSnapshot serializes the latest snapshot for stream clients.
func (s *Server) encodeSnapshot() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}
