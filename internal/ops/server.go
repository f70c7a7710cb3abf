package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/observability"
)

const version = "0.1.0"

var ErrMissingName = errors.New("ops: missing server name")

// Config shapes the ops HTTP surface.
type Config struct {
	// ListenAddr is the bind address, e.g. 127.0.0.1:9600. Empty
	// disables the server.
	ListenAddr string `json:"listen_addr" toml:"listen_addr"`
	// Name labels this client's request logs and metrics.
	Name string `json:"name" toml:"name"`
	// CorsOrigins lists allowed browser origins for dashboards.
	CorsOrigins []string `json:"cors_origins" toml:"cors_origins"`
}

func (c Config) Validate() error {
	if c.Name == "" {
		return ErrMissingName
	}
	return nil
}

// StatusFunc supplies the /status payload.
type StatusFunc func() any

// ReadyFunc reports whether the client is up and serving.
type ReadyFunc func() bool

// Server exposes health, readiness, status, and metrics over HTTP for
// one running client.
type Server struct {
	cfg     Config
	status  StatusFunc
	ready   ReadyFunc
	log     zerolog.Logger
	router  *gin.Engine
	started time.Time
}

func New(cfg Config, status StatusFunc, ready ReadyFunc, log zerolog.Logger) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		cfg:     cfg,
		status:  status,
		ready:   ready,
		log:     log,
		router:  r,
		started: time.Now(),
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"client":  s.cfg.Name,
			"version": version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		ready := s.ready == nil || s.ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ready":  ready,
			"client": s.cfg.Name,
		})
	})

	s.router.GET("/status", func(c *gin.Context) {
		if s.status == nil {
			c.JSON(http.StatusOK, gin.H{"client": s.cfg.Name})
			return
		}
		c.JSON(http.StatusOK, s.status())
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Run serves until ctx ends, then shuts down gracefully. An empty
// listen address disables the surface and returns immediately.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.ListenAddr == "" {
		s.log.Info().Msg("ops.Server.Run disabled, no listen address")
		return nil
	}
	s.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("ops.Server.Run listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
