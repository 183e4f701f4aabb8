// Package server serves the schema viewer over HTTP: a JSON API, static
// snapshots and live WebSocket sessions that stream render patches.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/msalah0e/schemaview/internal/layout"
	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/render"
	"github.com/msalah0e/schemaview/internal/session"
	"github.com/msalah0e/schemaview/internal/viewport"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// BaseURL prefixes share links. Empty means the URL of the request.
	BaseURL string

	Layout       layout.Config
	Palette      render.Palette
	Measurer     render.Measurer
	Zoom         viewport.Config
	Animation    time.Duration
	ViewerWidth  float64
	ViewerHeight float64
}

// DefaultConfig returns the built-in viewer settings.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		Layout:       layout.DefaultConfig(),
		Palette:      render.DefaultPalette(),
		Measurer:     render.FixedWidth(7),
		Zoom:         viewport.DefaultConfig(),
		Animation:    400 * time.Millisecond,
		ViewerWidth:  1200,
		ViewerHeight: 800,
	}
}

// Server is the schemaview HTTP server.
type Server struct {
	cfg      Config
	src      registry.Source
	logger   *slog.Logger
	echo     *echo.Echo
	upgrader websocket.Upgrader
	started  time.Time

	sessionCount atomic.Int64
	liveMu       sync.Mutex
	live         map[string]*liveSession
}

// New creates a server over src. A nil logger discards logs.
func New(cfg Config, src registry.Source, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Measurer == nil {
		cfg.Measurer = render.FixedWidth(7)
	}
	s := &Server{
		cfg:     cfg,
		src:     src,
		logger:  logger,
		started: time.Now(),
		live:    map[string]*liveSession{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.echo = s.routes()
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				s.logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.Debug("request", attrs...)
			return nil
		},
	}))

	e.GET("/", s.handlePage)
	e.GET("/api/status", s.handleStatus)
	e.GET("/api/schemas", s.handleSchemas)
	e.GET("/api/schemas/:name", s.handleDownload)
	e.GET("/api/schemas/:name/svg", s.handleSVG)
	e.GET("/api/schemas/:name/dot", s.handleDOT)
	e.GET("/api/schemas/:name/search", s.handleSearch)
	e.GET("/api/schemas/:name/node", s.handleNode)
	e.GET("/live", s.handleLive)
	return e
}

// Handler exposes the routes, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("schemaview listening", "addr", s.cfg.Addr)
	err := s.echo.Start(s.cfg.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and closes live sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.liveMu.Lock()
	for _, ls := range s.live {
		ls.conn.Close()
	}
	s.liveMu.Unlock()
	return s.echo.Shutdown(ctx)
}

// Sessions returns the number of open live sessions.
func (s *Server) Sessions() int { return int(s.sessionCount.Load()) }

func (s *Server) load(ctx context.Context, name string) (*session.Snapshot, error) {
	snap, err := session.Load(ctx, s.src, name)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return nil, echo.NewHTTPError(http.StatusNotFound, "schema not found").SetInternal(err)
	case err != nil:
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, "failed to load schema: "+err.Error()).SetInternal(err)
	}
	return snap, nil
}
