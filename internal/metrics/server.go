package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultHost              = "127.0.0.1"
	defaultPort              = 9311
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

var (
	ErrEmptyHost   = errors.New("host cannot be empty")
	ErrInvalidPort = errors.New("port must be between 1 and 65535")
)

// Config defines the exporter server configuration.
type Config struct {
	host              string
	port              int
	readHeaderTimeout time.Duration
}

// Option configures the Config.
type Option func(*Config)

// WithHost sets the listen host (default: 127.0.0.1).
func WithHost(host string) Option {
	return func(c *Config) {
		c.host = host
	}
}

// WithPort sets the listen port (default: 9311).
func WithPort(port int) Option {
	return func(c *Config) {
		c.port = port
	}
}

// NewConfig creates a Config with defaults and applies options.
func NewConfig(opts ...Option) *Config {
	config := &Config{
		host:              defaultHost,
		port:              defaultPort,
		readHeaderTimeout: defaultReadHeaderTimeout,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.host == "" {
		return ErrEmptyHost
	}
	if c.port <= 0 || c.port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Server serves /metrics from a registry.
type Server struct {
	cfg        *Config
	httpServer *http.Server
}

// NewServer validates cfg and prepares the HTTP server.
func NewServer(cfg *Config, gatherer prometheus.Gatherer) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("metrics config: %w", err)
	}

	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadHeaderTimeout: cfg.readHeaderTimeout,
		},
	}, nil
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.cfg.Address()
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics: %w", err)
		}
		return nil
	}
}
