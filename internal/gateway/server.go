// Package gateway is the bridge's inbound HTTP surface: signed platform
// notifications, JWT-verified slash commands, the bot capability schema,
// and operational endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/soyeahso/ocbridge/internal/config"
	"github.com/soyeahso/ocbridge/internal/logging"
	"github.com/soyeahso/ocbridge/internal/platform"
	"github.com/soyeahso/ocbridge/internal/resolve"
	"github.com/soyeahso/ocbridge/internal/routing"
	"github.com/soyeahso/ocbridge/internal/version"
)

// Server is the bridge gateway HTTP server.
type Server struct {
	cfg        config.Config
	log        *logging.Logger
	metrics    *Metrics
	verifier   *Verifier
	router     *routing.Router
	resolver   *resolve.Resolver
	clients    platform.Factory
	handler    routing.MessageHandler
	definition BotDefinition

	httpServer *http.Server
}

// New creates a gateway server.
func New(
	cfg config.Config,
	verifier *Verifier,
	router *routing.Router,
	resolver *resolve.Resolver,
	clients platform.Factory,
	handler routing.MessageHandler,
	log *logging.Logger,
) *Server {
	return &Server{
		cfg:        cfg,
		log:        log.Sub("gateway"),
		metrics:    NewMetrics(),
		verifier:   verifier,
		router:     router,
		resolver:   resolver,
		clients:    clients,
		handler:    handler,
		definition: DefaultDefinition(),
	}
}

// Handler returns the fully-wired HTTP handler, including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.metrics, s.cfg.Gateway.AllowedOrigins)
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP connections. It blocks until the context
// is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Gateway)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", addr).
		Str("version", version.Version).
		Msg("gateway listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}
