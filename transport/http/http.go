package http

import (
	"context"
	"innkeep/config"
	"innkeep/transport/http/router"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateShuttingDown
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	State  ServerState
	server *http.Server
}

func New(cfg *config.Config, r router.Router) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
	}
}

func (h *HTTP) Serve() {
	mux := chi.NewRouter()
	h.Router.SetupRoutes(mux)

	h.server = &http.Server{
		Addr:    net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler: mux,
	}

	h.State = ServerStateReady

	go h.respondToSigterm()

	log.Info().Str("addr", h.server.Addr).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func (h *HTTP) respondToSigterm() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	<-done

	log.Info().Msg("Received SIGTERM. Draining in-flight requests.")

	h.State = ServerStateShuttingDown

	timeout := time.Duration(h.Config.Server.Shutdown.TimeoutSeconds) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown after drain timeout")
	}

	log.Info().Msg("Shut down gracefully.")
}
