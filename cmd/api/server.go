package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sparebudget/internal/shared/config"
	"sparebudget/internal/shared/middleware"
	"sparebudget/internal/shared/telemetry"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler      http.Handler
	Addr         string
	TLSEnabled   bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
	AllowedHosts []string
}

// Servers groups the main server and the optional HTTP redirect server.
type Servers struct {
	Main     *http.Server
	Redirect *http.Server
}

// StartServers creates and starts the main server and optional redirect server.
func StartServers(scfg ServerConfig, log zerolog.Logger) *Servers {
	srv := &http.Server{
		Addr:         scfg.Addr,
		Handler:      scfg.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	servers := &Servers{Main: srv}

	if scfg.TLSEnabled && scfg.RedirectHTTP {
		servers.Redirect = createRedirectServer(scfg.AllowedHosts)
		go func() {
			log.Info().Str("addr", servers.Redirect.Addr).Msg("HTTP redirect server starting")
			if err := servers.Redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("HTTP redirect server error")
			}
		}()
	}

	go func() {
		var err error
		if scfg.TLSEnabled {
			log.Info().Str("addr", scfg.Addr).Msg("HTTPS server starting")
			err = srv.ListenAndServeTLS(scfg.CertPath, scfg.KeyPath)
		} else {
			log.Info().Str("addr", scfg.Addr).Msg("HTTP server starting")
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	return servers
}

// GracefulShutdown stops the scheduler, the servers, and finally flushes telemetry.
func GracefulShutdown(servers *Servers, deps *Dependencies, shutdownTelemetry telemetry.ShutdownFunc, timeout time.Duration, log zerolog.Logger) {
	log.Info().Msg("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if deps.Scheduler != nil {
		deps.Scheduler.Shutdown(timeout)
	}

	if servers.Redirect != nil {
		if err := servers.Redirect.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Error shutting down HTTP redirect server")
		}
	}

	if err := servers.Main.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down main server")
	}

	if shutdownTelemetry != nil {
		if err := shutdownTelemetry(ctx); err != nil {
			log.Error().Err(err).Msg("Error shutting down telemetry")
		}
	}

	log.Info().Msg("Server stopped")
}

// createRedirectServer answers every plain HTTP request with a redirect to HTTPS.
func createRedirectServer(allowedHosts []string) *http.Server {
	return &http.Server{
		Addr:         ":80",
		Handler:      middleware.RequireHTTPS(allowedHosts)(http.NotFoundHandler()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServerConfigFromConfig creates ServerConfig from application config.
func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler:      handler,
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		TLSEnabled:   cfg.TLS.Enabled,
		CertPath:     cfg.TLS.CertPath,
		KeyPath:      cfg.TLS.KeyPath,
		RedirectHTTP: cfg.TLS.RedirectHTTP,
		AllowedHosts: cfg.Server.AllowedHosts,
	}
}
