package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/rr-relay/internal/dns/common/clock"
	"github.com/haukened/rr-relay/internal/dns/common/log"
	"github.com/haukened/rr-relay/internal/dns/config"
	"github.com/haukened/rr-relay/internal/dns/gateways/transport"
	"github.com/haukened/rr-relay/internal/dns/gateways/upstream"
	"github.com/haukened/rr-relay/internal/dns/gateways/wire"
	"github.com/haukened/rr-relay/internal/dns/services/relay"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-relayd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the relay
type Application struct {
	config    *config.AppConfig
	transport relay.ServerTransport
	relay     *relay.Relay
	upstream  *upstream.Resolver
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run loads configuration, starts the relay and blocks until SIGINT or
// SIGTERM. It returns the process exit code.
func run(args []string, stderr io.Writer) int {
	// Load configuration from defaults, environment and flags
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Usage: %s [--resolver ip:port]\n", appName)
			return 0
		}
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "Logging configuration error: %v\n", err)
		return 1
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"address":   cfg.Address,
		"resolver":  cfg.Resolver,
	}, "Starting RR-Relay server")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Error(map[string]any{"error": err}, "Failed to build application")
		return 1
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the relay
	if err := app.Run(ctx); err != nil {
		log.Error(map[string]any{"error": err}, "Server failed")
		return 1
	}

	log.Info(nil, "RR-Relay server stopped gracefully")
	return 0
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	// Create DNS wire codec
	codec := wire.NewUDPCodec(logger)

	// Build gateway layer
	upstreamClient, err := buildUpstream(cfg, codec, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream client: %w", err)
	}

	// Build service layer. A nil upstream selects stub mode.
	opts := relay.Options{
		Logger:      logger,
		Clock:       clock.RealClock{},
		StubAddress: cfg.StubAddress,
		StubTTL:     &cfg.StubTTL,
	}
	if upstreamClient != nil {
		opts.Upstream = upstreamClient
	}
	relayService, err := relay.NewRelay(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build relay: %w", err)
	}

	// Build transport layer
	serverTransport, err := transport.NewTransport(transport.TransportUDP, cfg.Address, codec, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build transport: %w", err)
	}

	return &Application{
		config:    cfg,
		transport: serverTransport,
		relay:     relayService,
		upstream:  upstreamClient,
	}, nil
}

// buildUpstream returns nil when no resolver is configured.
func buildUpstream(cfg *config.AppConfig, codec wire.DNSCodec, logger log.Logger) (*upstream.Resolver, error) {
	if !cfg.Forwarding() {
		log.Info(map[string]any{
			"stub_address": cfg.StubAddress,
			"stub_ttl":     cfg.StubTTL,
		}, "No resolver configured, answering with stub records")
		return nil, nil
	}

	upstreamClient, err := upstream.NewResolver(upstream.Options{
		Server:  cfg.Resolver,
		Timeout: cfg.UpstreamTimeout,
		Codec:   codec,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info(map[string]any{
		"server":  cfg.Resolver,
		"timeout": cfg.UpstreamTimeout,
	}, "Upstream DNS client configured")
	return upstreamClient, nil
}

// Run starts the relay and blocks until ctx is cancelled
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx, app.relay); err != nil {
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":    app.transport.Address(),
		"transport":  "UDP",
		"forwarding": app.relay.Forwarding(),
	}, "RR-Relay server started")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")
	return app.shutdown()
}

// shutdown stops the transport first so no request can reach the upstream
// client after it is closed.
func (app *Application) shutdown() error {
	done := make(chan error, 1)
	go func() {
		var errs []error
		if err := app.transport.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("transport: %w", err))
		}
		if app.upstream != nil {
			if err := app.upstream.Close(); err != nil {
				errs = append(errs, fmt.Errorf("upstream: %w", err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Warn(map[string]any{"error": err}, "Error during shutdown")
		}
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-time.After(defaultShutdownTimeout):
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
