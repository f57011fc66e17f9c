package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fystack/solana-rpc-client/pkg/common/config"
	"github.com/fystack/solana-rpc-client/pkg/common/logger"
	"github.com/fystack/solana-rpc-client/pkg/events"
	"github.com/fystack/solana-rpc-client/pkg/ratelimiter"
	"github.com/fystack/solana-rpc-client/pkg/rpc"
	"github.com/fystack/solana-rpc-client/pkg/rpc/solana"
)

type app struct {
	cfg     *config.Config
	client  *solana.Client
	emitter events.Emitter
	metrics *http.Server
}

// loadConfig reads the config file when given and applies flag overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if g.Config != "" {
		loaded, err := config.Load(g.Config)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if g.Network != "" {
		cfg.Network = g.Network
	}
	if g.Endpoint != "" {
		cfg.Endpoint = g.Endpoint
	}
	if g.Commitment != "" {
		cfg.Commitment = g.Commitment
	}
	if g.Encoding != "" {
		cfg.Encoding = g.Encoding
	}
	if g.Debug {
		cfg.LogLevel = "debug"
	}

	logger.Init(&logger.Options{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
	})
	return cfg, nil
}

func (g *Globals) setup() (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	network, err := solana.ParseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	encoding, err := solana.ParseEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	commitment, err := solana.ParseCommitment(cfg.Commitment)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, emitter: events.NopEmitter{}}
	opts := []solana.Option{
		solana.WithAuth(cfg.Auth.RPC()),
		solana.WithTimeout(cfg.Client.Timeout),
		solana.WithLogger(logger.L()),
		solana.WithConfirmConfig(solana.ConfirmConfig{
			PollInterval: cfg.Confirm.PollInterval,
			MaxAttempts:  cfg.Confirm.MaxAttempts,
			Timeout:      cfg.Confirm.Timeout,
		}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, solana.WithEndpoint(cfg.Endpoint))
	}
	if t := cfg.Client.Throttle; t.RPS > 0 {
		opts = append(opts, solana.WithRateLimiter(ratelimiter.NewRateLimiter(t.RPS, t.Burst)))
	}

	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		m, err := rpc.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, solana.WithMetrics(m))
		a.metrics = serveMetrics(cfg.Metrics.Listen, reg)
	}

	if cfg.Nats.URL != "" {
		emitter, err := events.NewNATSEmitter(cfg.Nats.Events("solrpc"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.emitter = emitter
		opts = append(opts, solana.WithEmitter(emitter))
	}

	a.client = solana.NewClientWithConfig(network, solana.RPCConfig{
		Encoding:   encoding,
		Commitment: commitment,
	}, opts...)
	logger.Debug("Client ready", "network", network, "endpoint", a.client.Endpoint())
	return a, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("Metrics server stopped", "addr", addr, "err", err)
		}
	}()
	return srv
}

func (a *app) Close() {
	a.emitter.Close()
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = a.metrics.Shutdown(ctx)
	}
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
