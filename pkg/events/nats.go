package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fystack/solana-rpc-client/pkg/common/logger"
)

// NATSConfig describes the connection confirmation events are published on.
type NATSConfig struct {
	URL      string
	Subject  string
	Name     string
	Username string
	Password string

	// mTLS, enabled when ClientCert is set
	ClientCert string
	ClientKey  string
	CACert     string
}

// Connect dials NATS and keeps reconnecting for the life of the process.
func Connect(cfg NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1), // retry forever
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("Disconnected from NATS", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Debug("NATS connection closed")
		}),
		nats.ErrorHandler(natsErrHandler),
	}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.ClientCert != "" {
		opts = append(opts, nats.ClientCert(cfg.ClientCert, cfg.ClientKey))
		if cfg.CACert != "" {
			opts = append(opts, nats.RootCAs(cfg.CACert))
		}
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NewNATSEmitter connects with cfg and publishes on cfg.Subject. Close
// drains the connection.
func NewNATSEmitter(cfg NATSConfig) (Emitter, error) {
	nc, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	e := &emitter{pub: nc, subject: cfg.Subject}
	if e.subject == "" {
		e.subject = DefaultSubject
	}
	e.closeFn = func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return e, nil
}

func natsErrHandler(nc *nats.Conn, sub *nats.Subscription, natsErr error) {
	logger.Error("NATS error", "err", natsErr)
	if errors.Is(natsErr, nats.ErrSlowConsumer) && sub != nil {
		pending, _, err := sub.Pending()
		if err != nil {
			logger.Error("Error getting pending messages", "err", err)
			return
		}
		logger.Warn("Falling behind with pending messages on subject", "pending", pending, "subject", sub.Subject)
	}
}
