package config

import (
	"time"

	"github.com/fystack/solana-rpc-client/pkg/events"
	"github.com/fystack/solana-rpc-client/pkg/rpc"
)

type Config struct {
	Network    string        `yaml:"network"    validate:"required,oneof=localhost localnet local testnet devnet mainnet mainnet-beta"`
	Endpoint   string        `yaml:"endpoint"   validate:"omitempty,url"`
	Encoding   string        `yaml:"encoding"   validate:"omitempty,oneof=base58 base64 base64+zstd jsonParsed json"`
	Commitment string        `yaml:"commitment" validate:"omitempty,oneof=processed confirmed finalized"`
	LogLevel   string        `yaml:"log_level"  validate:"omitempty,oneof=debug info warn error"`
	Client     ClientConfig  `yaml:"client"`
	Auth       *AuthConfig   `yaml:"auth,omitempty"`
	Confirm    ConfirmConfig `yaml:"confirm"`
	Nats       NatsConfig    `yaml:"nats"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

type ClientConfig struct {
	Timeout  time.Duration `yaml:"timeout"  validate:"min=0"`
	Throttle Throttle      `yaml:"throttle"`
}

// Throttle caps the request rate. A zero RPS disables throttling.
type Throttle struct {
	RPS   int `yaml:"rps"   validate:"min=0"`
	Burst int `yaml:"burst" validate:"min=0"`
}

type AuthConfig struct {
	Type     string            `yaml:"type"      validate:"required,oneof=bearer api_key basic custom"`
	Token    string            `yaml:"token"`
	TokenEnv string            `yaml:"token_env"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Headers  map[string]string `yaml:"headers,omitempty"` // e.g. {"x-token": "${HELIUS_KEY}"}
}

// RPC converts the auth section into the transport's auth settings.
func (a *AuthConfig) RPC() *rpc.AuthConfig {
	if a == nil {
		return nil
	}
	return &rpc.AuthConfig{
		Type:     a.Type,
		Token:    a.Token,
		Username: a.Username,
		Password: a.Password,
		Headers:  a.Headers,
	}
}

type ConfirmConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" validate:"min=0"`
	MaxAttempts  int           `yaml:"max_attempts"  validate:"min=0"`
	Timeout      time.Duration `yaml:"timeout"       validate:"min=0"`
}

// NatsConfig enables confirmation events when URL is set.
type NatsConfig struct {
	URL      string        `yaml:"url"      validate:"omitempty,url"`
	Subject  string        `yaml:"subject"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	TLS      NatsTLSConfig `yaml:"tls"`
}

type NatsTLSConfig struct {
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"  validate:"required_with=ClientCert"`
	CACert     string `yaml:"ca_cert"`
}

// Events converts the section into the event publisher's connection settings.
func (n NatsConfig) Events(name string) events.NATSConfig {
	return events.NATSConfig{
		URL:        n.URL,
		Subject:    n.Subject,
		Name:       name,
		Username:   n.Username,
		Password:   n.Password,
		ClientCert: n.TLS.ClientCert,
		ClientKey:  n.TLS.ClientKey,
		CACert:     n.TLS.CACert,
	}
}

// MetricsConfig exposes request metrics over HTTP when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
}
