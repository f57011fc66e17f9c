package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

const (
	DefaultNetwork      = "devnet"
	DefaultEncoding     = "jsonParsed"
	DefaultCommitment   = "confirmed"
	DefaultLogLevel     = "info"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMaxAttempts  = 120
	DefaultSubject      = "solana.transaction"
)

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML file, fills in defaults, resolves ${ENV} references in
// the endpoint and auth values, then validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	finalizeAuth(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Network == "" {
		cfg.Network = DefaultNetwork
	}
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}
	if cfg.Commitment == "" {
		cfg.Commitment = DefaultCommitment
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = DefaultTimeout
	}
	if cfg.Client.Throttle.RPS > 0 && cfg.Client.Throttle.Burst == 0 {
		cfg.Client.Throttle.Burst = cfg.Client.Throttle.RPS
	}
	if cfg.Confirm.PollInterval == 0 {
		cfg.Confirm.PollInterval = DefaultPollInterval
	}
	if cfg.Confirm.MaxAttempts == 0 {
		cfg.Confirm.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Nats.Subject == "" {
		cfg.Nats.Subject = DefaultSubject
	}
}

// finalizeAuth fills the token from TokenEnv when it is empty and expands
// ${VAR} references in the endpoint and in every credential.
func finalizeAuth(cfg *Config) {
	cfg.Endpoint = substituteEnvVars(cfg.Endpoint)
	cfg.Nats.Password = substituteEnvVars(cfg.Nats.Password)

	a := cfg.Auth
	if a == nil {
		return
	}
	if a.Token == "" && a.TokenEnv != "" {
		a.Token = os.Getenv(a.TokenEnv)
	}
	a.Token = substituteEnvVars(a.Token)
	a.Password = substituteEnvVars(a.Password)
	for k, v := range a.Headers {
		a.Headers[k] = substituteEnvVars(v)
	}
}

// substituteEnvVars replaces every ${VAR_NAME} with the variable's value.
// Unset variables expand to the empty string; a bare $ is left alone.
func substituteEnvVars(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		b.WriteString(s[:start])
		b.WriteString(os.Getenv(s[start+2 : end]))
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
