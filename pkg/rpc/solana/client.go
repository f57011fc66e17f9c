package solana

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/samber/lo"

	"github.com/fystack/solana-rpc-client/pkg/events"
	"github.com/fystack/solana-rpc-client/pkg/ratelimiter"
	"github.com/fystack/solana-rpc-client/pkg/rpc"
)

const DefaultTimeout = 30 * time.Second

type options struct {
	endpoint        string
	auth            *rpc.AuthConfig
	timeout         time.Duration
	rateLimiter     *ratelimiter.RateLimiter
	metrics         *rpc.Metrics
	httpClient      *http.Client
	logger          *slog.Logger
	emitter         events.Emitter
	confirm         ConfirmConfig
	blockhashMethod Method
}

// Option customises a Client.
type Option func(*options)

// WithEndpoint posts to url instead of the network's public endpoint.
func WithEndpoint(url string) Option { return func(o *options) { o.endpoint = url } }

func WithAuth(auth *rpc.AuthConfig) Option { return func(o *options) { o.auth = auth } }

func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

func WithRateLimiter(rl *ratelimiter.RateLimiter) Option {
	return func(o *options) { o.rateLimiter = rl }
}

func WithMetrics(m *rpc.Metrics) Option { return func(o *options) { o.metrics = m } }

func WithHTTPClient(h *http.Client) Option { return func(o *options) { o.httpClient = h } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithEmitter publishes confirmation outcomes through e.
func WithEmitter(e events.Emitter) Option { return func(o *options) { o.emitter = e } }

func WithConfirmConfig(cfg ConfirmConfig) Option { return func(o *options) { o.confirm = cfg } }

// WithBlockhashMethod picks the initial blockhash query; the client still
// switches to the other one when the node does not know it.
func WithBlockhashMethod(m Method) Option { return func(o *options) { o.blockhashMethod = m } }

// Client is a Solana JSON-RPC client. Each call issues one request and waits
// for its response; the config can be changed between calls and is guarded,
// so one Client may be shared across goroutines.
type Client struct {
	base    *rpc.BaseClient
	network Network
	logger  *slog.Logger
	emitter events.Emitter
	confirm ConfirmConfig

	mu              sync.RWMutex
	config          RPCConfig
	blockhashMethod Method
}

// NewClient returns a client for network using jsonParsed encoding at
// confirmed commitment.
func NewClient(network Network, opts ...Option) *Client {
	return NewClientWithConfig(network, DefaultRPCConfig(), opts...)
}

func NewClientWithConfig(network Network, config RPCConfig, opts ...Option) *Client {
	o := options{
		timeout:         DefaultTimeout,
		logger:          slog.Default(),
		emitter:         events.NopEmitter{},
		confirm:         DefaultConfirmConfig(),
		blockhashMethod: GetLatestBlockhash,
	}
	for _, opt := range opts {
		opt(&o)
	}
	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = network.URL()
	}

	baseOpts := []rpc.Option{rpc.WithLogger(o.logger), rpc.WithMetrics(o.metrics)}
	if o.httpClient != nil {
		baseOpts = append(baseOpts, rpc.WithHTTPClient(o.httpClient))
	}

	return &Client{
		base:            rpc.NewBaseClient(endpoint, o.auth, o.timeout, o.rateLimiter, baseOpts...),
		network:         network,
		logger:          o.logger.With("network", network.String()),
		emitter:         o.emitter,
		confirm:         o.confirm,
		config:          config,
		blockhashMethod: o.blockhashMethod,
	}
}

// Network returns the cluster the client was created for.
func (c *Client) Network() Network { return c.network }

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string { return c.base.URL() }

// Config returns a copy of the current request config.
func (c *Client) Config() RPCConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// SetCommitment changes the commitment used by subsequent calls. An empty
// value lets the node pick its default.
func (c *Client) SetCommitment(commitment Commitment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Commitment = commitment
}

// SetEncoding changes the account data encoding used by subsequent calls.
func (c *Client) SetEncoding(encoding Encoding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Encoding = encoding
}

// statusCommitment is the level signature statuses are judged against.
// Without an explicit processed or finalized setting it is confirmed.
func (c *Client) statusCommitment() Commitment {
	switch commitment := c.Config().Commitment; commitment {
	case CommitmentProcessed, CommitmentFinalized:
		return commitment
	default:
		return CommitmentConfirmed
	}
}

// GetAccount returns the account at pubkey using the configured encoding.
func (c *Client) GetAccount(ctx context.Context, pubkey solanago.PublicKey) (*Account, error) {
	return c.getAccount(ctx, pubkey, c.Config())
}

func (c *Client) getAccount(ctx context.Context, pubkey solanago.PublicKey, cfg RPCConfig) (*Account, error) {
	resp, err := rpc.CallWithContext[*Account](ctx, c.base, GetAccountInfo.String(), pubkey.String(), cfg)
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo failed: %w", err)
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	return resp.Value, nil
}

// GetMultipleAccounts returns the accounts in request order. Missing
// accounts are nil entries.
func (c *Client) GetMultipleAccounts(ctx context.Context, pubkeys []solanago.PublicKey) ([]*Account, error) {
	keys := lo.Map(pubkeys, func(pk solanago.PublicKey, _ int) string { return pk.String() })
	resp, err := rpc.CallWithContext[[]*Account](ctx, c.base, GetMultipleAccounts.String(), keys, c.Config())
	if err != nil {
		return nil, fmt.Errorf("getMultipleAccounts failed: %w", err)
	}
	return resp.Value, nil
}

// GetAccountBorsh fetches the account as base64 and borsh-decodes its data
// into v.
func (c *Client) GetAccountBorsh(ctx context.Context, pubkey solanago.PublicKey, v any) error {
	cfg := c.Config()
	cfg.Encoding = EncodingBase64
	account, err := c.getAccount(ctx, pubkey, cfg)
	if err != nil {
		return err
	}
	return account.Data.DecodeBorsh(v)
}

// GetAccountParsed fetches the account as jsonParsed and unmarshals the
// parsed object into v.
func (c *Client) GetAccountParsed(ctx context.Context, pubkey solanago.PublicKey, v any) error {
	cfg := c.Config()
	cfg.Encoding = EncodingJSONParsed
	account, err := c.getAccount(ctx, pubkey, cfg)
	if err != nil {
		return err
	}
	return account.Data.DecodeParsed(v)
}

// GetOwner returns the program that owns the account.
func (c *Client) GetOwner(ctx context.Context, pubkey solanago.PublicKey) (solanago.PublicKey, error) {
	account, err := c.GetAccount(ctx, pubkey)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	return account.OwnerKey()
}

// GetBalance returns the account balance in lamports.
func (c *Client) GetBalance(ctx context.Context, pubkey solanago.PublicKey) (uint64, error) {
	cfg := CommitmentConfig{Commitment: c.Config().Commitment}
	resp, err := rpc.CallWithContext[uint64](ctx, c.base, GetBalance.String(), pubkey.String(), cfg)
	if err != nil {
		return 0, fmt.Errorf("getBalance failed: %w", err)
	}
	return resp.Value, nil
}

// GetMinimumBalanceForRentExemption returns the lamports an account of
// dataLen bytes needs to be rent exempt.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	lamports, err := rpc.Call[uint64](ctx, c.base, GetMinimumBalanceForRentExemption.String(), dataLen)
	if err != nil {
		return 0, fmt.Errorf("getMinimumBalanceForRentExemption failed: %w", err)
	}
	return lamports, nil
}

// RequestAirdrop asks the cluster faucet for lamports. Only test clusters
// serve it.
func (c *Client) RequestAirdrop(
	ctx context.Context,
	pubkey solanago.PublicKey,
	lamports uint64,
	recentBlockhash solanago.Hash,
) (solanago.Signature, error) {
	cfg := AirdropConfig{
		RecentBlockhash: recentBlockhash.String(),
		Commitment:      c.Config().Commitment,
	}
	raw, err := rpc.Call[string](ctx, c.base, RequestAirdrop.String(), pubkey.String(), lamports, cfg)
	if err != nil {
		return solanago.Signature{}, fmt.Errorf("requestAirdrop failed: %w", err)
	}
	return parseSignature(raw)
}

// GetLatestBlockhash returns a recent blockhash. The first query uses the
// configured method; a "method not found" answer switches to the other
// spelling once and remembers it.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solanago.Hash, error) {
	cfg := CommitmentConfig{Commitment: c.Config().Commitment}

	c.mu.RLock()
	method := c.blockhashMethod
	c.mu.RUnlock()

	resp, err := rpc.CallWithContext[Blockhash](ctx, c.base, method.String(), cfg)
	if rpc.IsMethodNotFound(err) {
		alt := alternateBlockhashMethod(method)
		c.logger.Debug("Blockhash method not supported by node, switching", "from", method, "to", alt)
		resp, err = rpc.CallWithContext[Blockhash](ctx, c.base, alt.String(), cfg)
		if err == nil {
			c.mu.Lock()
			c.blockhashMethod = alt
			c.mu.Unlock()
		}
		method = alt
	}
	if err != nil {
		return solanago.Hash{}, fmt.Errorf("%s failed: %w", method, err)
	}

	hash, err := solanago.HashFromBase58(resp.Value.Blockhash)
	if err != nil {
		return solanago.Hash{}, decodeErr("blockhash", err)
	}
	return hash, nil
}

// GetSlot returns the slot the node has reached at the configured commitment.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	cfg := CommitmentConfig{Commitment: c.Config().Commitment}
	slot, err := rpc.Call[uint64](ctx, c.base, GetSlot.String(), cfg)
	if err != nil {
		return 0, fmt.Errorf("getSlot failed: %w", err)
	}
	return slot, nil
}

// GetBlockTime returns the estimated unix production time of slot.
func (c *Client) GetBlockTime(ctx context.Context, slot uint64) (int64, error) {
	ts, err := rpc.Call[*int64](ctx, c.base, GetBlockTime.String(), slot)
	if err != nil {
		return 0, fmt.Errorf("getBlockTime failed: %w", err)
	}
	if ts == nil {
		return 0, fmt.Errorf("%w: slot %d", ErrBlockTimeUnavailable, slot)
	}
	return *ts, nil
}

// GetSignatureStatus returns the node's status record for sig, or nil when
// the node has not seen the transaction yet.
func (c *Client) GetSignatureStatus(ctx context.Context, sig solanago.Signature) (*TransactionStatus, error) {
	resp, err := rpc.CallWithContext[[]*TransactionStatus](ctx, c.base, GetSignatureStatuses.String(), []string{sig.String()})
	if err != nil {
		return nil, fmt.Errorf("getSignatureStatuses failed: %w", err)
	}
	if len(resp.Value) == 0 {
		return nil, nil
	}
	return resp.Value[0], nil
}

// CheckSignatureStatus reports whether sig has reached the client's
// commitment and executed successfully. A missing status is false.
func (c *Client) CheckSignatureStatus(ctx context.Context, sig solanago.Signature) (bool, error) {
	status, err := c.GetSignatureStatus(ctx, sig)
	if err != nil {
		return false, err
	}
	if status == nil {
		return false, nil
	}
	return status.Satisfies(c.statusCommitment()) && status.Succeeded(), nil
}

func parseSignature(s string) (solanago.Signature, error) {
	sig, err := solanago.SignatureFromBase58(s)
	if err != nil {
		return solanago.Signature{}, decodeErr("signature", err)
	}
	return sig, nil
}
