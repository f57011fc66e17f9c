package solana

import (
	"fmt"
	"time"
)

// Encoding is the wire encoding of account data or transactions.
type Encoding string

const (
	EncodingBase58     Encoding = "base58"
	EncodingBase64     Encoding = "base64"
	EncodingBase64Zstd Encoding = "base64+zstd"
	EncodingJSONParsed Encoding = "jsonParsed"
	EncodingJSON       Encoding = "json"
)

// ParseEncoding validates s against the known encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(s); e {
	case EncodingBase58, EncodingBase64, EncodingBase64Zstd, EncodingJSONParsed, EncodingJSON:
		return e, nil
	default:
		return "", fmt.Errorf("unknown encoding %q", s)
	}
}

// Commitment is the durability level requested from the node.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// Rank orders commitments by durability; unknown or empty values rank 0.
func (c Commitment) Rank() int {
	switch c {
	case CommitmentProcessed:
		return 1
	case CommitmentConfirmed:
		return 2
	case CommitmentFinalized:
		return 3
	default:
		return 0
	}
}

// ParseCommitment validates s against the three commitment levels.
func ParseCommitment(s string) (Commitment, error) {
	switch c := Commitment(s); c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return c, nil
	default:
		return "", fmt.Errorf("unknown commitment %q", s)
	}
}

// RPCConfig is the trailing config object sent with account queries.
type RPCConfig struct {
	Encoding   Encoding   `json:"encoding,omitempty"`
	Commitment Commitment `json:"commitment,omitempty"`
}

// DefaultRPCConfig is jsonParsed data at confirmed commitment.
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Encoding:   EncodingJSONParsed,
		Commitment: CommitmentConfirmed,
	}
}

// CommitmentConfig is the config object for methods that take no encoding.
type CommitmentConfig struct {
	Commitment Commitment `json:"commitment,omitempty"`
}

// TransactionConfig controls sendTransaction.
type TransactionConfig struct {
	SkipPreflight       bool       `json:"skipPreflight"`
	PreflightCommitment Commitment `json:"preflightCommitment,omitempty"`
	Encoding            Encoding   `json:"encoding,omitempty"` // base64 | base58
}

// AirdropConfig is the config object of requestAirdrop.
type AirdropConfig struct {
	RecentBlockhash string     `json:"recentBlockhash,omitempty"`
	Commitment      Commitment `json:"commitment,omitempty"`
}

// ConfirmConfig bounds the confirmation poller.
type ConfirmConfig struct {
	PollInterval time.Duration // delay between status queries, default 500ms
	MaxAttempts  int           // status queries before giving up, default 120
	Timeout      time.Duration // overall wait, 0 means bounded by MaxAttempts only
}

// DefaultConfirmConfig polls every 500ms for at most one minute.
func DefaultConfirmConfig() ConfirmConfig {
	return ConfirmConfig{
		PollInterval: 500 * time.Millisecond,
		MaxAttempts:  120,
	}
}
