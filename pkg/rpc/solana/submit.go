package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/fystack/solana-rpc-client/pkg/rpc"
)

// Serializable is a signed transaction ready for the wire.
// *solana.Transaction from solana-go implements it.
type Serializable interface {
	MarshalBinary() ([]byte, error)
}

// SendTransaction submits tx with preflight simulation at the client's
// commitment.
func (c *Client) SendTransaction(ctx context.Context, tx Serializable) (solanago.Signature, error) {
	return c.SendTransactionWithConfig(ctx, tx, TransactionConfig{
		SkipPreflight:       false,
		PreflightCommitment: c.Config().Commitment,
		Encoding:            EncodingBase64,
	})
}

// SendTransactionUnchecked submits tx without preflight simulation. It is
// faster, but a rejected transaction returns no simulation logs.
func (c *Client) SendTransactionUnchecked(ctx context.Context, tx Serializable) (solanago.Signature, error) {
	return c.SendTransactionWithConfig(ctx, tx, TransactionConfig{
		SkipPreflight:       true,
		PreflightCommitment: CommitmentProcessed,
		Encoding:            EncodingBase64,
	})
}

// SendTransactionWithConfig serializes, encodes and submits tx.
//
// The reply is either a signature or a transaction error. For the latter
// every simulation log line is logged at debug level with its index before
// a *TransactionError carrying the node's message is returned. Transport
// errors are returned as they are.
func (c *Client) SendTransactionWithConfig(ctx context.Context, tx Serializable, cfg TransactionConfig) (solanago.Signature, error) {
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return solanago.Signature{}, fmt.Errorf("serialize transaction: %w", err)
	}
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingBase64
	}
	encoded, err := encodeTransaction(serialized, cfg.Encoding)
	if err != nil {
		return solanago.Signature{}, err
	}

	raw, err := c.base.CallRaw(ctx, SendTransaction.String(), encoded, cfg)
	if err != nil {
		return solanago.Signature{}, err
	}
	return c.parseSendResponse(raw)
}

func (c *Client) parseSendResponse(raw []byte) (solanago.Signature, error) {
	res := rpc.DecodeResult[string](raw)
	switch res.Kind {
	case rpc.ResultSuccess:
		return parseSignature(res.Value)
	case rpc.ResultFailure:
		txErr := newTransactionError(res.Err)
		for i, line := range txErr.Logs {
			c.logger.Debug("Transaction log", "index", i, "log", line)
		}
		return solanago.Signature{}, txErr
	default:
		_, err := res.Unwrap()
		return solanago.Signature{}, fmt.Errorf("failed to parse sendTransaction response: %w", err)
	}
}

func newTransactionError(e *rpc.RPCError) *TransactionError {
	txErr := &TransactionError{Code: e.Code, Message: e.Message}
	if len(e.Data) == 0 {
		return txErr
	}
	var data struct {
		Err  json.RawMessage `json:"err"`
		Logs []string        `json:"logs"`
	}
	if err := json.Unmarshal(e.Data, &data); err == nil {
		txErr.Err = data.Err
		txErr.Logs = data.Logs
	}
	return txErr
}

func encodeTransaction(serialized []byte, encoding Encoding) (string, error) {
	switch encoding {
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(serialized), nil
	case EncodingBase58:
		return base58.Encode(serialized), nil
	default:
		return "", fmt.Errorf("unsupported transaction encoding %q", encoding)
	}
}
