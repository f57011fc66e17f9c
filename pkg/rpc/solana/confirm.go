package solana

import (
	"context"
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/fystack/solana-rpc-client/pkg/events"
	"github.com/fystack/solana-rpc-client/pkg/retry"
)

// ConfirmTransaction polls the status of sig until it meets the client's
// commitment.
//
// A status the node has not seen yet counts as pending. A transaction that
// reached the commitment with an execution error ends polling with a
// *TransactionFailedError. Running out of attempts, or out of the configured
// timeout, gives ErrConfirmationTimeout. Errors from the node or the
// transport stop polling and are returned as they are.
func (c *Client) ConfirmTransaction(ctx context.Context, sig solanago.Signature) error {
	cfg := c.confirm
	commitment := c.statusCommitment()

	pollCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var final *TransactionStatus
	err := retry.Poll(pollCtx, retry.PollConfig{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.MaxAttempts,
		OnPending: func(attempt int) {
			c.logger.Debug("Transaction not confirmed yet",
				"signature", sig.String(),
				"attempt", attempt,
				"commitment", commitment,
			)
		},
	}, func(ctx context.Context) (bool, error) {
		status, err := c.GetSignatureStatus(ctx, sig)
		if err != nil {
			return false, err
		}
		if status == nil || !status.Satisfies(commitment) {
			return false, nil
		}
		final = status
		return true, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, retry.ErrExhausted),
		errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		c.emit(events.ConfirmationEvent{
			Type:       events.TypeTimeout,
			Signature:  sig.String(),
			Commitment: string(commitment),
		})
		return fmt.Errorf("%w: %s not %s", ErrConfirmationTimeout, sig, commitment)
	default:
		return err
	}

	if !final.Succeeded() {
		failed := &TransactionFailedError{Signature: sig.String(), Slot: final.Slot, Err: final.Err}
		c.emit(events.ConfirmationEvent{
			Type:       events.TypeFailed,
			Signature:  sig.String(),
			Slot:       final.Slot,
			Commitment: string(final.EffectiveConfirmationStatus()),
			Error:      string(final.Err),
		})
		return failed
	}

	c.logger.Info("Transaction confirmed",
		"signature", sig.String(),
		"slot", final.Slot,
		"status", final.EffectiveConfirmationStatus(),
	)
	c.emit(events.ConfirmationEvent{
		Type:       events.TypeConfirmed,
		Signature:  sig.String(),
		Slot:       final.Slot,
		Commitment: string(final.EffectiveConfirmationStatus()),
	})
	return nil
}

// SendAndConfirmTransaction submits tx with preflight and waits for it to
// reach the client's commitment. The signature is returned whenever the
// submission succeeded, including when confirmation then fails.
func (c *Client) SendAndConfirmTransaction(ctx context.Context, tx Serializable) (solanago.Signature, error) {
	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return solanago.Signature{}, err
	}
	if err := c.ConfirmTransaction(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *Client) emit(event events.ConfirmationEvent) {
	event.Network = c.network.String()
	if err := c.emitter.Emit(event); err != nil {
		c.logger.Warn("Failed to emit confirmation event",
			"signature", event.Signature,
			"type", event.Type,
			"error", err,
		)
	}
}
