package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fystack/solana-rpc-client/pkg/events"
	"github.com/fystack/solana-rpc-client/pkg/rpc/solana"
)

var stdout io.Writer = os.Stdout

type BalanceCmd struct {
	Address string `arg:"" help:"Account address."`
}

func (c *BalanceCmd) Run(g *Globals) error {
	pk, err := solanago.PublicKeyFromBase58(c.Address)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		lamports, err := a.client.GetBalance(ctx, pk)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d lamports (%s SOL)\n", lamports, solana.LamportsToSol(lamports))
		return nil
	})
}

type AccountCmd struct {
	Address string `arg:"" help:"Account address."`
}

func (c *AccountCmd) Run(g *Globals) error {
	pk, err := solanago.PublicKeyFromBase58(c.Address)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		account, err := a.client.GetAccount(ctx, pk)
		if err != nil {
			return err
		}
		return printJSON(account)
	})
}

type AccountsCmd struct {
	Addresses []string `arg:"" help:"Account addresses."`
}

func (c *AccountsCmd) Run(g *Globals) error {
	keys, err := parsePublicKeys(c.Addresses)
	if err != nil {
		return err
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		accounts, err := a.client.GetMultipleAccounts(ctx, keys)
		if err != nil {
			return err
		}
		return printJSON(accounts)
	})
}

type OwnerCmd struct {
	Address string `arg:"" help:"Account address."`
}

func (c *OwnerCmd) Run(g *Globals) error {
	pk, err := solanago.PublicKeyFromBase58(c.Address)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		owner, err := a.client.GetOwner(ctx, pk)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, owner)
		return nil
	})
}

type SlotCmd struct{}

func (c *SlotCmd) Run(g *Globals) error {
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		slot, err := a.client.GetSlot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, slot)
		return nil
	})
}

type BlockTimeCmd struct {
	Slot uint64 `arg:"" help:"Slot number."`
}

func (c *BlockTimeCmd) Run(g *Globals) error {
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		ts, err := a.client.GetBlockTime(ctx, c.Slot)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d (%s)\n", ts, time.Unix(ts, 0).UTC().Format(time.RFC3339))
		return nil
	})
}

type RentExemptCmd struct {
	Size uint64 `arg:"" help:"Account data length in bytes."`
}

func (c *RentExemptCmd) Run(g *Globals) error {
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		lamports, err := a.client.GetMinimumBalanceForRentExemption(ctx, c.Size)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d lamports (%s SOL)\n", lamports, solana.LamportsToSol(lamports))
		return nil
	})
}

type BlockhashCmd struct{}

func (c *BlockhashCmd) Run(g *Globals) error {
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		hash, err := a.client.GetLatestBlockhash(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, hash)
		return nil
	})
}

type AirdropCmd struct {
	Address string `arg:"" help:"Recipient address."`
	Amount  string `arg:"" help:"Amount in SOL, e.g. 1.5."`
	Wait    bool   `help:"Wait for the airdrop to reach the commitment." name:"wait"`
}

func (c *AirdropCmd) Run(g *Globals) error {
	pk, err := solanago.PublicKeyFromBase58(c.Address)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	sol, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	lamports, err := solana.SolToLamports(sol)
	if err != nil {
		return err
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		hash, err := a.client.GetLatestBlockhash(ctx)
		if err != nil {
			return err
		}
		sig, err := a.client.RequestAirdrop(ctx, pk, lamports, hash)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, sig)
		if !c.Wait {
			return nil
		}
		return a.client.ConfirmTransaction(ctx, sig)
	})
}

type SendCmd struct {
	File      string `arg:"" type:"existingfile" help:"File holding a signed transaction in base64."`
	Unchecked bool   `help:"Skip preflight simulation." name:"unchecked"`
	Confirm   bool   `help:"Wait for the transaction to reach the commitment." name:"confirm"`
}

func (c *SendCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	tx, err := decodeTransaction(data)
	if err != nil {
		return err
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()

		var sig solanago.Signature
		switch {
		case c.Unchecked:
			sig, err = a.client.SendTransactionUnchecked(ctx, tx)
		case c.Confirm:
			sig, err = a.client.SendAndConfirmTransaction(ctx, tx)
			if err == nil {
				fmt.Fprintln(stdout, sig)
				return nil
			}
		default:
			sig, err = a.client.SendTransaction(ctx, tx)
		}
		if err != nil {
			if sig != (solanago.Signature{}) {
				fmt.Fprintln(stdout, sig)
			}
			return err
		}
		fmt.Fprintln(stdout, sig)
		if c.Unchecked && c.Confirm {
			return a.client.ConfirmTransaction(ctx, sig)
		}
		return nil
	})
}

type StatusCmd struct {
	Signature string `arg:"" help:"Transaction signature."`
}

func (c *StatusCmd) Run(g *Globals) error {
	sig, err := solanago.SignatureFromBase58(c.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		status, err := a.client.GetSignatureStatus(ctx, sig)
		if err != nil {
			return err
		}
		if status == nil {
			fmt.Fprintln(stdout, "unknown")
			return nil
		}
		commitment := a.client.Config().Commitment
		return printJSON(map[string]any{
			"slot":               status.Slot,
			"confirmations":      status.Confirmations,
			"confirmationStatus": status.EffectiveConfirmationStatus(),
			"err":                status.Err,
			"succeeded":          status.Succeeded(),
			"satisfies":          map[solana.Commitment]bool{commitment: status.Satisfies(commitment)},
		})
	})
}

type ConfirmCmd struct {
	Signature string `arg:"" help:"Transaction signature."`
}

func (c *ConfirmCmd) Run(g *Globals) error {
	sig, err := solanago.SignatureFromBase58(c.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	return withApp(g, func(a *app) error {
		ctx, cancel := signalContext()
		defer cancel()
		if err := a.client.ConfirmTransaction(ctx, sig); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "confirmed")
		return nil
	})
}

type EventsCmd struct {
	NATSURL string `help:"NATS server URL, defaults to the configured one." name:"nats-url"`
	Subject string `help:"Subject to subscribe to, defaults to the configured one." name:"subject"`
}

func (c *EventsCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	natsCfg := cfg.Nats.Events("solrpc-events")
	natsCfg.URL = lo.Ternary(c.NATSURL != "", c.NATSURL, natsCfg.URL)
	subject := lo.Ternary(c.Subject != "", c.Subject, natsCfg.Subject)

	nc, err := events.Connect(natsCfg)
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		var event events.ConfirmationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Error("Unmarshal error", "err", err)
			return
		}
		slog.Info("Received event", "type", event.Type, "signature", event.Signature, "slot", event.Slot)
		fmt.Fprintf(stdout, "%s %s %s slot=%d %s\n",
			time.Unix(event.Timestamp, 0).UTC().Format(time.RFC3339),
			event.Type, event.Signature, event.Slot, event.Error)
	})
	if err != nil {
		return err
	}
	slog.Info("Subscribed to", "subject", subject)

	ctx, cancel := signalContext()
	defer cancel()
	<-ctx.Done()
	return nil
}

func withApp(g *Globals, fn func(a *app) error) error {
	a, err := g.setup()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func parsePublicKeys(addresses []string) ([]solanago.PublicKey, error) {
	keys := make([]solanago.PublicKey, 0, len(addresses))
	for _, addr := range addresses {
		pk, err := solanago.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", addr, err)
		}
		keys = append(keys, pk)
	}
	return keys, nil
}

// decodeTransaction parses a base64 wire transaction.
func decodeTransaction(data []byte) (*solanago.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("transaction is not base64: %w", err)
	}
	tx, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return tx, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
