package main

import (
	"github.com/alecthomas/kong"
)

// --- CLI definitions --- //

type Globals struct {
	Config     string `help:"Path to config file." name:"config" type:"path"`
	Network    string `help:"Cluster: localhost, testnet, devnet or mainnet." name:"network"`
	Endpoint   string `help:"JSON-RPC endpoint, overrides the network URL." name:"endpoint"`
	Commitment string `help:"Commitment: processed, confirmed or finalized." name:"commitment"`
	Encoding   string `help:"Account data encoding." name:"encoding"`
	Debug      bool   `help:"Enable debug logs." name:"debug"`
}

type CLI struct {
	Globals

	Balance    BalanceCmd    `cmd:"" help:"Print an account balance."`
	Account    AccountCmd    `cmd:"" help:"Print an account."`
	Accounts   AccountsCmd   `cmd:"" help:"Print several accounts in order."`
	Owner      OwnerCmd      `cmd:"" help:"Print the program owning an account."`
	Slot       SlotCmd       `cmd:"" help:"Print the current slot."`
	BlockTime  BlockTimeCmd  `cmd:"" name:"block-time" help:"Print the production time of a slot."`
	RentExempt RentExemptCmd `cmd:"" name:"rent-exempt" help:"Print the rent-exempt minimum for a data size."`
	Blockhash  BlockhashCmd  `cmd:"" help:"Print a recent blockhash."`
	Airdrop    AirdropCmd    `cmd:"" help:"Request SOL from the cluster faucet."`
	Send       SendCmd       `cmd:"" help:"Submit a signed base64 transaction."`
	Status     StatusCmd     `cmd:"" help:"Print the status of a transaction signature."`
	Confirm    ConfirmCmd    `cmd:"" help:"Wait until a signature reaches the commitment."`
	Events     EventsCmd     `cmd:"" help:"Print confirmation events published on NATS."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("solrpc"),
		kong.Description("Solana JSON-RPC client."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
