package solana

import (
	"fmt"
	"strings"
)

// Network selects one of the public Solana clusters or a local validator.
type Network int

const (
	Localhost Network = iota
	Testnet
	Devnet
	Mainnet
)

// URL returns the cluster's JSON-RPC endpoint, or "" for an unknown
// network. A client built for an unknown network fails every request.
func (n Network) URL() string {
	switch n {
	case Localhost:
		return "http://localhost:8899"
	case Testnet:
		return "https://api.testnet.solana.com"
	case Devnet:
		return "https://api.devnet.solana.com"
	case Mainnet:
		return "https://api.mainnet-beta.solana.com"
	default:
		return ""
	}
}

func (n Network) String() string {
	switch n {
	case Localhost:
		return "localhost"
	case Testnet:
		return "testnet"
	case Devnet:
		return "devnet"
	case Mainnet:
		return "mainnet"
	default:
		return fmt.Sprintf("network(%d)", int(n))
	}
}

// ParseNetwork accepts the names printed by String; "mainnet-beta" and
// "localnet" are accepted as aliases.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "localhost", "localnet", "local":
		return Localhost, nil
	case "testnet":
		return Testnet, nil
	case "devnet":
		return Devnet, nil
	case "mainnet", "mainnet-beta":
		return Mainnet, nil
	default:
		return 0, fmt.Errorf("unknown network %q", s)
	}
}
