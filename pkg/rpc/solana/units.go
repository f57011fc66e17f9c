package solana

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol uint64 = 1_000_000_000

var lamportsPerSolDec = decimal.NewFromInt(int64(LamportsPerSol))

// LamportsToSol converts a lamport amount into SOL without rounding.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimalFromUint64(lamports).Div(lamportsPerSolDec)
}

// SolToLamports converts a SOL amount into lamports. Fractions below one
// lamport and negative amounts are rejected.
func SolToLamports(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", sol)
	}
	lamports := sol.Mul(lamportsPerSolDec)
	if !lamports.Equal(lamports.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than 9 decimal places", sol)
	}
	if lamports.GreaterThan(decimalFromUint64(^uint64(0))) {
		return 0, fmt.Errorf("amount %s overflows lamports", sol)
	}
	return lamports.BigInt().Uint64(), nil
}

func decimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
