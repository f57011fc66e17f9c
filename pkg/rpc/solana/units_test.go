package solana

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsToSol(t *testing.T) {
	assert.Equal(t, "1", LamportsToSol(LamportsPerSol).String())
	assert.Equal(t, "0.000000001", LamportsToSol(1).String())
	assert.Equal(t, "18446744073.709551615", LamportsToSol(^uint64(0)).String())
}

func TestSolToLamports(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "1", want: LamportsPerSol},
		{in: "0.5", want: 500_000_000},
		{in: "0.000000001", want: 1},
		{in: "0", want: 0},
		{in: "0.0000000001", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "18446744074", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SolToLamports(decimal.RequireFromString(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
