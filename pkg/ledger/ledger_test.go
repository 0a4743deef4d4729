// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

var (
	usdt  = common.HexToAddress("0x0000000000000000000000000000000000001001")
	alice = common.HexToAddress("0x0000000000000000000000000000000000002001")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000002002")
)

func TestTransfer(t *testing.T) {
	require := require.New(t)
	l := New()
	require.NoError(l.Mint(usdt, alice, big.NewInt(5000)))

	require.NoError(l.Transfer(usdt, alice, bob, big.NewInt(1200)))
	require.Equal(big.NewInt(3800), l.BalanceOf(usdt, alice))
	require.Equal(big.NewInt(1200), l.BalanceOf(usdt, bob))
	require.Equal(big.NewInt(5000), l.TotalSupply(usdt))
}

func TestTransferInsufficient(t *testing.T) {
	require := require.New(t)
	l := New()
	require.NoError(l.Mint(usdt, alice, big.NewInt(10)))

	err := l.Transfer(usdt, alice, bob, big.NewInt(11))
	require.ErrorIs(err, ErrInsufficientBalance)
	require.Equal(big.NewInt(10), l.BalanceOf(usdt, alice))
	require.Equal(0, l.BalanceOf(usdt, bob).Sign())

	require.ErrorIs(l.Transfer(usdt, bob, alice, big.NewInt(1)), ErrInsufficientBalance)
}

func TestInvalidAmounts(t *testing.T) {
	require := require.New(t)
	l := New()
	require.ErrorIs(l.Mint(usdt, alice, big.NewInt(0)), ErrInvalidAmount)
	require.ErrorIs(l.Mint(usdt, alice, nil), ErrInvalidAmount)
	require.ErrorIs(l.Transfer(usdt, alice, bob, big.NewInt(-1)), ErrInvalidAmount)
	require.NoError(l.Transfer(usdt, alice, bob, big.NewInt(0)))
}

func TestBalanceIsACopy(t *testing.T) {
	require := require.New(t)
	l := New()
	require.NoError(l.Mint(usdt, alice, big.NewInt(7)))
	b := l.BalanceOf(usdt, alice)
	b.SetInt64(1_000_000)
	require.Equal(big.NewInt(7), l.BalanceOf(usdt, alice))
}

func TestLedgerJSON(t *testing.T) {
	require := require.New(t)
	l := New()
	require.NoError(l.Mint(usdt, alice, big.NewInt(42)))

	data, err := json.Marshal(l)
	require.NoError(err)
	restored := New()
	require.NoError(json.Unmarshal(data, restored))
	require.Equal(big.NewInt(42), restored.BalanceOf(usdt, alice))
}
