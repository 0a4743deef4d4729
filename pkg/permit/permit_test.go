// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package permit

import (
	"math/big"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	"github.com/stretchr/testify/require"
)

var (
	chainID  = big.NewInt(421614)
	account  = common.HexToAddress("0xa9706A7A5de3fCf596697ac49062453cF4476CeC")
	currency = common.HexToAddress("0x0000000000000000000000000000000000000dA1")
	registry = common.HexToAddress("0x0000000000000000000000000000000000000B9D")
)

func testPermit() Permit {
	return Permit{
		Currency: currency,
		Spender:  registry,
		Value:    big.NewInt(1000),
		Nonce:    big.NewInt(0),
		Deadline: MaxDeadline,
	}
}

func TestSignAndRecover(t *testing.T) {
	require := require.New(t)
	key, err := crypto.GenerateKey()
	require.NoError(err)
	owner := crypto.PubkeyToAddress(key.PublicKey)
	d := AccountDomain(chainID, account)

	sig, err := Sign(key, d, testPermit())
	require.NoError(err)
	require.Len(sig, SignatureLength)
	require.Contains([]byte{27, 28}, sig[64])

	got, err := Recover(d, testPermit(), sig)
	require.NoError(err)
	require.Equal(owner, got)
	require.NoError(Check(d, testPermit(), sig, owner, time.Now()))
}

func TestCheckRejectsTampering(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey)
	d := AccountDomain(chainID, account)
	sig, err := Sign(key, d, testPermit())
	require.NoError(t, err)

	otherValue := testPermit()
	otherValue.Value = big.NewInt(1001)
	otherNonce := testPermit()
	otherNonce.Nonce = big.NewInt(1)

	tests := []struct {
		name   string
		domain Domain
		permit Permit
		sig    []byte
	}{
		{"value", d, otherValue, sig},
		{"nonce", d, otherNonce, sig},
		{"verifying contract", AccountDomain(chainID, registry), testPermit(), sig},
		{"chain", AccountDomain(big.NewInt(1), account), testPermit(), sig},
		{"short signature", d, testPermit(), sig[:64]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.domain, tt.permit, tt.sig, owner, time.Now())
			require.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestCheckExpired(t *testing.T) {
	require := require.New(t)
	key, err := crypto.GenerateKey()
	require.NoError(err)
	owner := crypto.PubkeyToAddress(key.PublicKey)
	d := AccountDomain(chainID, account)

	now := time.Unix(1_700_000_000, 0)
	p := testPermit()
	p.Deadline = big.NewInt(now.Unix() - 1)
	sig, err := Sign(key, d, p)
	require.NoError(err)
	require.ErrorIs(Check(d, p, sig, owner, now), ErrPermitExpired)

	p.Deadline = big.NewInt(now.Unix())
	sig, err = Sign(key, d, p)
	require.NoError(err)
	require.NoError(Check(d, p, sig, owner, now))
}

func TestSeparatorDependsOnAccount(t *testing.T) {
	require := require.New(t)
	a, err := AccountDomain(chainID, account).Separator()
	require.NoError(err)
	b, err := AccountDomain(chainID, registry).Separator()
	require.NoError(err)
	require.NotEqual(a, b)
}
