// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	"github.com/luxfi/launchpad/pkg/permit"
	"github.com/stretchr/testify/require"
)

var (
	chainID  = big.NewInt(421614)
	currency = common.HexToAddress("0x0000000000000000000000000000000000000dA1")
	spender  = common.HexToAddress("0x0000000000000000000000000000000000000B9D")
)

func TestPermitConsumesNonce(t *testing.T) {
	require := require.New(t)
	key, err := crypto.GenerateKey()
	require.NoError(err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	dir := NewDirectory(chainID)
	acc, err := dir.Create(owner, 0)
	require.NoError(err)
	require.Equal(DeriveAddress(owner, 0), acc.Address())

	value := big.NewInt(1000)
	sig, err := permit.Sign(key, acc.Domain(), acc.PermitFor(currency, spender, value, permit.MaxDeadline))
	require.NoError(err)

	now := time.Now()
	require.NoError(acc.VerifyAndConsumePermit(currency, spender, value, permit.MaxDeadline, sig, now))
	require.Equal(uint64(1), acc.Nonce().Uint64())

	// replaying the same signature fails because the nonce moved on
	err = acc.VerifyAndConsumePermit(currency, spender, value, permit.MaxDeadline, sig, now)
	require.ErrorIs(err, permit.ErrInvalidSignature)
	require.Equal(uint64(1), acc.Nonce().Uint64())
}

func TestPermitFromStrangerRejected(t *testing.T) {
	require := require.New(t)
	ownerKey, err := crypto.GenerateKey()
	require.NoError(err)
	strangerKey, err := crypto.GenerateKey()
	require.NoError(err)

	dir := NewDirectory(chainID)
	acc, err := dir.Create(crypto.PubkeyToAddress(ownerKey.PublicKey), 7)
	require.NoError(err)

	value := big.NewInt(10)
	sig, err := permit.Sign(strangerKey, acc.Domain(), acc.PermitFor(currency, spender, value, permit.MaxDeadline))
	require.NoError(err)
	err = acc.VerifyAndConsumePermit(currency, spender, value, permit.MaxDeadline, sig, time.Now())
	require.ErrorIs(err, permit.ErrInvalidSignature)
	require.Zero(acc.Nonce().Sign())
}

func TestDirectory(t *testing.T) {
	require := require.New(t)
	owner := common.HexToAddress("0x1cf71Ae69ed0c16253f1523a4B5c2cA4fcd967BA")
	dir := NewDirectory(chainID)

	acc, err := dir.Create(owner, 1)
	require.NoError(err)
	_, err = dir.Create(owner, 1)
	require.ErrorIs(err, ErrAccountExists)

	got, err := dir.Lookup(acc.Address())
	require.NoError(err)
	require.Equal(owner, got.Owner())

	_, err = dir.Lookup(owner)
	require.ErrorIs(err, ErrUnknownAccount)

	acc.nonce = 3
	data, err := json.Marshal(dir)
	require.NoError(err)
	restored := NewDirectory(chainID)
	require.NoError(json.Unmarshal(data, restored))
	again, err := restored.Get(acc.Address())
	require.NoError(err)
	require.Equal(uint64(3), again.Nonce().Uint64())
	require.Equal(owner, again.Owner())
}
