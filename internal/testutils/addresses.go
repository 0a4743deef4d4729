// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	ethcrypto "github.com/luxfi/geth/crypto"
	"github.com/luxfi/launchpad/pkg/account"
	"github.com/luxfi/launchpad/pkg/permit"
)

func GenerateEthAddrs(count int) ([]common.Address, error) {
	addrs := make([]common.Address, count)
	for i := 0; i < count; i++ {
		pk, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		addrs[i] = common.Address(crypto.PubkeyToAddress(pk.PublicKey))
	}
	return addrs, nil
}

// Participant is a key pair that owns one smart account.
type Participant struct {
	Key     *ecdsa.PrivateKey
	Owner   common.Address
	Account *account.SmartAccount
}

func (p Participant) Address() common.Address {
	return p.Account.Address()
}

// SignPermit signs the account's next permit for value.
func (p Participant) SignPermit(currency, spender common.Address, value, deadline *big.Int) ([]byte, error) {
	return permit.Sign(p.Key, p.Account.Domain(), p.Account.PermitFor(currency, spender, value, deadline))
}

// NewParticipants creates count owners and one account each in dir.
func NewParticipants(dir *account.Directory, count int) ([]Participant, error) {
	out := make([]Participant, count)
	for i := range out {
		key, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		owner := ethcrypto.PubkeyToAddress(key.PublicKey)
		acc, err := dir.Create(owner, 0)
		if err != nil {
			return nil, err
		}
		out[i] = Participant{Key: key, Owner: owner, Account: acc}
	}
	return out, nil
}
