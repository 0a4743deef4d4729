// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package account models the token-bound smart accounts participants pledge from.
//
// The launchpad only consumes two capabilities of an account: who owns it and
// whether a currency permit it presents is valid. Each consumed permit bumps the
// account nonce so a signature can never be replayed.
package account

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	"github.com/luxfi/launchpad/pkg/fault"
	"github.com/luxfi/launchpad/pkg/permit"
)

var (
	ErrUnknownAccount = fault.New(fault.KindValidation, "UnknownAccount")
	ErrAccountExists  = fault.New(fault.KindState, "AccountExists")
)

// Account is the capability surface the registry consumes.
type Account interface {
	Address() common.Address
	Owner() common.Address
	Nonce() *big.Int
	VerifyAndConsumePermit(currency, spender common.Address, value, deadline *big.Int, sig []byte, now time.Time) error
}

// Resolver finds the account behind a caller address.
type Resolver interface {
	Lookup(addr common.Address) (Account, error)
}

// SmartAccount signs permits under the "BionicAccount" EIP-712 domain.
type SmartAccount struct {
	mu      sync.Mutex
	address common.Address
	owner   common.Address
	chainID *big.Int
	nonce   uint64
}

// DeriveAddress returns the deterministic account address for owner and salt.
func DeriveAddress(owner common.Address, salt uint64) common.Address {
	return crypto.CreateAddress(owner, salt)
}

func NewSmartAccount(address, owner common.Address, chainID *big.Int) *SmartAccount {
	return &SmartAccount{address: address, owner: owner, chainID: new(big.Int).Set(chainID)}
}

func (a *SmartAccount) Address() common.Address { return a.address }

func (a *SmartAccount) Owner() common.Address { return a.owner }

func (a *SmartAccount) Nonce() *big.Int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return new(big.Int).SetUint64(a.nonce)
}

// Domain is the signing domain for this account's permits.
func (a *SmartAccount) Domain() permit.Domain {
	return permit.AccountDomain(a.chainID, a.address)
}

// PermitFor builds the message the owner must sign for the next permit.
func (a *SmartAccount) PermitFor(currency, spender common.Address, value, deadline *big.Int) permit.Permit {
	return permit.Permit{
		Currency: currency,
		Spender:  spender,
		Value:    value,
		Nonce:    a.Nonce(),
		Deadline: deadline,
	}
}

// VerifyAndConsumePermit checks the owner's signature over the permit built from the
// current nonce and consumes the nonce on success.
func (a *SmartAccount) VerifyAndConsumePermit(
	currency common.Address,
	spender common.Address,
	value *big.Int,
	deadline *big.Int,
	sig []byte,
	now time.Time,
) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := permit.Permit{
		Currency: currency,
		Spender:  spender,
		Value:    value,
		Nonce:    new(big.Int).SetUint64(a.nonce),
		Deadline: deadline,
	}
	if err := permit.Check(a.Domain(), p, sig, a.owner, now); err != nil {
		return err
	}
	a.nonce++
	return nil
}

type accountJSON struct {
	Address common.Address `json:"address"`
	Owner   common.Address `json:"owner"`
	ChainID *big.Int       `json:"chainId"`
	Nonce   uint64         `json:"nonce"`
}

// Directory holds every known smart account.
type Directory struct {
	mu       sync.RWMutex
	chainID  *big.Int
	accounts map[common.Address]*SmartAccount
}

// NewDirectory creates accounts bound to chainID. A nil chainID is zero.
func NewDirectory(chainID *big.Int) *Directory {
	id := new(big.Int)
	if chainID != nil {
		id.Set(chainID)
	}
	return &Directory{
		chainID:  id,
		accounts: make(map[common.Address]*SmartAccount),
	}
}

// Create registers a new account for owner at DeriveAddress(owner, salt).
func (d *Directory) Create(owner common.Address, salt uint64) (*SmartAccount, error) {
	addr := DeriveAddress(owner, salt)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.accounts[addr]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, addr.Hex())
	}
	acc := NewSmartAccount(addr, owner, d.chainID)
	d.accounts[addr] = acc
	return acc, nil
}

// Get returns the concrete account stored at addr.
func (d *Directory) Get(addr common.Address) (*SmartAccount, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.accounts[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, addr.Hex())
	}
	return acc, nil
}

func (d *Directory) Lookup(addr common.Address) (Account, error) {
	acc, err := d.Get(addr)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// List returns every account in address order.
func (d *Directory) List() []*SmartAccount {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*SmartAccount, 0, len(d.accounts))
	for _, acc := range d.accounts {
		out = append(out, acc)
	}
	slices.SortFunc(out, func(a, b *SmartAccount) int {
		return bytes.Compare(a.address[:], b.address[:])
	})
	return out
}

func (d *Directory) MarshalJSON() ([]byte, error) {
	list := d.List()
	out := make([]accountJSON, 0, len(list))
	for _, acc := range list {
		out = append(out, accountJSON{
			Address: acc.address,
			Owner:   acc.owner,
			ChainID: acc.chainID,
			Nonce:   acc.Nonce().Uint64(),
		})
	}
	return json.Marshal(out)
}

func (d *Directory) UnmarshalJSON(data []byte) error {
	var in []accountJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts = make(map[common.Address]*SmartAccount, len(in))
	for _, a := range in {
		chainID := a.ChainID
		if chainID == nil {
			chainID = d.chainID
		}
		if chainID == nil {
			chainID = new(big.Int)
		}
		acc := NewSmartAccount(a.Address, a.Owner, chainID)
		acc.nonce = a.Nonce
		d.accounts[a.Address] = acc
	}
	return nil
}
