// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger keeps fungible token balances for the local launchpad network.
// It models balance movement only; allowances and hooks live elsewhere.
package ledger

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/fault"
)

var (
	ErrInsufficientBalance = fault.New(fault.KindResource, "InsufficientBalance")
	ErrInvalidAmount       = fault.New(fault.KindValidation, "InvalidAmount")
)

type balances map[common.Address]map[common.Address]*big.Int

// Ledger is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	balances balances
}

func New() *Ledger {
	return &Ledger{balances: make(balances)}
}

// BalanceOf returns a copy of holder's balance of token.
func (l *Ledger) BalanceOf(token, holder common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[token][holder]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// TotalSupply sums every balance of token.
func (l *Ledger) TotalSupply(token common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := new(big.Int)
	for _, b := range l.balances[token] {
		total.Add(total, b)
	}
	return total
}

// Mint credits amount of token to holder.
func (l *Ledger) Mint(token, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(token, to, amount)
	return nil
}

// Transfer moves amount of token from one holder to another. Nothing moves on error.
func (l *Ledger) Transfer(token, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	have := l.balances[token][from]
	if have == nil || have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %v of %s, needs %s",
			ErrInsufficientBalance, from.Hex(), balanceOrZero(have), token.Hex(), amount)
	}
	have.Sub(have, amount)
	l.credit(token, to, amount)
	return nil
}

func (l *Ledger) credit(token, to common.Address, amount *big.Int) {
	holders, ok := l.balances[token]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		l.balances[token] = holders
	}
	b, ok := holders[to]
	if !ok {
		b = new(big.Int)
		holders[to] = b
	}
	b.Add(b, amount)
}

func balanceOrZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return json.Marshal(l.balances)
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	in := make(balances)
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = in
	return nil
}
