// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/facts"
	"go.uber.org/zap"
)

// PledgeFunded is emitted by Pledge with the amount moved into the treasury.
type PledgeFunded struct {
	PoolID  uint64         `json:"poolId"`
	Account common.Address `json:"account"`
	Amount  *big.Int       `json:"amount"`
	TierID  uint64         `json:"tierId"`
}

// Pledge commits amount of the raise currency from the caller's account to pool id.
// The account must present a permit for exactly amount, signed by its owner, with
// the registry as spender. Funds move to the treasury immediately.
func (r *Registry) Pledge(
	ctx context.Context,
	caller common.Address,
	id uint64,
	amount *big.Int,
	deadline *big.Int,
	sig []byte,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pool(id)
	if err != nil {
		return err
	}
	if p.state.Started() {
		return ErrLotteryIsPending
	}
	now := r.now()
	if now.Before(p.cfg.PledgingStart) || now.After(p.cfg.PledgingEnd) {
		return ErrNotInPledgingWindow
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w(%v)", ErrInvalidPledgeAmount, amount)
	}
	tier := -1
	for i, t := range p.cfg.PledgeTiers {
		if t.contains(amount) {
			tier = i
			break
		}
	}
	if tier < 0 {
		return fmt.Errorf("%w(%s)", ErrInvalidPledgeAmount, amount)
	}
	if _, ok := p.pledges[caller]; ok {
		return ErrAlreadyPledged
	}

	acc, err := r.accounts.Lookup(caller)
	if err != nil {
		return err
	}
	if stake := r.bank.BalanceOf(r.cfg.GovernanceToken, caller); stake.Cmp(r.cfg.MinimumStake) < 0 {
		return fmt.Errorf("%w: holds %s, needs %s", ErrInsufficientStake, stake, r.cfg.MinimumStake)
	}
	if balance := r.bank.BalanceOf(r.cfg.Currency, caller); balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: holds %s, pledging %s", ErrInsufficientBalance, balance, amount)
	}
	if err := acc.VerifyAndConsumePermit(r.cfg.Currency, r.cfg.Address, amount, deadline, sig, now); err != nil {
		return err
	}
	if err := r.bank.Transfer(r.cfg.Currency, caller, r.cfg.Treasury, amount); err != nil {
		return fmt.Errorf("failed to move pledge to treasury: %w", err)
	}

	tierID := p.cfg.PledgeTiers[tier].TierID
	p.pledges[caller] = &Pledge{
		Account:   caller,
		Amount:    new(big.Int).Set(amount),
		TierID:    tierID,
		CreatedAt: now,
	}
	p.order = append(p.order, caller)
	p.totalPledged.Add(p.totalPledged, amount)

	r.log.Info("pledge funded",
		zap.Uint64("pool-id", id),
		zap.Stringer("account", caller),
		zap.Stringer("amount", amount),
	)
	r.emit(ctx, facts.PledgeFunded, id, PledgeFunded{
		PoolID:  id,
		Account: caller,
		Amount:  new(big.Int).Set(amount),
		TierID:  tierID,
	})
	return nil
}

// PledgeOf returns the pledge acc made to pool id.
func (r *Registry) PledgeOf(id uint64, acc common.Address) (Pledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pool(id)
	if err != nil {
		return Pledge{}, err
	}
	pl, ok := p.pledges[acc]
	if !ok {
		return Pledge{}, ErrPledgeNotFound
	}
	return pl.clone(), nil
}

// Pledges lists a pool's pledges in the order they were made.
func (r *Registry) Pledges(id uint64) ([]Pledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pool(id)
	if err != nil {
		return nil, err
	}
	out := make([]Pledge, len(p.order))
	for i, acc := range p.order {
		out[i] = p.pledges[acc].clone()
	}
	return out, nil
}
