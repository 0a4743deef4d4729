// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/statemachine"
	"go.uber.org/zap"
)

type Refund struct {
	Account common.Address `json:"account"`
	Amount  *big.Int       `json:"amount"`
}

// LosersRefunded is emitted once per pool when it settles.
type LosersRefunded struct {
	PoolID  uint64   `json:"poolId"`
	Refunds []Refund `json:"refunds"`
	Total   *big.Int `json:"total"`
}

// RefundLosers returns every losing pledge from the treasury and settles the pool.
// Winning pledges stay in the treasury. It can run once per pool.
func (r *Registry) RefundLosers(ctx context.Context, caller common.Address, id uint64) ([]Refund, error) {
	if err := r.roles.Check(access.BrokerRole, caller); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pool(id)
	if err != nil {
		return nil, err
	}
	if p.state != statemachine.Fulfilled {
		return nil, ErrLotteryIsPending
	}

	won := make(map[common.Address]struct{}, len(p.winners))
	for _, w := range p.winners {
		won[w] = struct{}{}
	}
	var (
		refunds []Refund
		total   = new(big.Int)
	)
	for _, acc := range p.order {
		if _, ok := won[acc]; ok {
			continue
		}
		amount := p.pledges[acc].Amount
		refunds = append(refunds, Refund{Account: acc, Amount: new(big.Int).Set(amount)})
		total.Add(total, amount)
	}
	if held := r.bank.BalanceOf(r.cfg.Currency, r.cfg.Treasury); held.Cmp(total) < 0 {
		return nil, fmt.Errorf("%w: treasury holds %s, refunds need %s", ErrTreasuryInsufficient, held, total)
	}

	for i, refund := range refunds {
		if err := r.bank.Transfer(r.cfg.Currency, r.cfg.Treasury, refund.Account, refund.Amount); err != nil {
			r.unwind(refunds[:i])
			return nil, fmt.Errorf("failed to refund %s: %w", refund.Account, err)
		}
	}
	for _, refund := range refunds {
		p.pledges[refund.Account].Refunded = true
	}
	p.advance(statemachine.Settled)

	r.log.Info("losers refunded",
		zap.Uint64("pool-id", id),
		zap.Int("refunds", len(refunds)),
		zap.Stringer("total", total),
	)
	r.emit(ctx, facts.LosersRefunded, id, LosersRefunded{PoolID: id, Refunds: refunds, Total: total})
	return refunds, nil
}

// unwind takes back refunds that already went out when a later one failed.
func (r *Registry) unwind(done []Refund) {
	for _, refund := range done {
		if err := r.bank.Transfer(r.cfg.Currency, refund.Account, r.cfg.Treasury, refund.Amount); err != nil {
			r.log.Error("failed to unwind refund",
				zap.Stringer("account", refund.Account),
				zap.Stringer("amount", refund.Amount),
				zap.Error(err),
			)
		}
	}
}
