// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/facts"
	"go.uber.org/zap"
)

// TierPopulated is emitted by AddToTier with the accounts that were new to the tier.
// LastTierPopulated reuses it when the draw fills the open tier.
type TierPopulated struct {
	PoolID   uint64           `json:"poolId"`
	TierID   uint64           `json:"tierId"`
	Accounts []common.Address `json:"accounts"`
}

// AddToTier places pledged accounts into tierID. The open last tier cannot be
// populated by hand. The whole batch is checked before anyone is added.
func (r *Registry) AddToTier(ctx context.Context, caller common.Address, id uint64, tierID uint64, accounts []common.Address) error {
	if err := r.roles.Check(access.BrokerRole, caller); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pool(id)
	if err != nil {
		return err
	}
	tier, ok := p.cfg.TierIndex(tierID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidTier, tierID)
	}
	if tier == p.lastTier() {
		return ErrLastTierIsImplicit
	}
	if p.state.Started() {
		return ErrDrawAlreadyStarted
	}

	var added []common.Address
	seen := make(map[common.Address]struct{}, len(accounts))
	for _, acc := range accounts {
		if _, ok := p.pledges[acc]; !ok {
			return fmt.Errorf("%w: %s", ErrTierMembersMustHavePledged, acc)
		}
		if current, ok := p.tierOf[acc]; ok {
			if current != tier {
				return fmt.Errorf("%w: %s is in tier %d", ErrMembersOnlyPermittedInOneTier, acc, p.cfg.PledgeTiers[current].TierID)
			}
			continue
		}
		if _, dup := seen[acc]; dup {
			continue
		}
		seen[acc] = struct{}{}
		added = append(added, acc)
	}

	for _, acc := range added {
		p.tierOf[acc] = tier
	}
	p.members[tier] = append(p.members[tier], added...)

	r.log.Info("tier populated",
		zap.Uint64("pool-id", id),
		zap.Uint64("tier-id", tierID),
		zap.Int("added", len(added)),
		zap.Int("members", len(p.members[tier])),
	)
	r.emit(ctx, facts.TierPopulated, id, TierPopulated{PoolID: id, TierID: tierID, Accounts: added})
	return nil
}

// TierMembers lists tierID's members in the order they joined.
func (r *Registry) TierMembers(id uint64, tierID uint64) ([]common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pool(id)
	if err != nil {
		return nil, err
	}
	tier, ok := p.cfg.TierIndex(tierID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTier, tierID)
	}
	return slices.Clone(p.members[tier]), nil
}

// unassigned returns pledgers not yet in a tier, in pledge order.
func (p *pool) unassigned() []common.Address {
	var out []common.Address
	for _, acc := range p.order {
		if _, ok := p.tierOf[acc]; !ok {
			out = append(out, acc)
		}
	}
	return out
}
