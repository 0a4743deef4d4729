// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/statemachine"
	"go.uber.org/zap"
)

// PledgeTier bounds the amount a participant may pledge into a tier.
type PledgeTier struct {
	TierID    uint64   `json:"tierId"`
	MinPledge *big.Int `json:"minPledge"`
	MaxPledge *big.Int `json:"maxPledge"`
}

func (t PledgeTier) contains(amount *big.Int) bool {
	return amount.Cmp(t.MinPledge) >= 0 && amount.Cmp(t.MaxPledge) <= 0
}

// PoolConfig is fixed when the pool is added. Tiers are in priority order, highest
// first; the last one is the open tier that collects every unassigned pledger.
type PoolConfig struct {
	RewardToken          common.Address `json:"rewardToken"`
	PledgingStart        time.Time      `json:"pledgingStart"`
	PledgingEnd          time.Time      `json:"pledgingEnd"`
	TokenAllocationStart time.Time      `json:"tokenAllocationStart"`
	MonthlyAllocation    *big.Int       `json:"monthlyAllocation"`
	AllocationMonths     uint64         `json:"allocationMonths"`
	TargetRaise          *big.Int       `json:"targetRaise"`
	RaffleEnabled        bool           `json:"raffleEnabled"`
	// TierWinners is the winner quota of each tier.
	TierWinners []uint64     `json:"tierWinners"`
	PledgeTiers []PledgeTier `json:"pledgeTiers"`
}

// TotalWinners is the number of winners the pool draws.
func (c PoolConfig) TotalWinners() uint64 {
	var total uint64
	for _, n := range c.TierWinners {
		total += n
	}
	return total
}

// TierIndex returns the position of tierID in the priority order.
func (c PoolConfig) TierIndex(tierID uint64) (int, bool) {
	for i, t := range c.PledgeTiers {
		if t.TierID == tierID {
			return i, true
		}
	}
	return 0, false
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPoolConfig, fmt.Sprintf(format, args...))
}

// Validate checks c against now.
func (c PoolConfig) Validate(now time.Time) error {
	switch {
	case !c.PledgingStart.Before(c.PledgingEnd):
		return invalidConfig("pledging start %s is not before pledging end %s", c.PledgingStart, c.PledgingEnd)
	case !c.PledgingStart.After(now):
		return invalidConfig("pledging start %s is not in the future", c.PledgingStart)
	case !c.TokenAllocationStart.After(c.PledgingEnd):
		return invalidConfig("token allocation must start after pledging ends")
	case c.RewardToken == (common.Address{}):
		return invalidConfig("reward token is required")
	case c.AllocationMonths == 0:
		return invalidConfig("allocation month count is zero")
	case c.MonthlyAllocation == nil || c.MonthlyAllocation.Sign() <= 0:
		return invalidConfig("monthly allocation must be positive")
	case c.TargetRaise == nil || c.TargetRaise.Sign() <= 0:
		return invalidConfig("target raise must be positive")
	case len(c.PledgeTiers) == 0:
		return invalidConfig("no pledge tiers")
	case len(c.TierWinners) != len(c.PledgeTiers):
		return invalidConfig("%d winner quotas for %d tiers", len(c.TierWinners), len(c.PledgeTiers))
	case c.TotalWinners() == 0:
		return invalidConfig("pool has no winners")
	}

	for i, t := range c.PledgeTiers {
		if t.MinPledge == nil || t.MaxPledge == nil {
			return invalidConfig("tier %d has no bounds", t.TierID)
		}
		if t.MinPledge.Sign() < 0 || t.MaxPledge.Sign() <= 0 {
			return invalidConfig("tier %d bounds must be positive", t.TierID)
		}
		if t.MinPledge.Cmp(t.MaxPledge) > 0 {
			return invalidConfig("tier %d min %s above max %s", t.TierID, t.MinPledge, t.MaxPledge)
		}
		if i == 0 {
			continue
		}
		prev := c.PledgeTiers[i-1]
		if t.TierID <= prev.TierID {
			return invalidConfig("tier ids must be strictly increasing, got %d after %d", t.TierID, prev.TierID)
		}
		if t.MinPledge.Cmp(prev.MaxPledge) <= 0 {
			return invalidConfig("tier %d bounds overlap or do not increase after tier %d", t.TierID, prev.TierID)
		}
	}
	return nil
}

func (c PoolConfig) clone() PoolConfig {
	out := c
	out.MonthlyAllocation = cloneInt(c.MonthlyAllocation)
	out.TargetRaise = cloneInt(c.TargetRaise)
	out.TierWinners = slices.Clone(c.TierWinners)
	out.PledgeTiers = make([]PledgeTier, len(c.PledgeTiers))
	for i, t := range c.PledgeTiers {
		out.PledgeTiers[i] = PledgeTier{
			TierID:    t.TierID,
			MinPledge: cloneInt(t.MinPledge),
			MaxPledge: cloneInt(t.MaxPledge),
		}
	}
	return out
}

// Tier is one tier's membership, in the order accounts were added.
type Tier struct {
	TierID  uint64           `json:"tierId"`
	Members []common.Address `json:"members"`
}

// Pool is a read-only snapshot.
type Pool struct {
	ID uint64 `json:"id"`
	PoolConfig
	DrawState    statemachine.DrawState `json:"drawState"`
	RequestID    *big.Int               `json:"requestId,omitempty"`
	NumWords     uint32                 `json:"numWords,omitempty"`
	Tiers        []Tier                 `json:"tiers"`
	Winners      []common.Address       `json:"winners"`
	TotalPledged *big.Int               `json:"totalPledged"`
}

// Pledge is one participant's contribution to a pool.
type Pledge struct {
	Account   common.Address `json:"account"`
	Amount    *big.Int       `json:"amount"`
	TierID    uint64         `json:"tierId"`
	CreatedAt time.Time      `json:"createdAt"`
	Refunded  bool           `json:"refunded"`
}

func (p Pledge) clone() Pledge {
	p.Amount = cloneInt(p.Amount)
	return p
}

type pool struct {
	id           uint64
	cfg          PoolConfig
	state        statemachine.DrawState
	requestID    *big.Int
	numWords     uint32
	members      [][]common.Address
	tierOf       map[common.Address]int
	pledges      map[common.Address]*Pledge
	order        []common.Address
	winners      []common.Address
	totalPledged *big.Int
}

func newPool(id uint64, cfg PoolConfig) *pool {
	return &pool{
		id:           id,
		cfg:          cfg,
		members:      make([][]common.Address, len(cfg.PledgeTiers)),
		tierOf:       make(map[common.Address]int),
		pledges:      make(map[common.Address]*Pledge),
		totalPledged: new(big.Int),
	}
}

func (p *pool) lastTier() int {
	return len(p.cfg.PledgeTiers) - 1
}

// advance moves the draw state forward.
func (p *pool) advance(to statemachine.DrawState) {
	if !p.state.CanTransition(to) {
		panic(fmt.Sprintf("pool %d: illegal draw transition %s -> %s", p.id, p.state, to))
	}
	p.state = to
}

func (p *pool) snapshot() Pool {
	tiers := make([]Tier, len(p.members))
	for i, m := range p.members {
		tiers[i] = Tier{TierID: p.cfg.PledgeTiers[i].TierID, Members: slices.Clone(m)}
	}
	return Pool{
		ID:           p.id,
		PoolConfig:   p.cfg.clone(),
		DrawState:    p.state,
		RequestID:    cloneInt(p.requestID),
		NumWords:     p.numWords,
		Tiers:        tiers,
		Winners:      slices.Clone(p.winners),
		TotalPledged: cloneInt(p.totalPledged),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// PoolAdded is emitted by AddPool.
type PoolAdded struct {
	PoolID        uint64         `json:"poolId"`
	RewardToken   common.Address `json:"rewardToken"`
	PledgingStart time.Time      `json:"pledgingStart"`
	PledgingEnd   time.Time      `json:"pledgingEnd"`
	TargetRaise   *big.Int       `json:"targetRaise"`
	TotalWinners  uint64         `json:"totalWinners"`
}

// AddPool registers a new pool and returns its id. Ids are sequential from zero.
func (r *Registry) AddPool(ctx context.Context, caller common.Address, cfg PoolConfig) (uint64, error) {
	if err := r.roles.Check(access.BrokerRole, caller); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := cfg.Validate(r.now()); err != nil {
		return 0, err
	}
	id := uint64(len(r.pools))
	p := newPool(id, cfg.clone())
	r.pools = append(r.pools, p)

	r.log.Info("pool added",
		zap.Uint64("pool-id", id),
		zap.Time("pledging-start", cfg.PledgingStart),
		zap.Time("pledging-end", cfg.PledgingEnd),
		zap.Uint64("winners", cfg.TotalWinners()),
	)
	r.emit(ctx, facts.PoolAdded, id, PoolAdded{
		PoolID:        id,
		RewardToken:   cfg.RewardToken,
		PledgingStart: cfg.PledgingStart,
		PledgingEnd:   cfg.PledgingEnd,
		TargetRaise:   cloneInt(cfg.TargetRaise),
		TotalWinners:  cfg.TotalWinners(),
	})
	return id, nil
}

// PoolCount is the number of pools added so far.
func (r *Registry) PoolCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint64(len(r.pools))
}

func (r *Registry) Pool(id uint64) (Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pool(id)
	if err != nil {
		return Pool{}, err
	}
	return p.snapshot(), nil
}

func (r *Registry) Pools() []Pool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Pool, len(r.pools))
	for i, p := range r.pools {
		out[i] = p.snapshot()
	}
	return out
}

func (r *Registry) DrawState(id uint64) (statemachine.DrawState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pool(id)
	if err != nil {
		return 0, err
	}
	return p.state, nil
}

// Winners is empty until the draw is fulfilled.
func (r *Registry) Winners(id uint64) ([]common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pool(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(p.winners), nil
}
