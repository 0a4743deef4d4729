// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry runs launchpad pools: pool definitions, the pledge ledger, tier
// membership, and the draw and settlement state machine.
//
// Each mutating call holds the registry lock for its whole duration and validates
// everything before it changes anything, so a failed call leaves no trace. The draw
// is the one asynchronous step: Draw files a randomness request and the pool stays
// locked until the coordinator calls FulfillRandomWords.
package registry

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/account"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/vrf"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

// Bank moves token balances.
type Bank interface {
	BalanceOf(token, holder common.Address) *big.Int
	Transfer(token, from, to common.Address, amount *big.Int) error
}

// Config holds the network-wide parameters every pool shares.
type Config struct {
	// Address is the registry's own address and the spender named in permits.
	Address common.Address
	// Treasury receives pledges and pays refunds.
	Treasury        common.Address
	Currency        common.Address
	GovernanceToken common.Address
	MinimumStake    *big.Int

	// Coordinator is the only caller FulfillRandomWords accepts.
	Coordinator    common.Address
	KeyHash        common.Hash
	SubscriptionID uint64
	Confirmations  uint16
	WordsPerWinner uint32
}

type Option func(*Registry)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(log luxlog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithRecorder sets where emitted facts go.
func WithRecorder(rec facts.Recorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

type Registry struct {
	mu       sync.Mutex
	cfg      Config
	roles    access.Authorizer
	accounts account.Resolver
	bank     Bank
	provider vrf.Provider

	pools []*pool
	// outstanding randomness requests by id
	requests map[string]uint64

	now      func() time.Time
	log      luxlog.Logger
	recorder facts.Recorder
}

func New(
	cfg Config,
	roles access.Authorizer,
	accounts account.Resolver,
	bank Bank,
	provider vrf.Provider,
	opts ...Option,
) *Registry {
	if cfg.Treasury == (common.Address{}) {
		cfg.Treasury = cfg.Address
	}
	if cfg.MinimumStake == nil {
		cfg.MinimumStake = new(big.Int)
	}
	if cfg.WordsPerWinner == 0 {
		cfg.WordsPerWinner = 1
	}
	r := &Registry{
		cfg:      cfg,
		roles:    roles,
		accounts: accounts,
		bank:     bank,
		provider: provider,
		requests: make(map[string]uint64),
		now:      time.Now,
		log:      luxlog.NewNoOpLogger(),
		recorder: facts.Noop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Config() Config {
	cfg := r.cfg
	cfg.MinimumStake = new(big.Int).Set(r.cfg.MinimumStake)
	return cfg
}

func (r *Registry) pool(id uint64) (*pool, error) {
	if id >= uint64(len(r.pools)) {
		return nil, ErrInvalidPool
	}
	return r.pools[id], nil
}

// emit records a fact. The state change already happened, so a recorder failure is
// logged and not returned.
func (r *Registry) emit(ctx context.Context, kind facts.Kind, poolID uint64, payload any) {
	fact, err := facts.New(kind, facts.PoolSubject(poolID), r.now(), payload)
	if err == nil {
		err = r.recorder.Record(ctx, fact)
	}
	if err != nil {
		r.log.Warn("failed to record fact",
			zap.String("kind", string(kind)),
			zap.Uint64("pool-id", poolID),
			zap.Error(err),
		)
	}
}
