// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/statemachine"
	"github.com/luxfi/launchpad/pkg/vrf"
	"go.uber.org/zap"
)

// DrawRequested is emitted when a randomness request is filed for a pool.
type DrawRequested struct {
	PoolID    uint64   `json:"poolId"`
	RequestID *big.Int `json:"requestId"`
	NumWords  uint32   `json:"numWords"`
}

// WinnersSelected is emitted once per pool with the full winner list.
// RequestID is nil when the pool draws without a raffle.
type WinnersSelected struct {
	PoolID    uint64           `json:"poolId"`
	RequestID *big.Int         `json:"requestId,omitempty"`
	Winners   []common.Address `json:"winners"`
}

// Draw closes pool id to further changes and starts winner selection. The open last
// tier is filled with every pledger that was not assigned a tier. With the raffle
// enabled a randomness request is filed and its id returned; the winners arrive
// with FulfillRandomWords. Without the raffle, winners are chosen first come first
// served and the returned id is nil.
//
// The provider must not call back before RequestRandomWords returns.
func (r *Registry) Draw(ctx context.Context, caller common.Address, id uint64, callbackGasLimit uint32) (*big.Int, error) {
	if err := r.roles.Check(access.BrokerRole, caller); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pool(id)
	if err != nil {
		return nil, err
	}
	switch p.state {
	case statemachine.NotStarted:
	case statemachine.Requested:
		return nil, ErrLotteryIsPending
	default:
		return nil, ErrDrawAlreadyStarted
	}
	if !r.now().After(p.cfg.PledgingEnd) {
		return nil, ErrPledgingNotEnded
	}
	for i := 0; i < p.lastTier(); i++ {
		if len(p.members[i]) == 0 {
			return nil, fmt.Errorf("%w: tier %d is empty", ErrTiersHaveNotBeenInitialized, p.cfg.PledgeTiers[i].TierID)
		}
	}

	var (
		requestID *big.Int
		numWords  uint32
	)
	if p.cfg.RaffleEnabled {
		words := p.cfg.TotalWinners() * uint64(r.cfg.WordsPerWinner)
		if words > vrf.MaxNumWords {
			return nil, fmt.Errorf("%w: pool needs %d random words, at most %d per request", ErrInvalidPoolConfig, words, vrf.MaxNumWords)
		}
		numWords = uint32(words)
		requestID, err = r.provider.RequestRandomWords(ctx, vrf.Request{
			KeyHash:          r.cfg.KeyHash,
			SubscriptionID:   r.cfg.SubscriptionID,
			Confirmations:    r.cfg.Confirmations,
			CallbackGasLimit: callbackGasLimit,
			NumWords:         numWords,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to request randomness for pool %d: %w", id, err)
		}
	}

	last := p.lastTier()
	open := p.unassigned()
	for _, acc := range open {
		p.tierOf[acc] = last
	}
	p.members[last] = append(p.members[last], open...)
	r.emit(ctx, facts.LastTierPopulated, id, TierPopulated{
		PoolID:   id,
		TierID:   p.cfg.PledgeTiers[last].TierID,
		Accounts: slices.Clone(open),
	})

	if !p.cfg.RaffleEnabled {
		r.settleWinners(ctx, p, selectWinners(p.members, p.cfg.TierWinners, firstCome(p.order)))
		return nil, nil
	}

	p.requestID = new(big.Int).Set(requestID)
	p.numWords = numWords
	p.advance(statemachine.Requested)
	r.requests[requestID.String()] = id

	r.log.Info("draw requested",
		zap.Uint64("pool-id", id),
		zap.Stringer("request-id", requestID),
		zap.Uint32("num-words", numWords),
	)
	r.emit(ctx, facts.DrawRequested, id, DrawRequested{
		PoolID:    id,
		RequestID: new(big.Int).Set(requestID),
		NumWords:  numWords,
	})
	return new(big.Int).Set(requestID), nil
}

// FulfillRandomWords is the randomness callback. Only the configured coordinator may
// call it, and only for an outstanding request.
func (r *Registry) FulfillRandomWords(ctx context.Context, caller common.Address, requestID *big.Int, words []*big.Int) error {
	if caller != r.cfg.Coordinator {
		return fmt.Errorf("%w: have %s, want %s", ErrOnlyCoordinator, caller, r.cfg.Coordinator)
	}
	if requestID == nil {
		return ErrUnknownRequest
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.requests[requestID.String()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRequest, requestID)
	}
	p := r.pools[id]
	if len(words) < int(p.numWords) || slices.Contains(words, nil) {
		return fmt.Errorf("%w: got %d words, need %d", ErrInsufficientRandomness, len(words), p.numWords)
	}

	s := &shuffler{words: words}
	delete(r.requests, requestID.String())
	r.settleWinners(ctx, p, selectWinners(p.members, p.cfg.TierWinners, s.pick))
	return nil
}

func (r *Registry) settleWinners(ctx context.Context, p *pool, winners []common.Address) {
	p.winners = winners
	p.advance(statemachine.Fulfilled)

	r.log.Info("winners selected",
		zap.Uint64("pool-id", p.id),
		zap.Int("winners", len(winners)),
		zap.Int("pledgers", len(p.order)),
	)
	r.emit(ctx, facts.WinnersSelected, p.id, WinnersSelected{
		PoolID:    p.id,
		RequestID: cloneInt(p.requestID),
		Winners:   slices.Clone(winners),
	})
}

var _ vrf.Consumer = (*Registry)(nil)
