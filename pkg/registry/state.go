// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/launchpad/pkg/statemachine"
)

type poolState struct {
	Pool
	Pledges []Pledge `json:"pledges"`
}

type registryState struct {
	Pools []poolState `json:"pools"`
}

func (r *Registry) MarshalJSON() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := registryState{Pools: make([]poolState, len(r.pools))}
	for i, p := range r.pools {
		pledges := make([]Pledge, len(p.order))
		for j, acc := range p.order {
			pledges[j] = p.pledges[acc].clone()
		}
		state.Pools[i] = poolState{Pool: p.snapshot(), Pledges: pledges}
	}
	return json.Marshal(state)
}

// UnmarshalJSON replaces every pool with the decoded state. Configuration and
// collaborators are left as they are.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var state registryState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	pools := make([]*pool, len(state.Pools))
	requests := make(map[string]uint64)
	for i, s := range state.Pools {
		if s.ID != uint64(i) {
			return fmt.Errorf("pool at position %d has id %d", i, s.ID)
		}
		p, err := restorePool(s)
		if err != nil {
			return fmt.Errorf("pool %d: %w", s.ID, err)
		}
		if p.state == statemachine.Requested {
			if p.requestID == nil {
				return fmt.Errorf("pool %d: requested draw without request id", s.ID)
			}
			requests[p.requestID.String()] = p.id
		}
		pools[i] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools = pools
	r.requests = requests
	return nil
}

func restorePool(s poolState) (*pool, error) {
	if len(s.Tiers) != len(s.PledgeTiers) {
		return nil, fmt.Errorf("%d tiers for %d pledge tiers", len(s.Tiers), len(s.PledgeTiers))
	}
	p := newPool(s.ID, s.PoolConfig)
	p.state = s.DrawState
	p.requestID = s.RequestID
	p.numWords = s.NumWords
	p.winners = s.Winners
	for _, pl := range s.Pledges {
		if _, dup := p.pledges[pl.Account]; dup {
			return nil, fmt.Errorf("duplicate pledge from %s", pl.Account)
		}
		if pl.Amount == nil {
			return nil, fmt.Errorf("pledge from %s has no amount", pl.Account)
		}
		pledge := pl.clone()
		p.pledges[pl.Account] = &pledge
		p.order = append(p.order, pl.Account)
		p.totalPledged.Add(p.totalPledged, pl.Amount)
	}
	for i, t := range s.Tiers {
		for _, acc := range t.Members {
			if _, ok := p.pledges[acc]; !ok {
				return nil, fmt.Errorf("tier %d member %s has no pledge", t.TierID, acc)
			}
			if _, ok := p.tierOf[acc]; ok {
				return nil, fmt.Errorf("%s is in more than one tier", acc)
			}
			p.tierOf[acc] = i
		}
		p.members[i] = t.Members
	}
	if s.TotalPledged != nil && s.TotalPledged.Cmp(p.totalPledged) != 0 {
		return nil, fmt.Errorf("total pledged %s does not match pledges %s", s.TotalPledged, p.totalPledged)
	}
	return p, nil
}
