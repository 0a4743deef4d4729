// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package distributor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"

	"github.com/luxfi/geth/common"
)

type claimState struct {
	Account common.Address `json:"account"`
	Claimed *big.Int       `json:"claimed"`
}

type projectState struct {
	Project
	Claims []claimState `json:"claims"`
}

func (d *Distributor) MarshalJSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]uint64, 0, len(d.projects))
	for id := range d.projects {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]projectState, 0, len(ids))
	for _, id := range ids {
		ps := projectState{Project: d.projects[id].clone()}
		for acc, c := range d.claimed[id] {
			ps.Claims = append(ps.Claims, claimState{Account: acc, Claimed: new(big.Int).Set(c)})
		}
		slices.SortFunc(ps.Claims, func(a, b claimState) int {
			return bytes.Compare(a.Account[:], b.Account[:])
		})
		out = append(out, ps)
	}
	return json.Marshal(out)
}

func (d *Distributor) UnmarshalJSON(data []byte) error {
	var in []projectState
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	projects := make(map[uint64]*Project, len(in))
	claimed := make(map[uint64]map[common.Address]*big.Int, len(in))
	for _, ps := range in {
		if _, dup := projects[ps.ID]; dup {
			return fmt.Errorf("project %d appears twice", ps.ID)
		}
		if err := ps.Project.validate(); err != nil {
			return fmt.Errorf("project %d: %w", ps.ID, err)
		}
		p := ps.Project
		projects[ps.ID] = &p
		claimed[ps.ID] = make(map[common.Address]*big.Int, len(ps.Claims))
		for _, c := range ps.Claims {
			if c.Claimed == nil || c.Claimed.Sign() < 0 {
				return fmt.Errorf("project %d: bad claimed amount for %s", ps.ID, c.Account)
			}
			claimed[ps.ID][c.Account] = c.Claimed
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects = projects
	d.claimed = claimed
	return nil
}
