// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/constants"
)

var ErrNoClaim = errors.New("no claim for account")

// LoadClaimSet reads a claim set written by Save and checks that every proof
// still leads to the root.
func LoadClaimSet(path string) (*ClaimSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cs ClaimSet
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("failed to parse claims file %s: %w", path, err)
	}
	for i, c := range cs.Claims {
		if !Verify(c.Proof, cs.Root, c.Leaf) {
			return nil, fmt.Errorf("claims file %s: claim %d does not prove against root %s", path, i, cs.Root)
		}
	}
	return &cs, nil
}

func (cs *ClaimSet) Save(path string) error {
	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, constants.WriteReadReadPerms)
}

// Find returns the claim of account.
func (cs *ClaimSet) Find(account common.Address) (Claim, error) {
	for _, c := range cs.Claims {
		if c.Account == account {
			return c, nil
		}
	}
	return Claim{}, fmt.Errorf("%w %s", ErrNoClaim, account)
}
