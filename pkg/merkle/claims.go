// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import (
	"context"
	"fmt"
	"math/big"
	"runtime"

	"github.com/luxfi/geth/common"
	"golang.org/x/sync/errgroup"
)

// Claim is everything a participant needs to call the distributor.
type Claim struct {
	ProjectID *big.Int       `json:"projectId"`
	Account   common.Address `json:"account"`
	Amount    *big.Int       `json:"amount"`
	Leaf      common.Hash    `json:"leaf"`
	Proof     []common.Hash  `json:"proof"`
}

// ClaimSet is a root plus one claim per entitlement, in input order.
type ClaimSet struct {
	Root   common.Hash `json:"root"`
	Claims []Claim     `json:"claims"`
}

// BuildClaims hashes every entitlement, builds the tree and derives all proofs.
func BuildClaims(ctx context.Context, entitlements []Entitlement) (*ClaimSet, error) {
	if len(entitlements) == 0 {
		return nil, ErrEmptyTree
	}
	leaves := make([]common.Hash, len(entitlements))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range entitlements {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			leaf, err := Leaf(e)
			if err != nil {
				return fmt.Errorf("entitlement %d (%s): %w", i, e.Account.Hex(), err)
			}
			leaves[i] = leaf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree, err := NewTree(leaves)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, len(entitlements))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range entitlements {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			proof, err := tree.Proof(leaves[i])
			if err != nil {
				return err
			}
			claims[i] = Claim{
				ProjectID: e.ProjectID,
				Account:   e.Account,
				Amount:    e.Amount,
				Leaf:      leaves[i],
				Proof:     proof,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ClaimSet{Root: tree.Root(), Claims: claims}, nil
}
