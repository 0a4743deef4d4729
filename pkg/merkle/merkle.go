// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merkle commits to a set of (project, account, entitlement) triples and
// verifies membership proofs against the commitment.
//
// The encoding is frozen; changing it invalidates every proof already handed out.
//
//	leaf = keccak256(keccak256(abi.encode(uint256 projectId, address account, uint256 amount)))
//	node = keccak256(min(a, b) ‖ max(a, b))
//
// Sorting each pair makes proofs independent of sibling position, and the double
// hash keeps a 64 byte internal node from ever being accepted as a leaf.
package merkle

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
)

var (
	ErrEmptyTree     = errors.New("merkle: no leaves")
	ErrDuplicateLeaf = errors.New("merkle: duplicate leaf")
	ErrUnknownLeaf   = errors.New("merkle: leaf not in tree")
)

var leafArgs = abi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("address")},
	{Type: mustType("uint256")},
}

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Entitlement is one committed allocation.
type Entitlement struct {
	ProjectID *big.Int
	Account   common.Address
	Amount    *big.Int
}

// Leaf returns the leaf hash of e.
func Leaf(e Entitlement) (common.Hash, error) {
	if e.ProjectID == nil || e.Amount == nil {
		return common.Hash{}, errors.New("merkle: project id and amount are required")
	}
	if e.ProjectID.Sign() < 0 || e.Amount.Sign() < 0 {
		return common.Hash{}, errors.New("merkle: negative value")
	}
	packed, err := leafArgs.Pack(e.ProjectID, e.Account, e.Amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode leaf: %w", err)
	}
	return common.BytesToHash(crypto.Keccak256(crypto.Keccak256(packed))), nil
}

// HashPair hashes two nodes in sorted order.
func HashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return common.BytesToHash(crypto.Keccak256(a[:], b[:]))
}

// ProcessProof folds proof into leaf and returns the resulting root.
func ProcessProof(proof []common.Hash, leaf common.Hash) common.Hash {
	computed := leaf
	for _, sibling := range proof {
		computed = HashPair(computed, sibling)
	}
	return computed
}

// Verify reports whether proof links leaf to root.
func Verify(proof []common.Hash, root, leaf common.Hash) bool {
	return ProcessProof(proof, leaf) == root
}

// Tree is an immutable merkle tree. Leaves are sorted before building so the root
// does not depend on input order. An odd node at the end of a layer is carried up.
type Tree struct {
	layers [][]common.Hash
	index  map[common.Hash]int
}

func NewTree(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	base := slices.Clone(leaves)
	slices.SortFunc(base, func(a, b common.Hash) int { return bytes.Compare(a[:], b[:]) })
	index := make(map[common.Hash]int, len(base))
	for i, l := range base {
		if _, ok := index[l]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLeaf, l.Hex())
		}
		index[l] = i
	}

	layers := [][]common.Hash{base}
	for cur := base; len(cur) > 1; {
		next := make([]common.Hash, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			if i+1 == len(cur) {
				next = append(next, cur[i])
				continue
			}
			next = append(next, HashPair(cur[i], cur[i+1]))
		}
		layers = append(layers, next)
		cur = next
	}
	return &Tree{layers: layers, index: index}, nil
}

func (t *Tree) Root() common.Hash {
	return t.layers[len(t.layers)-1][0]
}

func (t *Tree) Len() int {
	return len(t.layers[0])
}

// Proof returns the sibling path for leaf.
func (t *Tree) Proof(leaf common.Hash) ([]common.Hash, error) {
	i, ok := t.index[leaf]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeaf, leaf.Hex())
	}
	var proof []common.Hash
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := i ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		i /= 2
	}
	return proof, nil
}
