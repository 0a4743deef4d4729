// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"math/big"
	"slices"

	"github.com/luxfi/geth/common"
)

// picker chooses n of candidates and returns the chosen ones and the rest.
// n is never larger than len(candidates).
type picker func(candidates []common.Address, n int) (chosen, rest []common.Address)

// selectWinners walks tiers in priority order. A tier gets its own quota plus every
// slot the tiers above it left unused. A tier that fits in its slots wins outright;
// a larger one is sampled with pick and its leftovers become losers. Slots that are
// still open after the last tier go to the losers of earlier tiers, again in
// priority order.
func selectWinners(tiers [][]common.Address, quotas []uint64, pick picker) []common.Address {
	var (
		winners []common.Address
		losers  = make([][]common.Address, len(tiers))
		carry   uint64
	)
	for i, members := range tiers {
		slots := quotas[i] + carry
		if uint64(len(members)) <= slots {
			winners = append(winners, members...)
			carry = slots - uint64(len(members))
			continue
		}
		chosen, rest := pick(members, int(slots))
		winners = append(winners, chosen...)
		losers[i] = rest
		carry = 0
	}

	for _, candidates := range losers {
		if carry == 0 {
			break
		}
		if len(candidates) == 0 {
			continue
		}
		if uint64(len(candidates)) <= carry {
			winners = append(winners, candidates...)
			carry -= uint64(len(candidates))
			continue
		}
		chosen, _ := pick(candidates, int(carry))
		winners = append(winners, chosen...)
		carry = 0
	}
	return winners
}

// shuffler draws with a partial Fisher-Yates shuffle, one word per pick. The index
// is word mod remaining, which is off from uniform by at most remaining/2^256.
type shuffler struct {
	words []*big.Int
	next  int
}

func (s *shuffler) pick(candidates []common.Address, n int) ([]common.Address, []common.Address) {
	out := slices.Clone(candidates)
	var idx big.Int
	for k := 0; k < n; k++ {
		remaining := big.NewInt(int64(len(out) - k))
		idx.Mod(s.words[s.next], remaining)
		s.next++
		j := k + int(idx.Int64())
		out[k], out[j] = out[j], out[k]
	}
	return out[:n:n], out[n:]
}

// firstCome picks in pledge order.
func firstCome(order []common.Address) picker {
	position := make(map[common.Address]int, len(order))
	for i, acc := range order {
		position[acc] = i
	}
	return func(candidates []common.Address, n int) ([]common.Address, []common.Address) {
		out := slices.Clone(candidates)
		slices.SortStableFunc(out, func(a, b common.Address) int {
			return position[a] - position[b]
		})
		return out[:n:n], out[n:]
	}
}
