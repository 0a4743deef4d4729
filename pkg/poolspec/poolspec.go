// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poolspec reads pool definitions from YAML.
//
//	rewardToken: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
//	pledgingStart: 2024-06-01T00:00:00Z   # or startsIn: 10m
//	pledgingEnd: 2024-06-03T00:00:00Z     # or pledgeFor: 48h
//	tokenAllocationStart: 2024-06-10T00:00:00Z  # or allocationDelay: 168h
//	monthlyAllocation: "1000000000000000000000"
//	allocationMonths: 12
//	targetRaise: "9000000000"
//	raffle: true
//	tiers:
//	  - {id: 0, min: "1000000000", max: "1000000000", winners: 4}
//	  - {id: 1, min: "3000000000", max: "3000000000", winners: 3}
//	  - {id: 2, min: "5000000000", max: "5000000000", winners: 2}
package poolspec

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/registry"
	"gopkg.in/yaml.v3"
)

var ErrBadSpec = errors.New("invalid pool definition")

type Tier struct {
	ID      uint64 `yaml:"id"`
	Min     string `yaml:"min"`
	Max     string `yaml:"max"`
	Winners uint64 `yaml:"winners"`
}

type Spec struct {
	RewardToken          string        `yaml:"rewardToken"`
	PledgingStart        time.Time     `yaml:"pledgingStart"`
	StartsIn             time.Duration `yaml:"startsIn"`
	PledgingEnd          time.Time     `yaml:"pledgingEnd"`
	PledgeFor            time.Duration `yaml:"pledgeFor"`
	TokenAllocationStart time.Time     `yaml:"tokenAllocationStart"`
	AllocationDelay      time.Duration `yaml:"allocationDelay"`
	MonthlyAllocation    string        `yaml:"monthlyAllocation"`
	AllocationMonths     uint64        `yaml:"allocationMonths"`
	TargetRaise          string        `yaml:"targetRaise"`
	Raffle               bool          `yaml:"raffle"`
	Tiers                []Tier        `yaml:"tiers"`
}

func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSpec, err)
	}
	return &s, nil
}

// PoolConfig resolves relative times against now. Absolute times win when both are given.
func (s *Spec) PoolConfig(now time.Time) (registry.PoolConfig, error) {
	if !common.IsHexAddress(s.RewardToken) {
		return registry.PoolConfig{}, fmt.Errorf("%w: reward token %q is not an address", ErrBadSpec, s.RewardToken)
	}
	start := s.PledgingStart
	if start.IsZero() {
		start = now.Add(s.StartsIn)
	}
	end := s.PledgingEnd
	if end.IsZero() {
		end = start.Add(s.PledgeFor)
	}
	alloc := s.TokenAllocationStart
	if alloc.IsZero() {
		alloc = end.Add(s.AllocationDelay)
	}

	monthly, err := amount("monthlyAllocation", s.MonthlyAllocation)
	if err != nil {
		return registry.PoolConfig{}, err
	}
	target, err := amount("targetRaise", s.TargetRaise)
	if err != nil {
		return registry.PoolConfig{}, err
	}
	cfg := registry.PoolConfig{
		RewardToken:          common.HexToAddress(s.RewardToken),
		PledgingStart:        start,
		PledgingEnd:          end,
		TokenAllocationStart: alloc,
		MonthlyAllocation:    monthly,
		AllocationMonths:     s.AllocationMonths,
		TargetRaise:          target,
		RaffleEnabled:        s.Raffle,
	}
	for _, t := range s.Tiers {
		lo, err := amount(fmt.Sprintf("tier %d min", t.ID), t.Min)
		if err != nil {
			return registry.PoolConfig{}, err
		}
		hi, err := amount(fmt.Sprintf("tier %d max", t.ID), t.Max)
		if err != nil {
			return registry.PoolConfig{}, err
		}
		cfg.PledgeTiers = append(cfg.PledgeTiers, registry.PledgeTier{TierID: t.ID, MinPledge: lo, MaxPledge: hi})
		cfg.TierWinners = append(cfg.TierWinners, t.Winners)
	}
	return cfg, nil
}

func amount(field, v string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(v, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a decimal integer", ErrBadSpec, field, v)
	}
	return n, nil
}
