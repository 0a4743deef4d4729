// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package distributor

import (
	"context"
	"encoding/json"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/internal/testutils"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/ledger"
	"github.com/luxfi/launchpad/pkg/merkle"
	"github.com/stretchr/testify/require"
)

const cycle = 30 * 24 * time.Hour

var (
	operator = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	custody  = common.HexToAddress("0x00000000000000000000000000000000000000B3")
	token    = common.HexToAddress("0x00000000000000000000000000000000000000C3")
	start    = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	now    time.Time
	bank   *ledger.Ledger
	dist   *Distributor
	rec    *facts.Memory
	claims *merkle.ClaimSet
}

func newFixture(t *testing.T, projectID uint64, amounts ...int64) *fixture {
	f := &fixture{t: t, ctx: context.Background(), now: start.Add(-time.Hour), bank: ledger.New(), rec: facts.NewMemory()}
	f.dist = New(custody, access.NewRoles(operator), f.bank,
		WithClock(func() time.Time { return f.now }),
		WithRecorder(f.rec),
	)

	holders, err := testutils.GenerateEthAddrs(len(amounts))
	require.NoError(t, err)
	entitlements := make([]merkle.Entitlement, len(amounts))
	for i, amount := range amounts {
		entitlements[i] = merkle.Entitlement{
			ProjectID: new(big.Int).SetUint64(projectID),
			Account:   holders[i],
			Amount:    big.NewInt(amount),
		}
	}
	f.claims, err = merkle.BuildClaims(f.ctx, entitlements)
	require.NoError(t, err)
	return f
}

func (f *fixture) register(id uint64, cycles uint64) {
	require.NoError(f.t, f.dist.RegisterProjectToken(f.ctx, operator, Project{
		ID:             id,
		Token:          token,
		PerCycleAmount: big.NewInt(1_000_000),
		CycleStart:     start,
		CycleCount:     cycles,
		MerkleRoot:     f.claims.Root,
	}))
}

func (f *fixture) claim(c merkle.Claim) (*big.Int, error) {
	return f.dist.Claim(f.ctx, c.ProjectID.Uint64(), c.Account, c.Amount, c.Proof)
}

func TestLinearVesting(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 1, 10_000, 20_000, 30_000)
	f.register(1, 10)
	require.NoError(f.bank.Mint(token, custody, big.NewInt(60_000)))
	c := f.claims.Claims[0]

	_, err := f.claim(c)
	require.ErrorIs(err, ErrNothingToClaim)

	f.now = start.Add(cycle)
	paid, err := f.claim(c)
	require.NoError(err)
	require.Equal(int64(1000), paid.Int64())
	_, err = f.claim(c)
	require.ErrorIs(err, ErrNothingToClaim)

	f.now = start.Add(3*cycle + cycle/2)
	paid, err = f.claim(c)
	require.NoError(err)
	require.Equal(int64(2000), paid.Int64())

	f.now = start.Add(40 * cycle)
	paid, err = f.claim(c)
	require.NoError(err)
	require.Equal(int64(7000), paid.Int64())
	_, err = f.claim(c)
	require.ErrorIs(err, ErrNothingToClaim)

	claimed, err := f.dist.Claimed(1, c.Account)
	require.NoError(err)
	require.Equal(int64(10_000), claimed.Int64())
	require.Equal(int64(10_000), f.bank.BalanceOf(token, c.Account).Int64())
	require.Equal(int64(50_000), f.bank.BalanceOf(token, custody).Int64())

	paidFacts, err := f.rec.List(f.ctx, facts.Filter{Kind: facts.Claimed})
	require.NoError(err)
	require.Len(paidFacts, 3)
	var last ClaimPaid
	require.NoError(json.Unmarshal(paidFacts[2].Payload, &last))
	require.Equal(uint64(10), last.Cycle)
	require.Equal(int64(7000), last.Amount.Int64())
}

func TestVestedRoundsDown(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 0, 1000)
	f.register(0, 3)
	v, err := f.dist.Vested(0, big.NewInt(1000), start.Add(cycle))
	require.NoError(err)
	require.Equal(int64(333), v.Int64())
	v, err = f.dist.Vested(0, big.NewInt(1000), start.Add(3*cycle))
	require.NoError(err)
	require.Equal(int64(1000), v.Int64())
	v, err = f.dist.Vested(0, big.NewInt(1000), start.Add(-cycle))
	require.NoError(err)
	require.Zero(v.Sign())
}

func TestClaimRejections(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 4, 500, 700)
	f.register(4, 2)
	f.now = start.Add(2 * cycle)
	c := f.claims.Claims[1]

	_, err := f.dist.Claim(f.ctx, 5, c.Account, c.Amount, c.Proof)
	require.ErrorIs(err, ErrInvalidProject)

	_, err = f.dist.Claim(f.ctx, 4, c.Account, big.NewInt(7000), c.Proof)
	require.ErrorIs(err, ErrNotEligible)
	_, err = f.dist.Claim(f.ctx, 4, f.claims.Claims[0].Account, c.Amount, c.Proof)
	require.ErrorIs(err, ErrNotEligible)
	_, err = f.dist.Claim(f.ctx, 4, c.Account, nil, c.Proof)
	require.ErrorIs(err, ErrNotEligible)

	// custody is empty
	_, err = f.claim(c)
	require.ErrorIs(err, ErrNotEnoughTokenLeft)
	claimed, err := f.dist.Claimed(4, c.Account)
	require.NoError(err)
	require.Zero(claimed.Sign())

	require.NoError(f.bank.Mint(token, custody, big.NewInt(700)))
	paid, err := f.claim(c)
	require.NoError(err)
	require.Equal(int64(700), paid.Int64())
}

func TestRegisterProjectToken(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 1, 100)
	valid := Project{ID: 1, Token: token, PerCycleAmount: big.NewInt(1), CycleStart: start, CycleCount: 4, MerkleRoot: f.claims.Root}

	stranger := common.HexToAddress("0x00000000000000000000000000000000000000EE")
	require.ErrorIs(f.dist.RegisterProjectToken(f.ctx, stranger, valid), access.ErrUnauthorized)

	bad := []func(*Project){
		func(p *Project) { p.Token = common.Address{} },
		func(p *Project) { p.PerCycleAmount = big.NewInt(0) },
		func(p *Project) { p.CycleCount = 0 },
		func(p *Project) { p.MerkleRoot = common.Hash{} },
	}
	for _, mutate := range bad {
		p := valid
		mutate(&p)
		require.ErrorIs(f.dist.RegisterProjectToken(f.ctx, operator, p), ErrInvalidProjectConfig)
	}

	require.NoError(f.dist.RegisterProjectToken(f.ctx, operator, valid))
	again := valid
	again.MerkleRoot = common.HexToHash("0x01")
	require.ErrorIs(f.dist.RegisterProjectToken(f.ctx, operator, again), ErrProjectAlreadyRegistered)

	got, err := f.dist.Project(1)
	require.NoError(err)
	require.Equal(f.claims.Root, got.MerkleRoot)
	_, err = f.dist.Project(2)
	require.ErrorIs(err, ErrInvalidProject)
}

func TestClaimsNeverDecreaseOrExceedEntitlement(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 9, 12_345, 999, 1)
	f.register(9, 7)
	require.NoError(f.bank.Mint(token, custody, big.NewInt(1_000_000)))

	rng := rand.New(rand.NewSource(7))
	prev := make(map[common.Address]*big.Int)
	for step := 0; step < 50; step++ {
		f.now = f.now.Add(time.Duration(rng.Int63n(int64(2 * cycle))))
		c := f.claims.Claims[rng.Intn(len(f.claims.Claims))]
		_, err := f.claim(c)
		if err != nil {
			require.ErrorIs(err, ErrNothingToClaim)
		}
		claimed, err := f.dist.Claimed(9, c.Account)
		require.NoError(err)
		if p, ok := prev[c.Account]; ok {
			require.GreaterOrEqual(claimed.Cmp(p), 0)
		}
		require.LessOrEqual(claimed.Cmp(c.Amount), 0)
		prev[c.Account] = claimed
	}
}

func TestDistributorState(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 2, 600)
	f.register(2, 3)
	require.NoError(f.bank.Mint(token, custody, big.NewInt(600)))
	f.now = start.Add(cycle)
	c := f.claims.Claims[0]
	_, err := f.claim(c)
	require.NoError(err)

	data, err := json.Marshal(f.dist)
	require.NoError(err)
	restored := New(custody, access.NewRoles(operator), f.bank, WithClock(func() time.Time { return f.now }))
	require.NoError(json.Unmarshal(data, restored))

	claimed, err := restored.Claimed(2, c.Account)
	require.NoError(err)
	require.Equal(int64(200), claimed.Int64())
	_, err = restored.Claim(f.ctx, 2, c.Account, c.Amount, c.Proof)
	require.ErrorIs(err, ErrNothingToClaim)
	require.ErrorIs(restored.RegisterProjectToken(f.ctx, operator, Project{
		ID: 2, Token: token, PerCycleAmount: big.NewInt(1), CycleCount: 1, MerkleRoot: c.Leaf,
	}), ErrProjectAlreadyRegistered)
}
