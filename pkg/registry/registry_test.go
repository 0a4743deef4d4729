// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/internal/testutils"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/account"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/ledger"
	"github.com/luxfi/launchpad/pkg/permit"
	"github.com/luxfi/launchpad/pkg/vrf"
	"github.com/stretchr/testify/require"
)

var (
	operator     = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	registryAddr = common.HexToAddress("0x00000000000000000000000000000000000000B1")
	treasury     = common.HexToAddress("0x00000000000000000000000000000000000000B2")
	currency     = common.HexToAddress("0x00000000000000000000000000000000000000C1")
	govToken     = common.HexToAddress("0x00000000000000000000000000000000000000C2")
	rewardToken  = common.HexToAddress("0x00000000000000000000000000000000000000C3")
	coordAddr    = common.HexToAddress("0x00000000000000000000000000000000000000D1")

	minimumStake = big.NewInt(100)
	genesis      = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	now   time.Time
	reg   *Registry
	bank  *ledger.Ledger
	dir   *account.Directory
	coord *vrf.Coordinator
	rec   *facts.Memory
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		t:    t,
		ctx:  context.Background(),
		now:  genesis,
		bank: ledger.New(),
		dir:  account.NewDirectory(big.NewInt(421614)),
		rec:  facts.NewMemory(),
	}
	f.coord = vrf.NewCoordinator(coordAddr, common.HexToHash("0xfeed"), nil)
	f.reg = New(Config{
		Address:         registryAddr,
		Treasury:        treasury,
		Currency:        currency,
		GovernanceToken: govToken,
		MinimumStake:    minimumStake,
		Coordinator:     coordAddr,
		WordsPerWinner:  1,
	},
		access.NewRoles(operator),
		f.dir,
		f.bank,
		f.coord,
		WithClock(func() time.Time { return f.now }),
		WithRecorder(f.rec),
	)
	f.coord.SetConsumer(f.reg)
	return f
}

// poolConfig has three fixed-size tiers of 1000, 3000 and 5000.
func (f *fixture) poolConfig(quotas ...uint64) PoolConfig {
	if len(quotas) == 0 {
		quotas = []uint64{0, 0, 1}
	}
	start := f.now.Add(time.Hour)
	end := start.Add(48 * time.Hour)
	return PoolConfig{
		RewardToken:          rewardToken,
		PledgingStart:        start,
		PledgingEnd:          end,
		TokenAllocationStart: end.Add(24 * time.Hour),
		MonthlyAllocation:    big.NewInt(1_000_000),
		AllocationMonths:     10,
		TargetRaise:          big.NewInt(9000),
		RaffleEnabled:        true,
		TierWinners:          quotas,
		PledgeTiers: []PledgeTier{
			{TierID: 0, MinPledge: big.NewInt(1000), MaxPledge: big.NewInt(1000)},
			{TierID: 1, MinPledge: big.NewInt(3000), MaxPledge: big.NewInt(3000)},
			{TierID: 2, MinPledge: big.NewInt(5000), MaxPledge: big.NewInt(5000)},
		},
	}
}

func (f *fixture) addPool(cfg PoolConfig) uint64 {
	id, err := f.reg.AddPool(f.ctx, operator, cfg)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) openWindow(id uint64) {
	p, err := f.reg.Pool(id)
	require.NoError(f.t, err)
	f.now = p.PledgingStart
}

func (f *fixture) closeWindow(id uint64) {
	p, err := f.reg.Pool(id)
	require.NoError(f.t, err)
	f.now = p.PledgingEnd.Add(time.Second)
}

func (f *fixture) participants(n int, funds int64) []testutils.Participant {
	ps, err := testutils.NewParticipants(f.dir, n)
	require.NoError(f.t, err)
	for _, p := range ps {
		require.NoError(f.t, f.bank.Mint(currency, p.Address(), big.NewInt(funds)))
		require.NoError(f.t, f.bank.Mint(govToken, p.Address(), minimumStake))
	}
	return ps
}

func (f *fixture) pledge(p testutils.Participant, id uint64, amount int64) error {
	value := big.NewInt(amount)
	sig, err := p.SignPermit(currency, registryAddr, value, permit.MaxDeadline)
	require.NoError(f.t, err)
	return f.reg.Pledge(f.ctx, p.Address(), id, value, permit.MaxDeadline, sig)
}

func (f *fixture) kinds() []facts.Kind {
	all, err := f.rec.List(f.ctx, facts.Filter{})
	require.NoError(f.t, err)
	out := make([]facts.Kind, len(all))
	for i, fact := range all {
		out[i] = fact.Kind
	}
	return out
}

func TestThreeAccountScenario(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig(0, 0, 1))
	require.Zero(id)

	ps := f.participants(3, 10_000)
	a, b, c := ps[0], ps[1], ps[2]
	f.openWindow(id)
	require.NoError(f.pledge(a, id, 1000))
	require.NoError(f.pledge(b, id, 3000))
	require.NoError(f.pledge(c, id, 5000))
	require.Equal(int64(9000), f.bank.BalanceOf(currency, treasury).Int64())

	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{a.Address()}))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{b.Address()}))

	f.closeWindow(id)
	requestID, err := f.reg.Draw(f.ctx, operator, id, 2_500_000)
	require.NoError(err)
	require.NotNil(requestID)

	last, err := f.reg.TierMembers(id, 2)
	require.NoError(err)
	require.Equal([]common.Address{c.Address()}, last)

	require.NoError(f.coord.Fulfill(f.ctx, requestID.Uint64()))
	winners, err := f.reg.Winners(id)
	require.NoError(err)
	require.Equal([]common.Address{c.Address()}, winners)

	refunds, err := f.reg.RefundLosers(f.ctx, operator, id)
	require.NoError(err)
	require.Len(refunds, 2)
	require.Equal(int64(10_000), f.bank.BalanceOf(currency, a.Address()).Int64())
	require.Equal(int64(10_000), f.bank.BalanceOf(currency, b.Address()).Int64())
	require.Equal(int64(5000), f.bank.BalanceOf(currency, c.Address()).Int64())
	require.Equal(int64(5000), f.bank.BalanceOf(currency, treasury).Int64())

	pa, err := f.reg.PledgeOf(id, a.Address())
	require.NoError(err)
	require.True(pa.Refunded)
	pc, err := f.reg.PledgeOf(id, c.Address())
	require.NoError(err)
	require.False(pc.Refunded)

	state, err := f.reg.DrawState(id)
	require.NoError(err)
	require.Equal("Settled", state.String())

	_, err = f.reg.RefundLosers(f.ctx, operator, id)
	require.ErrorIs(err, ErrLotteryIsPending)
	require.Equal(int64(5000), f.bank.BalanceOf(currency, treasury).Int64())

	require.Equal([]facts.Kind{
		facts.PoolAdded,
		facts.PledgeFunded, facts.PledgeFunded, facts.PledgeFunded,
		facts.TierPopulated, facts.TierPopulated,
		facts.LastTierPopulated, facts.DrawRequested,
		facts.WinnersSelected, facts.LosersRefunded,
	}, f.kinds())
}

func TestAddPoolValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		mutate func(*PoolConfig)
	}{
		{"start after end", func(c *PoolConfig) { c.PledgingStart = c.PledgingEnd.Add(time.Second) }},
		{"start equals end", func(c *PoolConfig) { c.PledgingStart = c.PledgingEnd }},
		{"start in the past", func(c *PoolConfig) { c.PledgingStart = f.now.Add(-time.Second) }},
		{"start now", func(c *PoolConfig) { c.PledgingStart = f.now }},
		{"allocation before end", func(c *PoolConfig) { c.TokenAllocationStart = c.PledgingEnd }},
		{"no tiers", func(c *PoolConfig) { c.PledgeTiers, c.TierWinners = nil, nil }},
		{"quota count mismatch", func(c *PoolConfig) { c.TierWinners = []uint64{1} }},
		{"no winners", func(c *PoolConfig) { c.TierWinners = []uint64{0, 0, 0} }},
		{"min above max", func(c *PoolConfig) { c.PledgeTiers[1].MinPledge = big.NewInt(4000) }},
		{"zero max", func(c *PoolConfig) {
			c.PledgeTiers[0].MinPledge = big.NewInt(0)
			c.PledgeTiers[0].MaxPledge = big.NewInt(0)
		}},
		{"overlapping bounds", func(c *PoolConfig) { c.PledgeTiers[1].MinPledge = big.NewInt(1000) }},
		{"decreasing bounds", func(c *PoolConfig) {
			c.PledgeTiers[2].MinPledge = big.NewInt(2000)
			c.PledgeTiers[2].MaxPledge = big.NewInt(2000)
		}},
		{"tier ids not increasing", func(c *PoolConfig) { c.PledgeTiers[2].TierID = 1 }},
		{"missing bound", func(c *PoolConfig) { c.PledgeTiers[0].MaxPledge = nil }},
		{"no reward token", func(c *PoolConfig) { c.RewardToken = common.Address{} }},
		{"no target", func(c *PoolConfig) { c.TargetRaise = big.NewInt(0) }},
		{"no months", func(c *PoolConfig) { c.AllocationMonths = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			cfg := f.poolConfig()
			tt.mutate(&cfg)
			_, err := f.reg.AddPool(f.ctx, operator, cfg)
			require.ErrorIs(err, ErrInvalidPoolConfig)
			require.Zero(f.reg.PoolCount())
		})
	}
}

func TestOperatorOnly(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	stranger := common.HexToAddress("0x00000000000000000000000000000000000000EE")

	_, err := f.reg.AddPool(f.ctx, stranger, f.poolConfig())
	require.ErrorIs(err, access.ErrUnauthorized)
	var missing *access.MissingRoleError
	require.ErrorAs(err, &missing)
	require.Equal(access.BrokerRole, missing.Role)

	id := f.addPool(f.poolConfig())
	require.Equal(uint64(1), f.addPool(f.poolConfig()))
	require.ErrorIs(f.reg.AddToTier(f.ctx, stranger, id, 0, nil), access.ErrUnauthorized)
	_, err = f.reg.Draw(f.ctx, stranger, id, 0)
	require.ErrorIs(err, access.ErrUnauthorized)
	_, err = f.reg.RefundLosers(f.ctx, stranger, id)
	require.ErrorIs(err, access.ErrUnauthorized)
}

func TestPledgeErrors(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig())
	ps := f.participants(4, 10_000)

	require.ErrorIs(f.pledge(ps[0], 9, 1000), ErrInvalidPool)
	require.ErrorIs(f.pledge(ps[0], id, 1000), ErrNotInPledgingWindow)

	f.openWindow(id)
	require.ErrorIs(f.pledge(ps[0], id, 0), ErrInvalidPledgeAmount)
	require.ErrorIs(f.pledge(ps[0], id, 2000), ErrInvalidPledgeAmount)
	require.ErrorIs(f.pledge(ps[0], id, 6000), ErrInvalidPledgeAmount)

	require.NoError(f.pledge(ps[0], id, 1000))
	require.ErrorIs(f.pledge(ps[0], id, 3000), ErrAlreadyPledged)

	// no stake
	require.NoError(f.bank.Transfer(govToken, ps[1].Address(), treasury, minimumStake))
	require.ErrorIs(f.pledge(ps[1], id, 1000), ErrInsufficientStake)

	require.NoError(f.pledge(ps[2], id, 5000))
	require.NoError(f.pledge(ps[3], id, 5000))

	// not enough currency, nonce untouched
	poor := f.participants(1, 10)[0]
	require.ErrorIs(f.pledge(poor, id, 1000), ErrInsufficientBalance)
	require.Zero(poor.Account.Nonce().Sign())

	f.now = f.now.Add(49 * time.Hour)
	require.ErrorIs(f.pledge(f.participants(1, 10_000)[0], id, 1000), ErrNotInPledgingWindow)

	total, err := f.reg.Pool(id)
	require.NoError(err)
	require.Equal(int64(11_000), total.TotalPledged.Int64())
}

func TestPledgePermitFailures(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig())
	ps := f.participants(2, 10_000)
	f.openWindow(id)

	value := big.NewInt(1000)
	expired := big.NewInt(f.now.Add(-time.Minute).Unix())
	sig, err := ps[0].SignPermit(currency, registryAddr, value, expired)
	require.NoError(err)
	err = f.reg.Pledge(f.ctx, ps[0].Address(), id, value, expired, sig)
	require.ErrorIs(err, permit.ErrPermitExpired)

	// signed for a different amount
	sig, err = ps[0].SignPermit(currency, registryAddr, big.NewInt(3000), permit.MaxDeadline)
	require.NoError(err)
	err = f.reg.Pledge(f.ctx, ps[0].Address(), id, value, permit.MaxDeadline, sig)
	require.ErrorIs(err, permit.ErrInvalidSignature)

	// signed by someone else's key
	sig, err = testutils.Participant{Key: ps[1].Key, Account: ps[0].Account}.SignPermit(currency, registryAddr, value, permit.MaxDeadline)
	require.NoError(err)
	err = f.reg.Pledge(f.ctx, ps[0].Address(), id, value, permit.MaxDeadline, sig)
	require.ErrorIs(err, permit.ErrInvalidSignature)

	require.Equal(int64(10_000), f.bank.BalanceOf(currency, ps[0].Address()).Int64())
	_, err = f.reg.PledgeOf(id, ps[0].Address())
	require.ErrorIs(err, ErrPledgeNotFound)

	require.NoError(f.pledge(ps[0], id, 1000))
	require.Equal(uint64(1), ps[0].Account.Nonce().Uint64())
}

func TestPledgeRejectedOnceDrawStarts(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig(0, 0, 1))
	ps := f.participants(4, 10_000)
	f.openWindow(id)
	require.NoError(f.pledge(ps[0], id, 1000))
	require.NoError(f.pledge(ps[1], id, 3000))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address()}))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{ps[1].Address()}))
	f.closeWindow(id)
	_, err := f.reg.Draw(f.ctx, operator, id, 0)
	require.NoError(err)

	require.ErrorIs(f.pledge(ps[2], id, 5000), ErrLotteryIsPending)
	require.ErrorIs(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[1].Address()}), ErrDrawAlreadyStarted)
}

func TestAddToTier(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig())
	ps := f.participants(3, 10_000)
	f.openWindow(id)
	require.NoError(f.pledge(ps[0], id, 1000))
	require.NoError(f.pledge(ps[1], id, 3000))
	outsider := f.participants(1, 10_000)[0]

	require.ErrorIs(f.reg.AddToTier(f.ctx, operator, 5, 0, nil), ErrInvalidPool)
	require.ErrorIs(f.reg.AddToTier(f.ctx, operator, id, 7, nil), ErrInvalidTier)
	require.ErrorIs(f.reg.AddToTier(f.ctx, operator, id, 2, []common.Address{ps[0].Address()}), ErrLastTierIsImplicit)

	// a bad member rejects the whole batch
	err := f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address(), outsider.Address()})
	require.ErrorIs(err, ErrTierMembersMustHavePledged)
	members, err := f.reg.TierMembers(id, 0)
	require.NoError(err)
	require.Empty(members)

	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address(), ps[0].Address()}))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address()}))
	members, err = f.reg.TierMembers(id, 0)
	require.NoError(err)
	require.Equal([]common.Address{ps[0].Address()}, members)

	err = f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{ps[1].Address(), ps[0].Address()})
	require.ErrorIs(err, ErrMembersOnlyPermittedInOneTier)
	members, err = f.reg.TierMembers(id, 1)
	require.NoError(err)
	require.Empty(members)
}

func TestDrawGuards(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig(0, 0, 1))
	ps := f.participants(3, 10_000)
	f.openWindow(id)
	require.NoError(f.pledge(ps[0], id, 1000))
	require.NoError(f.pledge(ps[1], id, 3000))

	_, err := f.reg.Draw(f.ctx, operator, 3, 0)
	require.ErrorIs(err, ErrInvalidPool)
	_, err = f.reg.Draw(f.ctx, operator, id, 0)
	require.ErrorIs(err, ErrPledgingNotEnded)

	f.closeWindow(id)
	_, err = f.reg.Draw(f.ctx, operator, id, 0)
	require.ErrorIs(err, ErrTiersHaveNotBeenInitialized)
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address()}))
	_, err = f.reg.Draw(f.ctx, operator, id, 0)
	require.ErrorIs(err, ErrTiersHaveNotBeenInitialized)
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{ps[1].Address()}))

	_, err = f.reg.RefundLosers(f.ctx, operator, id)
	require.ErrorIs(err, ErrLotteryIsPending)

	requestID, err := f.reg.Draw(f.ctx, operator, id, 0)
	require.NoError(err)
	_, err = f.reg.Draw(f.ctx, operator, id, 0)
	require.ErrorIs(err, ErrLotteryIsPending)
	_, err = f.reg.RefundLosers(f.ctx, operator, id)
	require.ErrorIs(err, ErrLotteryIsPending)

	require.NoError(f.coord.Fulfill(f.ctx, requestID.Uint64()))
	_, err = f.reg.Draw(f.ctx, operator, id, 0)
	require.ErrorIs(err, ErrDrawAlreadyStarted)
}

func TestFulfillGuards(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig(1, 1, 1))
	ps := f.participants(3, 10_000)
	f.openWindow(id)
	for i, amount := range []int64{1000, 3000, 5000} {
		require.NoError(f.pledge(ps[i], id, amount))
	}
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address()}))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{ps[1].Address()}))
	f.closeWindow(id)
	requestID, err := f.reg.Draw(f.ctx, operator, id, 0)
	require.NoError(err)

	words := f.coord.Words(requestID.Uint64(), 3)
	require.ErrorIs(f.reg.FulfillRandomWords(f.ctx, operator, requestID, words), ErrOnlyCoordinator)
	require.ErrorIs(f.reg.FulfillRandomWords(f.ctx, coordAddr, big.NewInt(99), words), ErrUnknownRequest)
	require.ErrorIs(f.reg.FulfillRandomWords(f.ctx, coordAddr, requestID, words[:2]), ErrInsufficientRandomness)

	state, err := f.reg.DrawState(id)
	require.NoError(err)
	require.Equal("Requested", state.String())

	require.NoError(f.reg.FulfillRandomWords(f.ctx, coordAddr, requestID, words))
	require.ErrorIs(f.reg.FulfillRandomWords(f.ctx, coordAddr, requestID, words), ErrUnknownRequest)
	winners, err := f.reg.Winners(id)
	require.NoError(err)
	require.Len(winners, 3)
}

func TestRaffleDisabledIsFirstCome(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	cfg := f.poolConfig(0, 0, 2)
	cfg.RaffleEnabled = false
	id := f.addPool(cfg)
	ps := f.participants(5, 10_000)
	f.openWindow(id)
	require.NoError(f.pledge(ps[0], id, 1000))
	require.NoError(f.pledge(ps[1], id, 3000))
	for _, p := range ps[2:] {
		require.NoError(f.pledge(p, id, 5000))
	}
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address()}))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{ps[1].Address()}))
	f.closeWindow(id)

	requestID, err := f.reg.Draw(f.ctx, operator, id, 0)
	require.NoError(err)
	require.Nil(requestID)
	require.Empty(f.coord.Pending())

	winners, err := f.reg.Winners(id)
	require.NoError(err)
	require.Equal([]common.Address{ps[2].Address(), ps[3].Address()}, winners)
}

func TestRefundNeedsTreasury(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	id := f.addPool(f.poolConfig(0, 0, 1))
	ps := f.participants(3, 10_000)
	f.openWindow(id)
	for i, amount := range []int64{1000, 3000, 5000} {
		require.NoError(f.pledge(ps[i], id, amount))
	}
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 0, []common.Address{ps[0].Address()}))
	require.NoError(f.reg.AddToTier(f.ctx, operator, id, 1, []common.Address{ps[1].Address()}))
	f.closeWindow(id)
	requestID, err := f.reg.Draw(f.ctx, operator, id, 0)
	require.NoError(err)
	require.NoError(f.coord.Fulfill(f.ctx, requestID.Uint64()))

	sink := common.HexToAddress("0x00000000000000000000000000000000000000FF")
	require.NoError(f.bank.Transfer(currency, treasury, sink, big.NewInt(6000)))
	_, err = f.reg.RefundLosers(f.ctx, operator, id)
	require.ErrorIs(err, ErrTreasuryInsufficient)
	require.Equal(int64(9000), f.bank.BalanceOf(currency, ps[0].Address()).Int64())

	state, err := f.reg.DrawState(id)
	require.NoError(err)
	require.Equal("Fulfilled", state.String())
	pledges, err := f.reg.Pledges(id)
	require.NoError(err)
	for _, pl := range pledges {
		require.False(pl.Refunded)
	}
}
