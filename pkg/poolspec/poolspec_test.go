// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolspec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const relative = `
rewardToken: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
startsIn: 10m
pledgeFor: 48h
allocationDelay: 168h
monthlyAllocation: "1000000000000000000000"
allocationMonths: 12
targetRaise: "9000"
raffle: true
tiers:
  - {id: 0, min: "1000", max: "1000", winners: 4}
  - {id: 1, min: "3000", max: "3000", winners: 3}
  - {id: 2, min: "5000", max: "5000", winners: 2}
`

func TestRelativeTimes(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(os.WriteFile(path, []byte(relative), 0o600))
	spec, err := Load(path)
	require.NoError(err)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg, err := spec.PoolConfig(now)
	require.NoError(err)
	require.Equal(now.Add(10*time.Minute), cfg.PledgingStart)
	require.Equal(cfg.PledgingStart.Add(48*time.Hour), cfg.PledgingEnd)
	require.Equal(cfg.PledgingEnd.Add(168*time.Hour), cfg.TokenAllocationStart)
	require.Equal([]uint64{4, 3, 2}, cfg.TierWinners)
	require.Equal(uint64(9), cfg.TotalWinners())
	require.Equal("1000000000000000000000", cfg.MonthlyAllocation.String())
	require.Len(cfg.PledgeTiers, 3)
	require.Equal(int64(5000), cfg.PledgeTiers[2].MaxPledge.Int64())
	require.True(cfg.RaffleEnabled)
	require.NoError(cfg.Validate(now))
}

func TestAbsoluteTimes(t *testing.T) {
	require := require.New(t)
	spec, err := Parse([]byte(`
rewardToken: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
pledgingStart: 2024-06-01T00:00:00Z
pledgingEnd: 2024-06-03T00:00:00Z
tokenAllocationStart: 2024-06-10T00:00:00Z
startsIn: 1h
monthlyAllocation: "10"
allocationMonths: 1
targetRaise: "10"
tiers:
  - {id: 0, min: "1", max: "10", winners: 1}
`))
	require.NoError(err)
	cfg, err := spec.PoolConfig(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(err)
	require.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), cfg.PledgingStart.UTC())
	require.False(cfg.RaffleEnabled)
}

func TestBadSpecs(t *testing.T) {
	require := require.New(t)
	_, err := Parse([]byte("tiers: [oops"))
	require.ErrorIs(err, ErrBadSpec)

	spec, err := Parse([]byte(`{rewardToken: nope}`))
	require.NoError(err)
	_, err = spec.PoolConfig(time.Now())
	require.ErrorIs(err, ErrBadSpec)

	spec, err = Parse([]byte(`{rewardToken: "0x5FbDB2315678afecb367f032d93F642f64180aa3", monthlyAllocation: "1e6", targetRaise: "1"}`))
	require.NoError(err)
	_, err = spec.PoolConfig(time.Now())
	require.ErrorIs(err, ErrBadSpec)
}
