// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package application

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/config"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/permit"
	"github.com/luxfi/launchpad/pkg/registry"
	luxlog "github.com/luxfi/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *Launchpad {
	baseDir := t.TempDir()
	conf := config.NewWithViper(viper.New())
	conf.SetDefaults(baseDir)
	app := New()
	app.Setup(baseDir, luxlog.NewNoOpLogger(), conf)
	return app
}

func TestKeys(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)

	_, err := app.Operator()
	require.ErrorIs(err, constants.ErrNoOperatorKey)

	k, err := app.CreateKey(constants.OperatorKeyName)
	require.NoError(err)
	require.True(app.KeyExists(constants.OperatorKeyName))
	_, err = app.CreateKey(constants.OperatorKeyName)
	require.Error(err)

	op, err := app.Operator()
	require.NoError(err)
	require.Equal(k.Address(), op.Address())
}

func TestWriteFileReplaces(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)
	path := filepath.Join(app.GetBaseDir(), "nested", "state.json")

	require.NoError(app.writeFile(path, []byte("one")))
	require.NoError(app.writeFile(path, []byte("two")))
	data, err := app.readFile(path)
	require.NoError(err)
	require.Equal("two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(err)
	require.Len(entries, 1)
}

func TestEngineSurvivesRestart(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	app := newTestApp(t)
	operator, err := app.CreateKey(constants.OperatorKeyName)
	require.NoError(err)

	e, err := app.OpenEngine()
	require.NoError(err)
	settings := e.Settings

	owner, err := app.CreateKey("alice")
	require.NoError(err)
	acc, err := e.Accounts.Create(owner.Address(), 0)
	require.NoError(err)
	require.NoError(e.Ledger.Mint(settings.Currency, acc.Address(), big.NewInt(500)))

	start := time.Now().Add(time.Hour)
	id, err := e.Registry.AddPool(ctx, operator.Address(), registry.PoolConfig{
		RewardToken:          common.HexToAddress("0xC3"),
		PledgingStart:        start,
		PledgingEnd:          start.Add(time.Hour),
		TokenAllocationStart: start.Add(2 * time.Hour),
		MonthlyAllocation:    big.NewInt(10),
		AllocationMonths:     2,
		TargetRaise:          big.NewInt(1000),
		RaffleEnabled:        true,
		TierWinners:          []uint64{1},
		PledgeTiers:          []registry.PledgeTier{{TierID: 0, MinPledge: big.NewInt(100), MaxPledge: big.NewInt(200)}},
	})
	require.NoError(err)

	sig, err := e.SignPledge(owner, acc.Address(), big.NewInt(150), permit.MaxDeadline)
	require.NoError(err)
	require.NotEmpty(sig)
	_, err = e.SignPledge(operator, acc.Address(), big.NewInt(150), permit.MaxDeadline)
	require.Error(err)

	require.NoError(e.Save(app))
	require.NoError(e.Close())

	restored, err := app.OpenEngine()
	require.NoError(err)
	defer restored.Close()
	require.Equal(e.Seed, restored.Seed)
	require.Equal(operator.Address(), restored.Admin)
	require.Equal(int64(500), restored.Ledger.BalanceOf(settings.Currency, acc.Address()).Int64())
	_, err = restored.Accounts.Get(acc.Address())
	require.NoError(err)
	p, err := restored.Registry.Pool(id)
	require.NoError(err)
	require.Equal(uint64(2), p.AllocationMonths)

	list, err := restored.Facts.List(ctx, facts.Filter{Kind: facts.PoolAdded})
	require.NoError(err)
	require.Len(list, 1)
}

func TestSnapshotVersionIsChecked(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)
	settings, err := app.Conf.Settings()
	require.NoError(err)
	require.NoError(app.writeFile(settings.StateFile, []byte(`{"version":99}`)))

	_, err = LoadEngine(settings, common.Address{}, nil, nil)
	require.ErrorContains(err, "unsupported snapshot version")
}

func TestDeliverPendingWithoutRequests(t *testing.T) {
	require := require.New(t)
	e, err := NewEngine(config.Settings{}, common.HexToAddress("0xA1"), common.HexToHash("0x01"), nil, nil)
	require.NoError(err)
	n, err := e.DeliverPending(context.Background())
	require.NoError(err)
	require.Zero(n)
}

func TestUpdateSavesOnlyOnSuccess(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)
	_, err := app.CreateKey(constants.OperatorKeyName)
	require.NoError(err)
	holder := common.HexToAddress("0xE1")

	require.NoError(app.Update(func(e *Engine) error {
		return e.Ledger.Mint(e.Settings.Currency, holder, big.NewInt(7))
	}))
	require.Error(app.Update(func(e *Engine) error {
		if err := e.Ledger.Mint(e.Settings.Currency, holder, big.NewInt(5)); err != nil {
			return err
		}
		return errors.New("abort")
	}))
	require.NoError(app.View(func(e *Engine) error {
		require.Equal(int64(7), e.Ledger.BalanceOf(e.Settings.Currency, holder).Int64())
		return nil
	}))
}
