// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/account"
	"github.com/luxfi/launchpad/pkg/config"
	"github.com/luxfi/launchpad/pkg/distributor"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/key"
	"github.com/luxfi/launchpad/pkg/ledger"
	"github.com/luxfi/launchpad/pkg/permit"
	"github.com/luxfi/launchpad/pkg/registry"
	"github.com/luxfi/launchpad/pkg/vrf"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

const snapshotVersion = 1

// FactStore records facts and reads them back.
type FactStore interface {
	facts.Recorder
	facts.Reader
}

// Engine is the registry and distributor wired to the local ledger, account
// directory and randomness coordinator, persisted as one JSON snapshot.
type Engine struct {
	Settings    config.Settings
	Admin       common.Address
	Seed        common.Hash
	Roles       *access.Roles
	Ledger      *ledger.Ledger
	Accounts    *account.Directory
	Coordinator *vrf.Coordinator
	Registry    *registry.Registry
	Distributor *distributor.Distributor
	Facts       FactStore

	log luxlog.Logger
}

type snapshot struct {
	Version     int                      `json:"version"`
	Admin       common.Address           `json:"admin"`
	Seed        common.Hash              `json:"seed"`
	Roles       *access.Roles            `json:"roles"`
	Ledger      *ledger.Ledger           `json:"ledger"`
	Accounts    *account.Directory       `json:"accounts"`
	Coordinator *vrf.Coordinator         `json:"coordinator"`
	Registry    *registry.Registry       `json:"registry"`
	Distributor *distributor.Distributor `json:"distributor"`
}

type snapshotHeader struct {
	Version int            `json:"version"`
	Admin   common.Address `json:"admin"`
	Seed    common.Hash    `json:"seed"`
}

// NewEngine wires a fresh engine. admin receives both roles. A zero seed
// falls back to settings.VRFSeed and then to a random one.
func NewEngine(settings config.Settings, admin common.Address, seed common.Hash, store FactStore, log luxlog.Logger) (*Engine, error) {
	if store == nil {
		store = facts.Noop{}
	}
	if log == nil {
		log = luxlog.NewNoOpLogger()
	}
	if seed == (common.Hash{}) {
		seed = settings.VRFSeed
	}
	if seed == (common.Hash{}) {
		if _, err := rand.Read(seed[:]); err != nil {
			return nil, fmt.Errorf("failed generating vrf seed: %w", err)
		}
	}

	e := &Engine{
		Settings: settings,
		Admin:    admin,
		Seed:     seed,
		Roles:    access.NewRoles(admin),
		Ledger:   ledger.New(),
		Accounts: account.NewDirectory(settings.ChainID),
		Facts:    store,
		log:      log,
	}
	e.Coordinator = vrf.NewCoordinator(settings.Coordinator, seed, log)
	e.Registry = registry.New(registry.Config{
		Address:         settings.RegistryAddress,
		Treasury:        settings.Treasury,
		Currency:        settings.Currency,
		GovernanceToken: settings.GovernanceToken,
		MinimumStake:    settings.MinimumStake,
		Coordinator:     settings.Coordinator,
		KeyHash:         settings.KeyHash,
		SubscriptionID:  settings.SubscriptionID,
		Confirmations:   settings.Confirmations,
		WordsPerWinner:  settings.WordsPerWinner,
	}, e.Roles, e.Accounts, e.Ledger, e.Coordinator,
		registry.WithLogger(log),
		registry.WithRecorder(store),
	)
	e.Coordinator.SetConsumer(e.Registry)
	e.Distributor = distributor.New(settings.Custody, e.Roles, e.Ledger,
		distributor.WithLogger(log),
		distributor.WithRecorder(store),
		distributor.WithCycleLength(settings.CycleLength),
	)
	return e, nil
}

// LoadEngine restores the snapshot at settings.StateFile, or starts a fresh
// engine owned by admin when there is none.
func LoadEngine(settings config.Settings, admin common.Address, store FactStore, log luxlog.Logger) (*Engine, error) {
	data, err := os.ReadFile(settings.StateFile)
	if errors.Is(err, os.ErrNotExist) {
		return NewEngine(settings, admin, common.Hash{}, store, log)
	}
	if err != nil {
		return nil, err
	}

	var header snapshotHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", settings.StateFile, err)
	}
	if header.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", header.Version)
	}
	e, err := NewEngine(settings, header.Admin, header.Seed, store, log)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, e.snapshot()); err != nil {
		return nil, fmt.Errorf("failed restoring %s: %w", settings.StateFile, err)
	}
	return e, nil
}

func (e *Engine) snapshot() *snapshot {
	return &snapshot{
		Version:     snapshotVersion,
		Admin:       e.Admin,
		Seed:        e.Seed,
		Roles:       e.Roles,
		Ledger:      e.Ledger,
		Accounts:    e.Accounts,
		Coordinator: e.Coordinator,
		Registry:    e.Registry,
		Distributor: e.Distributor,
	}
}

// Save writes the snapshot to settings.StateFile.
func (e *Engine) Save(app *Launchpad) error {
	data, err := json.MarshalIndent(e.snapshot(), "", "  ")
	if err != nil {
		return err
	}
	if err := app.writeFile(e.Settings.StateFile, data); err != nil {
		return fmt.Errorf("failed writing %s: %w", e.Settings.StateFile, err)
	}
	e.log.Debug("state saved", zap.String("path", e.Settings.StateFile))
	return nil
}

func (e *Engine) Close() error {
	return e.Facts.Close()
}

// SignPledge has owner sign the permit that lets the registry pull amount of the
// pool currency from acc.
func (e *Engine) SignPledge(owner *key.SoftKey, acc common.Address, amount, deadline *big.Int) ([]byte, error) {
	smart, err := e.Accounts.Get(acc)
	if err != nil {
		return nil, err
	}
	if smart.Owner() != owner.Address() {
		return nil, fmt.Errorf("account %s is not owned by %s", acc, owner.Address())
	}
	p := smart.PermitFor(e.Settings.Currency, e.Settings.RegistryAddress, amount, deadline)
	return permit.Sign(owner.Key(), smart.Domain(), p)
}

// DeliverPending fulfils every outstanding randomness request, oldest first.
// A failed callback is logged and does not stop the rest.
func (e *Engine) DeliverPending(ctx context.Context) (delivered int, err error) {
	var errs []error
	for _, req := range e.Coordinator.Pending() {
		if ferr := e.Coordinator.Fulfill(ctx, req.ID); ferr != nil {
			errs = append(errs, ferr)
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// OpenFacts opens the configured fact store.
func OpenFacts(settings config.Settings) (FactStore, error) {
	if !settings.FactsEnabled {
		return facts.Noop{}, nil
	}
	return facts.OpenSQLite(settings.FactsDB)
}

// OpenEngine loads the engine for the current configuration. The operator key
// must exist.
func (app *Launchpad) OpenEngine() (*Engine, error) {
	settings, err := app.Conf.Settings()
	if err != nil {
		return nil, err
	}
	operator, err := app.Operator()
	if err != nil {
		return nil, err
	}
	store, err := OpenFacts(settings)
	if err != nil {
		return nil, err
	}
	e, err := LoadEngine(settings, operator.Address(), store, app.Log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return e, nil
}

// Update opens the engine, runs fn and saves the result. Nothing is saved when
// fn fails.
func (app *Launchpad) Update(fn func(*Engine) error) error {
	e, err := app.OpenEngine()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := fn(e); err != nil {
		return err
	}
	return e.Save(app)
}

// View opens the engine for reading.
func (app *Launchpad) View(fn func(*Engine) error) error {
	e, err := app.OpenEngine()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}
