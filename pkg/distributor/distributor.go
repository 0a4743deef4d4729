// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package distributor releases project tokens to winners on a linear vesting
// schedule. Eligibility is proven with a merkle proof against the root registered
// for the project, so no allowlist is stored.
package distributor

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/facts"
	"github.com/luxfi/launchpad/pkg/fault"
	"github.com/luxfi/launchpad/pkg/merkle"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

// DefaultCycleLength is one vesting month.
const DefaultCycleLength = 30 * 24 * time.Hour

var (
	ErrInvalidProject           = fault.New(fault.KindValidation, "InvalidProject")
	ErrInvalidProjectConfig     = fault.New(fault.KindValidation, "InvalidProjectConfig")
	ErrNotEligible              = fault.New(fault.KindAuthorization, "NotEligible")
	ErrNothingToClaim           = fault.New(fault.KindState, "NothingToClaim")
	ErrProjectAlreadyRegistered = fault.New(fault.KindState, "ProjectAlreadyRegistered")
	ErrNotEnoughTokenLeft       = fault.New(fault.KindResource, "NotEnoughTokenLeft")
)

// Bank moves token balances.
type Bank interface {
	BalanceOf(token, holder common.Address) *big.Int
	Transfer(token, from, to common.Address, amount *big.Int) error
}

// Project is a registered vesting configuration. It never changes once stored.
type Project struct {
	ID             uint64         `json:"id"`
	Token          common.Address `json:"token"`
	PerCycleAmount *big.Int       `json:"perCycleAmount"`
	CycleStart     time.Time      `json:"cycleStart"`
	CycleCount     uint64         `json:"cycleCount"`
	MerkleRoot     common.Hash    `json:"merkleRoot"`
}

func (p Project) validate() error {
	switch {
	case p.Token == (common.Address{}):
		return fmt.Errorf("%w: token is required", ErrInvalidProjectConfig)
	case p.PerCycleAmount == nil || p.PerCycleAmount.Sign() <= 0:
		return fmt.Errorf("%w: per cycle amount must be positive", ErrInvalidProjectConfig)
	case p.CycleCount == 0:
		return fmt.Errorf("%w: cycle count is zero", ErrInvalidProjectConfig)
	case p.MerkleRoot == (common.Hash{}):
		return fmt.Errorf("%w: merkle root is required", ErrInvalidProjectConfig)
	}
	return nil
}

func (p Project) clone() Project {
	p.PerCycleAmount = new(big.Int).Set(p.PerCycleAmount)
	return p
}

// CyclesElapsed is the number of whole cycles between the project start and at,
// clamped to [0, CycleCount].
func (p Project) CyclesElapsed(at time.Time, cycleLength time.Duration) uint64 {
	if !at.After(p.CycleStart) {
		return 0
	}
	return min(uint64(at.Sub(p.CycleStart)/cycleLength), p.CycleCount)
}

// Vested is the part of entitlement released at at.
func (p Project) Vested(entitlement *big.Int, at time.Time, cycleLength time.Duration) *big.Int {
	vested := new(big.Int).Mul(entitlement, new(big.Int).SetUint64(p.CyclesElapsed(at, cycleLength)))
	return vested.Quo(vested, new(big.Int).SetUint64(p.CycleCount))
}

type Option func(*Distributor)

func WithClock(now func() time.Time) Option {
	return func(d *Distributor) { d.now = now }
}

func WithLogger(log luxlog.Logger) Option {
	return func(d *Distributor) { d.log = log }
}

func WithRecorder(rec facts.Recorder) Option {
	return func(d *Distributor) { d.recorder = rec }
}

// WithCycleLength overrides DefaultCycleLength.
func WithCycleLength(length time.Duration) Option {
	return func(d *Distributor) {
		if length > 0 {
			d.cycleLength = length
		}
	}
}

type Distributor struct {
	mu sync.Mutex
	// custody holds the tokens being distributed
	custody     common.Address
	roles       access.Authorizer
	bank        Bank
	cycleLength time.Duration

	projects map[uint64]*Project
	claimed  map[uint64]map[common.Address]*big.Int

	now      func() time.Time
	log      luxlog.Logger
	recorder facts.Recorder
}

func New(custody common.Address, roles access.Authorizer, bank Bank, opts ...Option) *Distributor {
	d := &Distributor{
		custody:     custody,
		roles:       roles,
		bank:        bank,
		cycleLength: DefaultCycleLength,
		projects:    make(map[uint64]*Project),
		claimed:     make(map[uint64]map[common.Address]*big.Int),
		now:         time.Now,
		log:         luxlog.NewNoOpLogger(),
		recorder:    facts.Noop{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Distributor) Custody() common.Address { return d.custody }

func (d *Distributor) CycleLength() time.Duration { return d.cycleLength }

// ProjectRegistered is emitted by RegisterProjectToken.
type ProjectRegistered struct {
	Project
}

// RegisterProjectToken stores the vesting configuration of p.ID. A project can be
// registered once.
func (d *Distributor) RegisterProjectToken(ctx context.Context, caller common.Address, p Project) error {
	if err := d.roles.Check(access.BrokerRole, caller); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.projects[p.ID]; ok {
		return fmt.Errorf("%w: %d", ErrProjectAlreadyRegistered, p.ID)
	}
	stored := p.clone()
	d.projects[p.ID] = &stored
	d.claimed[p.ID] = make(map[common.Address]*big.Int)

	d.log.Info("project registered",
		zap.Uint64("project-id", p.ID),
		zap.Stringer("token", p.Token),
		zap.Uint64("cycles", p.CycleCount),
		zap.Stringer("root", p.MerkleRoot),
	)
	d.emit(ctx, facts.ProjectRegistered, p.ID, ProjectRegistered{Project: stored.clone()})
	return nil
}

// ClaimPaid is emitted by Claim. Cycle is the number of cycles elapsed.
type ClaimPaid struct {
	ProjectID    uint64         `json:"projectId"`
	Account      common.Address `json:"account"`
	Cycle        uint64         `json:"cycle"`
	Amount       *big.Int       `json:"amount"`
	TotalClaimed *big.Int       `json:"totalClaimed"`
}

// Claim pays participant everything vested from entitlement that it has not been
// paid yet, and returns the amount paid. proof must link
// (projectID, participant, entitlement) to the project's root.
func (d *Distributor) Claim(
	ctx context.Context,
	projectID uint64,
	participant common.Address,
	entitlement *big.Int,
	proof []common.Hash,
) (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProject, projectID)
	}
	leaf, err := merkle.Leaf(merkle.Entitlement{
		ProjectID: new(big.Int).SetUint64(projectID),
		Account:   participant,
		Amount:    entitlement,
	})
	if err != nil || !merkle.Verify(proof, p.MerkleRoot, leaf) {
		return nil, ErrNotEligible
	}

	now := d.now()
	cycle := p.CyclesElapsed(now, d.cycleLength)
	vested := p.Vested(entitlement, now, d.cycleLength)
	claimed := d.claimedLocked(projectID, participant)
	if vested.Cmp(claimed) <= 0 {
		return nil, ErrNothingToClaim
	}
	delta := new(big.Int).Sub(vested, claimed)
	if left := d.bank.BalanceOf(p.Token, d.custody); left.Cmp(delta) < 0 {
		return nil, fmt.Errorf("%w: custody holds %s, claim needs %s", ErrNotEnoughTokenLeft, left, delta)
	}
	if err := d.bank.Transfer(p.Token, d.custody, participant, delta); err != nil {
		return nil, fmt.Errorf("failed to pay claim: %w", err)
	}
	d.claimed[projectID][participant] = vested

	d.log.Info("claimed",
		zap.Uint64("project-id", projectID),
		zap.Stringer("account", participant),
		zap.Uint64("cycle", cycle),
		zap.Stringer("amount", delta),
	)
	d.emit(ctx, facts.Claimed, projectID, ClaimPaid{
		ProjectID:    projectID,
		Account:      participant,
		Cycle:        cycle,
		Amount:       new(big.Int).Set(delta),
		TotalClaimed: new(big.Int).Set(vested),
	})
	return delta, nil
}

func (d *Distributor) Project(id uint64) (Project, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.projects[id]
	if !ok {
		return Project{}, fmt.Errorf("%w: %d", ErrInvalidProject, id)
	}
	return p.clone(), nil
}

// Claimed is what participant has been paid from project id so far.
func (d *Distributor) Claimed(id uint64, participant common.Address) (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.projects[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProject, id)
	}
	return new(big.Int).Set(d.claimedLocked(id, participant)), nil
}

// Vested is the part of entitlement project id releases by at.
func (d *Distributor) Vested(id uint64, entitlement *big.Int, at time.Time) (*big.Int, error) {
	p, err := d.Project(id)
	if err != nil {
		return nil, err
	}
	return p.Vested(entitlement, at, d.cycleLength), nil
}

func (d *Distributor) claimedLocked(id uint64, participant common.Address) *big.Int {
	if c, ok := d.claimed[id][participant]; ok {
		return c
	}
	return new(big.Int)
}

func (d *Distributor) emit(ctx context.Context, kind facts.Kind, projectID uint64, payload any) {
	fact, err := facts.New(kind, facts.ProjectSubject(projectID), d.now(), payload)
	if err == nil {
		err = d.recorder.Record(ctx, fact)
	}
	if err != nil {
		d.log.Warn("failed to record fact",
			zap.String("kind", string(kind)),
			zap.Uint64("project-id", projectID),
			zap.Error(err),
		)
	}
}
