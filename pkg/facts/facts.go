// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package facts records the notifications the engines emit after each state change.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names an emitted fact.
type Kind string

const (
	PoolAdded         Kind = "PoolAdded"
	PledgeFunded      Kind = "PledgeFunded"
	TierPopulated     Kind = "TierPopulated"
	LastTierPopulated Kind = "LastTierPopulated"
	DrawRequested     Kind = "DrawRequested"
	WinnersSelected   Kind = "WinnersSelected"
	LosersRefunded    Kind = "LosersRefunded"
	ProjectRegistered Kind = "ProjectRegistered"
	Claimed           Kind = "Claimed"
)

// Fact is one recorded notification. Subject identifies the pool or project,
// e.g. "pool/3" or "project/1".
type Fact struct {
	ID      uuid.UUID       `json:"id"`
	Kind    Kind            `json:"kind"`
	Subject string          `json:"subject"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

// New builds a fact with a fresh id and the JSON encoding of payload.
func New(kind Kind, subject string, at time.Time, payload any) (Fact, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Fact{}, fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}
	return Fact{
		ID:      uuid.New(),
		Kind:    kind,
		Subject: subject,
		At:      at.UTC(),
		Payload: raw,
	}, nil
}

func PoolSubject(id uint64) string    { return fmt.Sprintf("pool/%d", id) }
func ProjectSubject(id uint64) string { return fmt.Sprintf("project/%d", id) }

// Filter selects facts. Empty fields match everything.
type Filter struct {
	Kind    Kind
	Subject string
	Limit   int
}

func (f Filter) match(fact Fact) bool {
	return (f.Kind == "" || f.Kind == fact.Kind) && (f.Subject == "" || f.Subject == fact.Subject)
}

// Recorder persists facts.
type Recorder interface {
	Record(ctx context.Context, fact Fact) error
	Close() error
}

// Reader lists recorded facts in recording order.
type Reader interface {
	List(ctx context.Context, filter Filter) ([]Fact, error)
}

// Noop drops every fact.
type Noop struct{}

func (Noop) Record(context.Context, Fact) error { return nil }
func (Noop) Close() error                       { return nil }

func (Noop) List(context.Context, Filter) ([]Fact, error) { return nil, nil }

// Memory keeps facts in process.
type Memory struct {
	mu    sync.Mutex
	facts []Fact
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Record(_ context.Context, fact Fact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts = append(m.facts, fact)
	return nil
}

func (m *Memory) List(_ context.Context, filter Filter) ([]Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Fact
	for _, f := range m.facts {
		if !filter.match(f) {
			continue
		}
		out = append(out, f)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return slices.Clip(out), nil
}

func (*Memory) Close() error { return nil }
