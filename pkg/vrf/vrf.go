// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vrf defines the two-phase randomness protocol the registry draws with and a
// local coordinator that serves it.
//
// A consumer asks for words with RequestRandomWords and gets a request id back
// immediately. Later, and outside the consumer's control, the coordinator calls
// FulfillRandomWords on the consumer with that id.
package vrf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

// MaxNumWords caps a single request.
const MaxNumWords = 500

var (
	ErrInvalidNumWords = errors.New("vrf: invalid number of words")
	ErrNoConsumer      = errors.New("vrf: no consumer registered")
	ErrUnknownRequest  = errors.New("vrf: unknown request")
)

// Request mirrors the coordinator request arguments.
type Request struct {
	KeyHash          common.Hash `json:"keyHash"`
	SubscriptionID   uint64      `json:"subscriptionId"`
	Confirmations    uint16      `json:"confirmations"`
	CallbackGasLimit uint32      `json:"callbackGasLimit"`
	NumWords         uint32      `json:"numWords"`
}

// Provider accepts randomness requests.
type Provider interface {
	RequestRandomWords(ctx context.Context, req Request) (*big.Int, error)
}

// Consumer receives the words. caller is the address of the delivering coordinator.
type Consumer interface {
	FulfillRandomWords(ctx context.Context, caller common.Address, requestID *big.Int, words []*big.Int) error
}

// PendingRequest is an accepted request that has not been delivered yet.
type PendingRequest struct {
	ID      uint64  `json:"id"`
	Request Request `json:"request"`
}

// Coordinator is a local provider. Words are keccak256(seed ‖ requestID ‖ index), so
// a run can be replayed from the seed.
type Coordinator struct {
	mu       sync.Mutex
	address  common.Address
	seed     common.Hash
	nextID   uint64
	pending  map[uint64]Request
	consumer Consumer
	log      luxlog.Logger
}

func NewCoordinator(address common.Address, seed common.Hash, log luxlog.Logger) *Coordinator {
	if log == nil {
		log = luxlog.NewNoOpLogger()
	}
	return &Coordinator{
		address: address,
		seed:    seed,
		nextID:  1,
		pending: make(map[uint64]Request),
		log:     log,
	}
}

func (c *Coordinator) Address() common.Address { return c.address }

// SetConsumer registers the contract that receives fulfilments.
func (c *Coordinator) SetConsumer(consumer Consumer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumer = consumer
}

func (c *Coordinator) RequestRandomWords(_ context.Context, req Request) (*big.Int, error) {
	if req.NumWords == 0 || req.NumWords > MaxNumWords {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumWords, req.NumWords)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.pending[id] = req
	c.log.Debug("randomness requested",
		zap.Uint64("request-id", id),
		zap.Uint32("num-words", req.NumWords),
		zap.Uint32("callback-gas-limit", req.CallbackGasLimit),
	)
	return new(big.Int).SetUint64(id), nil
}

// Pending lists undelivered requests in id order.
func (c *Coordinator) Pending() []PendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PendingRequest, 0, len(c.pending))
	for id, req := range c.pending {
		out = append(out, PendingRequest{ID: id, Request: req})
	}
	slices.SortFunc(out, func(a, b PendingRequest) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Words derives the words for a request.
func (c *Coordinator) Words(requestID uint64, n uint32) []*big.Int {
	id := common.BigToHash(new(big.Int).SetUint64(requestID))
	words := make([]*big.Int, n)
	for i := range words {
		idx := common.BigToHash(big.NewInt(int64(i)))
		words[i] = new(big.Int).SetBytes(crypto.Keccak256(c.seed[:], id[:], idx[:]))
	}
	return words
}

// Fulfill delivers the words for requestID to the consumer. The request is retired
// whether or not the consumer accepts it; there is no second delivery.
func (c *Coordinator) Fulfill(ctx context.Context, requestID uint64) error {
	c.mu.Lock()
	req, ok := c.pending[requestID]
	consumer := c.consumer
	if ok && consumer != nil {
		delete(c.pending, requestID)
	}
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRequest, requestID)
	}
	if consumer == nil {
		return ErrNoConsumer
	}

	words := c.Words(requestID, req.NumWords)
	if err := consumer.FulfillRandomWords(ctx, c.address, new(big.Int).SetUint64(requestID), words); err != nil {
		c.log.Warn("randomness callback failed", zap.Uint64("request-id", requestID), zap.Error(err))
		return fmt.Errorf("callback for request %d failed: %w", requestID, err)
	}
	c.log.Debug("randomness delivered", zap.Uint64("request-id", requestID))
	return nil
}

type coordinatorJSON struct {
	NextID  uint64           `json:"nextId"`
	Pending []PendingRequest `json:"pending"`
}

func (c *Coordinator) MarshalJSON() ([]byte, error) {
	pending := c.Pending()
	c.mu.Lock()
	next := c.nextID
	c.mu.Unlock()
	return json.Marshal(coordinatorJSON{NextID: next, Pending: pending})
}

func (c *Coordinator) UnmarshalJSON(data []byte) error {
	var in coordinatorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID = max(in.NextID, 1)
	c.pending = make(map[uint64]Request, len(in.Pending))
	for _, p := range in.Pending {
		c.pending[p.ID] = p.Request
	}
	return nil
}
