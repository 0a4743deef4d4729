// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"encoding/json"
	"fmt"
)

// DrawState is the lifecycle of a pool's draw. It only moves forward.
type DrawState int

const (
	// NotStarted accepts pledges and tier changes
	NotStarted DrawState = iota
	// Requested is waiting on the randomness callback
	Requested
	// Fulfilled has winners
	Fulfilled
	// Settled has refunded its losers
	Settled
)

var names = [...]string{"NotStarted", "Requested", "Fulfilled", "Settled"}

func (s DrawState) String() string {
	if s < NotStarted || s > Settled {
		return fmt.Sprintf("DrawState(%d)", int(s))
	}
	return names[s]
}

// CanTransition reports whether to is the next state after s.
func (s DrawState) CanTransition(to DrawState) bool {
	switch s {
	case NotStarted:
		// a draw without a raffle goes straight to Fulfilled
		return to == Requested || to == Fulfilled
	case Requested:
		return to == Fulfilled
	case Fulfilled:
		return to == Settled
	}
	return false
}

// Started is true once a draw has been requested or completed.
func (s DrawState) Started() bool {
	return s != NotStarted
}

func (s DrawState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DrawState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range names {
		if n == name {
			*s = DrawState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown draw state %q", name)
}
