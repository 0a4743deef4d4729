// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package access implements the capability table that gates operator calls.
package access

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/fault"
)

// Role names a capability.
type Role string

const (
	// AdminRole may grant and revoke every role.
	AdminRole Role = "DEFAULT_ADMIN_ROLE"
	// BrokerRole is the operator capability: pools, tiers, draws, settlement and
	// project registration.
	BrokerRole Role = "BROKER_ROLE"
)

var ErrUnauthorized = fault.New(fault.KindAuthorization, "AccessControlUnauthorizedAccount")

// MissingRoleError identifies the account and the role it lacks.
type MissingRoleError struct {
	Account common.Address
	Role    Role
}

func (e *MissingRoleError) Error() string {
	return fmt.Sprintf("access: account %s is missing role %s", e.Account.Hex(), e.Role)
}

func (*MissingRoleError) Unwrap() error {
	return ErrUnauthorized
}

// Authorizer is what the engines consume.
type Authorizer interface {
	Check(role Role, account common.Address) error
}

// Roles is a role -> members table. The zero value is not usable; use NewRoles.
type Roles struct {
	mu      sync.RWMutex
	members map[Role]map[common.Address]struct{}
}

// NewRoles returns a table where admin holds AdminRole and BrokerRole.
func NewRoles(admin common.Address) *Roles {
	r := &Roles{members: make(map[Role]map[common.Address]struct{})}
	r.add(AdminRole, admin)
	r.add(BrokerRole, admin)
	return r
}

func (r *Roles) HasRole(role Role, account common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[role][account]
	return ok
}

// Check returns a *MissingRoleError when account does not hold role.
func (r *Roles) Check(role Role, account common.Address) error {
	if !r.HasRole(role, account) {
		return &MissingRoleError{Account: account, Role: role}
	}
	return nil
}

// Grant gives role to account. Only admins may grant.
func (r *Roles) Grant(caller common.Address, role Role, account common.Address) error {
	if err := r.Check(AdminRole, caller); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(role, account)
	return nil
}

// Revoke removes role from account. Only admins may revoke.
func (r *Roles) Revoke(caller common.Address, role Role, account common.Address) error {
	if err := r.Check(AdminRole, caller); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members[role], account)
	return nil
}

// Members returns the holders of role in address order.
func (r *Roles) Members(role Role) []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]common.Address, 0, len(r.members[role]))
	for a := range r.members[role] {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b common.Address) int { return bytes.Compare(a[:], b[:]) })
	return out
}

func (r *Roles) add(role Role, account common.Address) {
	set, ok := r.members[role]
	if !ok {
		set = make(map[common.Address]struct{})
		r.members[role] = set
	}
	set[account] = struct{}{}
}

func (r *Roles) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	roles := make([]Role, 0, len(r.members))
	for role := range r.members {
		roles = append(roles, role)
	}
	r.mu.RUnlock()
	out := make(map[Role][]common.Address, len(roles))
	for _, role := range roles {
		out[role] = r.Members(role)
	}
	return json.Marshal(out)
}

func (r *Roles) UnmarshalJSON(data []byte) error {
	var in map[Role][]common.Address
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = make(map[Role]map[common.Address]struct{}, len(in))
	for role, accounts := range in {
		for _, a := range accounts {
			r.add(role, a)
		}
	}
	return nil
}
