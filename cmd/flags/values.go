// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*AmountValue)(nil)
	_ pflag.Value = (*AddressValue)(nil)
)

// AmountValue is a non-negative base-10 integer flag. A flag that was never set
// leaves the target nil.
type AmountValue struct {
	target **big.Int
}

func NewAmountValue(target **big.Int) *AmountValue {
	return &AmountValue{target: target}
}

func (a *AmountValue) Set(raw string) error {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return fmt.Errorf("%q is not a non-negative integer", raw)
	}
	*a.target = v
	return nil
}

func (a *AmountValue) String() string {
	if a.target == nil || *a.target == nil {
		return ""
	}
	return (*a.target).String()
}

func (*AmountValue) Type() string { return "amount" }

// AddressValue is a hex address flag.
type AddressValue struct {
	target *common.Address
}

func NewAddressValue(target *common.Address) *AddressValue {
	return &AddressValue{target: target}
}

func (a *AddressValue) Set(raw string) error {
	if !common.IsHexAddress(raw) {
		return fmt.Errorf("%q is not a hex address", raw)
	}
	*a.target = common.HexToAddress(raw)
	return nil
}

func (a *AddressValue) String() string {
	if a.target == nil || *a.target == (common.Address{}) {
		return ""
	}
	return a.target.Hex()
}

func (*AddressValue) Type() string { return "address" }

// AddAmountFlag registers an amount flag on set.
func AddAmountFlag(set *pflag.FlagSet, target **big.Int, name, usage string) {
	set.Var(NewAmountValue(target), name, usage)
}
