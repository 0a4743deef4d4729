// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cobrautils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"
)

// CommandSuiteUsage prints help for a command that only groups subcommands.
func CommandSuiteUsage(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}

// ExactArgs is cobra.ExactArgs with the usage line in the error.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%q expects %d argument(s), got %d\nusage: %s", cmd.CommandPath(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func ParseAddress(name, raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s: %q is not a hex address", name, raw)
	}
	return common.HexToAddress(raw), nil
}

func ParseAddresses(name string, raw []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(raw))
	for _, r := range raw {
		addr, err := ParseAddress(name, strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// ParseAmount reads a non-negative base-10 integer.
func ParseAmount(name, raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%s: %q is not a non-negative integer", name, raw)
	}
	return v, nil
}

func ParseHash(name, raw string) (common.Hash, error) {
	b, err := hexutil.Decode(raw)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%s: %q is not a 32 byte hex value", name, raw)
	}
	return common.BytesToHash(b), nil
}

func ParseHashes(name string, raw []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(raw))
	for _, r := range raw {
		h, err := ParseHash(name, strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
