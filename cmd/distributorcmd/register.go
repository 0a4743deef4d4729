// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package distributorcmd

import (
	"errors"
	"math/big"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/luxfi/launchpad/pkg/distributor"
	"github.com/luxfi/launchpad/pkg/merkle"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	registerToken    common.Address
	registerPerCycle *big.Int
	registerStart    string
	registerCycles   uint64
	registerRoot     string
	registerClaims   string
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <project-id>",
		Short: "Register a project's vesting schedule",
		Long: `Register the token, schedule and merkle root of a project. A project can be
registered once. The root is read from --claims or given with --root.

Example:
  launchpad distributor register 0 --token 0x... --per-cycle 1000 --cycles 12 \
    --cycle-start 2025-01-01T00:00:00Z --claims claims.json`,
		Args: cobrautils.ExactArgs(1),
		RunE: runRegister,
	}
	flags.AddCallerFlagToCmd(cmd, &callerKey)
	cmd.Flags().Var(flags.NewAddressValue(&registerToken), "token", "token being distributed")
	flags.AddAmountFlag(cmd.Flags(), &registerPerCycle, "per-cycle", "tokens released per cycle")
	cmd.Flags().StringVar(&registerStart, "cycle-start", "", "RFC3339 start of the first cycle (default now)")
	cmd.Flags().Uint64Var(&registerCycles, "cycles", 0, "number of cycles")
	cmd.Flags().StringVar(&registerRoot, "root", "", "merkle root")
	cmd.Flags().StringVar(&registerClaims, "claims", "", "claims file to take the root from")
	cmd.MarkFlagsMutuallyExclusive("root", "claims")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("per-cycle")
	_ = cmd.MarkFlagRequired("cycles")
	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	id, err := parseProjectID(args[0])
	if err != nil {
		return err
	}
	token, perCycle := registerToken, registerPerCycle
	start := time.Now()
	if registerStart != "" {
		if start, err = time.Parse(constants.TimeParseLayout, registerStart); err != nil {
			return err
		}
	}
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	caller, err := app.GetKey(callerKey)
	if err != nil {
		return err
	}

	project := distributor.Project{
		ID:             id,
		Token:          token,
		PerCycleAmount: perCycle,
		CycleStart:     start,
		CycleCount:     registerCycles,
		MerkleRoot:     root,
	}
	return app.Update(func(e *application.Engine) error {
		if err := e.Distributor.RegisterProjectToken(cmd.Context(), caller.Address(), project); err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Project %d registered", id)
		ux.Logger.PrintToUser("Custody %s pays the claims; top it up with 'launchpad distributor fund %d'", e.Distributor.Custody(), id)
		return nil
	})
}

func resolveRoot() (common.Hash, error) {
	switch {
	case registerRoot != "":
		return cobrautils.ParseHash("--root", registerRoot)
	case registerClaims != "":
		claims, err := merkle.LoadClaimSet(registerClaims)
		if err != nil {
			return common.Hash{}, err
		}
		return claims.Root, nil
	}
	return common.Hash{}, errors.New("either --root or --claims is required")
}
