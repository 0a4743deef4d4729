// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package distributorcmd

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/merkle"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	claimAccount string
	claimsFile   string
	claimAmount  string
	claimProof   []string
)

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim <project-id>",
		Short: "Claim everything vested for an account",
		Long: `Pay an account what has vested since its last claim. The entitlement and
proof come from --claims, or from --amount and --proof.

Examples:
  launchpad distributor claim 0 --account 0x... --claims claims.json
  launchpad distributor claim 0 --account 0x... --amount 1000 --proof 0xab..,0xcd..`,
		Args: cobrautils.ExactArgs(1),
		RunE: runClaim,
	}
	addAccountFlags(cmd)
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func addAccountFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&claimAccount, "account", "", "participant address")
	cmd.Flags().StringVar(&claimsFile, "claims", "", "claims file written by merkle build")
	cmd.Flags().StringVar(&claimAmount, "amount", "", "entitlement in base units")
	cmd.Flags().StringSliceVar(&claimProof, "proof", nil, "proof hashes, leaf side first")
	cmd.MarkFlagsMutuallyExclusive("claims", "amount")
	cmd.MarkFlagsMutuallyExclusive("claims", "proof")
}

// entitlementOf reads the participant's entitlement and proof from the flags.
func entitlementOf(acc common.Address) (*big.Int, []common.Hash, error) {
	if claimsFile != "" {
		claims, err := merkle.LoadClaimSet(claimsFile)
		if err != nil {
			return nil, nil, err
		}
		c, err := claims.Find(acc)
		if err != nil {
			return nil, nil, err
		}
		return c.Amount, c.Proof, nil
	}
	if claimAmount == "" {
		return nil, nil, errors.New("either --claims or --amount is required")
	}
	amount, err := cobrautils.ParseAmount("--amount", claimAmount)
	if err != nil {
		return nil, nil, err
	}
	proof, err := cobrautils.ParseHashes("--proof", claimProof)
	if err != nil {
		return nil, nil, err
	}
	return amount, proof, nil
}

func runClaim(cmd *cobra.Command, args []string) error {
	id, err := parseProjectID(args[0])
	if err != nil {
		return err
	}
	acc, err := cobrautils.ParseAddress("--account", claimAccount)
	if err != nil {
		return err
	}
	entitlement, proof, err := entitlementOf(acc)
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		paid, err := e.Distributor.Claim(cmd.Context(), id, acc, entitlement, proof)
		if err != nil {
			return err
		}
		claimed, err := e.Distributor.Claimed(id, acc)
		if err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Paid %s to %s", paid, acc)
		ux.Logger.PrintToUser("Claimed so far: %s of %s", claimed, entitlement)
		return nil
	})
}
