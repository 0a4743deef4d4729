// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package merklecmd

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/merkle"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	projectID  uint64
	inputFile  string
	outputFile string
	fromPool   int64
	perWinner  string
)

// entitlementEntry is one line of the input file:
//
//	- account: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
//	  amount: "1000000000000000000000"
type entitlementEntry struct {
	Account string `yaml:"account"`
	Amount  string `yaml:"amount"`
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a claims file",
		Long: `Build the tree for a project and write the root and every proof to --output.
Entitlements come from a YAML list of {account, amount} entries, or from the winners
of a drawn pool with the same amount each.

Examples:
  launchpad merkle build --project 0 --input entitlements.yaml --output claims.json
  launchpad merkle build --project 0 --pool 0 --amount 1000 --output claims.json`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}
	cmd.Flags().Uint64Var(&projectID, "project", 0, "distributor project id")
	cmd.Flags().StringVar(&inputFile, "input", "", "YAML list of entitlements")
	cmd.Flags().StringVar(&outputFile, "output", "claims.json", "claims file to write")
	cmd.Flags().Int64Var(&fromPool, "pool", -1, "take the accounts from this pool's winners")
	cmd.Flags().StringVar(&perWinner, "amount", "", "entitlement of each winner with --pool")
	cmd.MarkFlagsMutuallyExclusive("input", "pool")
	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	var (
		entitlements []merkle.Entitlement
		err          error
	)
	switch {
	case inputFile != "":
		entitlements, err = readEntitlements(inputFile, projectID)
	case fromPool >= 0:
		entitlements, err = winnerEntitlements(uint64(fromPool), projectID, perWinner)
	default:
		err = errors.New("either --input or --pool is required")
	}
	if err != nil {
		return err
	}

	claims, err := merkle.BuildClaims(cmd.Context(), entitlements)
	if err != nil {
		return err
	}
	if err := claims.Save(outputFile); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Wrote %d claims to %s", len(claims.Claims), outputFile)
	ux.Logger.PrintToUser("Root: %s", claims.Root)
	return nil
}

func readEntitlements(path string, project uint64) ([]merkle.Entitlement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []entitlementEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return toEntitlements(entries, project)
}

func toEntitlements(entries []entitlementEntry, project uint64) ([]merkle.Entitlement, error) {
	out := make([]merkle.Entitlement, len(entries))
	for i, e := range entries {
		acc, err := cobrautils.ParseAddress(fmt.Sprintf("entry %d account", i), e.Account)
		if err != nil {
			return nil, err
		}
		amount, err := cobrautils.ParseAmount(fmt.Sprintf("entry %d amount", i), e.Amount)
		if err != nil {
			return nil, err
		}
		out[i] = merkle.Entitlement{ProjectID: new(big.Int).SetUint64(project), Account: acc, Amount: amount}
	}
	return out, nil
}

func winnerEntitlements(pool, project uint64, rawAmount string) ([]merkle.Entitlement, error) {
	amount, err := cobrautils.ParseAmount("--amount", rawAmount)
	if err != nil {
		return nil, err
	}
	var out []merkle.Entitlement
	err = app.View(func(e *application.Engine) error {
		winners, err := e.Registry.Winners(pool)
		if err != nil {
			return err
		}
		for _, w := range winners {
			out = append(out, merkle.Entitlement{
				ProjectID: new(big.Int).SetUint64(project),
				Account:   w,
				Amount:    new(big.Int).Set(amount),
			})
		}
		return nil
	})
	return out, err
}
