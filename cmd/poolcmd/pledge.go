// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/account"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	pledgeKey      string
	pledgeAccount  common.Address
	pledgeSalt     uint64
	pledgeAmount   *big.Int
	pledgeDeadline time.Duration
)

func newPledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pledge <pool-id>",
		Short: "Pledge into a pool from a smart account",
		Long: `Pledge amount of the pool currency. The account owner signs a permit for the
registry and the registry pulls the funds. The account defaults to the one the key
created with --salt.`,
		Args: cobrautils.ExactArgs(1),
		RunE: runPledge,
	}
	cmd.Flags().StringVar(&pledgeKey, "key", "", "key that owns the account")
	cmd.Flags().Var(flags.NewAddressValue(&pledgeAccount), "account", "smart account to pledge from")
	cmd.Flags().Uint64Var(&pledgeSalt, "salt", 0, "salt of the owner's account when --account is not set")
	flags.AddAmountFlag(cmd.Flags(), &pledgeAmount, "amount", "amount in base units")
	cmd.Flags().DurationVar(&pledgeDeadline, "deadline", time.Hour, "how long the signed permit stays valid")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runPledge(cmd *cobra.Command, args []string) error {
	id, err := parsePoolID(args[0])
	if err != nil {
		return err
	}
	amount := pledgeAmount
	if pledgeDeadline <= 0 {
		return fmt.Errorf("--deadline must be positive")
	}
	owner, err := app.GetKey(pledgeKey)
	if err != nil {
		return err
	}
	acc := pledgeAccount
	if acc == (common.Address{}) {
		acc = account.DeriveAddress(owner.Address(), pledgeSalt)
	}
	deadline := big.NewInt(time.Now().Add(pledgeDeadline).Unix())

	return app.Update(func(e *application.Engine) error {
		sig, err := e.SignPledge(owner, acc, amount, deadline)
		if err != nil {
			return err
		}
		if err := e.Registry.Pledge(contextOf(cmd), acc, id, amount, deadline, sig); err != nil {
			return err
		}
		pledge, err := e.Registry.PledgeOf(id, acc)
		if err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("%s pledged %s into pool %d", acc, amount, id)
		ux.Logger.PrintToUser("Tier: %d", pledge.TierID)
		return nil
	})
}

