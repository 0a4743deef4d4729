// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/config"
	"github.com/spf13/cobra"
)

const (
	tokenFlag = "token"

	CurrencyToken   = "currency"
	GovernanceToken = "governance"
)

// AddTokenFlagToCmd adds --token. The value is "currency", "governance" or a hex
// address and is checked before the command runs.
func AddTokenFlagToCmd(cmd *cobra.Command, token *string, defaultToken string) {
	cmd.Flags().StringVar(token, tokenFlag, defaultToken, `token: "currency", "governance" or an address`)

	existingPreRunE := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRunE != nil {
			if err := existingPreRunE(cmd, args); err != nil {
				return err
			}
		}
		return ValidateToken(*token)
	}
}

func ValidateToken(token string) error {
	switch token {
	case CurrencyToken, GovernanceToken:
		return nil
	}
	if !common.IsHexAddress(token) {
		return fmt.Errorf("--%s: %q is neither a token name nor an address", tokenFlag, token)
	}
	return nil
}

// ResolveToken maps a --token value to an address.
func ResolveToken(settings config.Settings, token string) (common.Address, error) {
	switch token {
	case CurrencyToken:
		return settings.Currency, nil
	case GovernanceToken:
		return settings.GovernanceToken, nil
	}
	if err := ValidateToken(token); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(token), nil
}
