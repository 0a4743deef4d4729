// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"

	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/spf13/cobra"
)

const callerFlag = "as"

// AddCallerFlagToCmd adds --as, the key an operator call is signed with.
func AddCallerFlagToCmd(cmd *cobra.Command, keyName *string) {
	cmd.Flags().StringVar(keyName, callerFlag, constants.OperatorKeyName, "key to make the call as")
}

// ParseRole accepts "admin", "broker" or a raw role name.
func ParseRole(raw string) (access.Role, error) {
	switch raw {
	case "admin", string(access.AdminRole):
		return access.AdminRole, nil
	case "broker", string(access.BrokerRole):
		return access.BrokerRole, nil
	}
	return "", fmt.Errorf("unknown role %q, expected admin or broker", raw)
}
