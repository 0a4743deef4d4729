// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoOperatorKey  = errors.New("\n\nNo operator key found. To resolve this:\n- Use 'launchpad key create operator' to create one.\n") //nolint:stylecheck
	ErrInvalidAddress = errors.New("invalid address")
)
