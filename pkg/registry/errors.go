// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import "github.com/luxfi/launchpad/pkg/fault"

var (
	ErrInvalidPool                   = fault.New(fault.KindValidation, "InvalidPool")
	ErrInvalidPoolConfig             = fault.New(fault.KindValidation, "InvalidPoolConfig")
	ErrInvalidPledgeAmount           = fault.New(fault.KindValidation, "InvalidPledgeAmount")
	ErrInvalidTier                   = fault.New(fault.KindValidation, "InvalidTier")
	ErrLastTierIsImplicit            = fault.New(fault.KindValidation, "LastTierIsImplicit")
	ErrTierMembersMustHavePledged    = fault.New(fault.KindValidation, "TierMembersMustHavePledged")
	ErrPledgeNotFound                = fault.New(fault.KindValidation, "PledgeNotFound")
	ErrUnknownRequest                = fault.New(fault.KindValidation, "UnknownRequest")
	ErrInsufficientRandomness        = fault.New(fault.KindValidation, "InsufficientRandomness")
	ErrMembersOnlyPermittedInOneTier = fault.New(fault.KindState, "MembersOnlyPermittedInOneTier")
	ErrLotteryIsPending              = fault.New(fault.KindState, "LotteryIsPending")
	ErrNotInPledgingWindow           = fault.New(fault.KindState, "NotInPledgingWindow")
	ErrAlreadyPledged                = fault.New(fault.KindState, "AlreadyPledged")
	ErrDrawAlreadyStarted            = fault.New(fault.KindState, "DrawAlreadyStarted")
	ErrPledgingNotEnded              = fault.New(fault.KindState, "PledgingNotEnded")
	ErrTiersHaveNotBeenInitialized   = fault.New(fault.KindState, "TiersHaveNotBeenInitialized")
	ErrInsufficientStake             = fault.New(fault.KindAuthorization, "InsufficientStake")
	ErrOnlyCoordinator               = fault.New(fault.KindAuthorization, "OnlyCoordinatorCanFulfill")
	ErrInsufficientBalance           = fault.New(fault.KindResource, "InsufficientBalance")
	ErrTreasuryInsufficient          = fault.New(fault.KindResource, "TreasuryInsufficient")
)
