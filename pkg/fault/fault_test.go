// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsKindThroughWrapping(t *testing.T) {
	require := require.New(t)
	errBadAmount := New(KindValidation, "InvalidPledgeAmount")

	wrapped := fmt.Errorf("%w: 42", errBadAmount)
	require.ErrorIs(wrapped, errBadAmount)
	require.True(IsKind(wrapped, KindValidation))
	require.False(IsKind(wrapped, KindState))
	require.Equal("InvalidPledgeAmount", Code(wrapped))
}

func TestUnclassified(t *testing.T) {
	require := require.New(t)
	err := errors.New("plain")
	require.False(IsKind(err, KindValidation))
	require.Empty(Code(err))
	require.False(IsKind(nil, KindResource))
}
