// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package safety

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPaths(t *testing.T) Paths {
	baseDir := filepath.Join(t.TempDir(), ".launchpad")
	return Paths{
		BaseDir:    baseDir,
		KeyDir:     filepath.Join(baseDir, "key"),
		LogDir:     filepath.Join(baseDir, "logs"),
		ConfigFile: filepath.Join(baseDir, "launchpad.yaml"),
		StateFile:  filepath.Join(baseDir, "state.json"),
		FactsDB:    filepath.Join(baseDir, "facts.db"),
	}
}

func touch(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestResetRemovesState(t *testing.T) {
	require := require.New(t)
	paths := testPaths(t)
	policy := ResetPolicy(paths)

	for _, p := range []string{paths.StateFile, paths.FactsDB, paths.FactsDB + "-wal", filepath.Join(paths.LogDir, "launchpad.log")} {
		touch(t, p)
		require.True(IsAllowed(policy, p))
	}
	require.NoError(RemoveAll(policy, paths.StateFile))
	require.NoError(RemoveAll(policy, paths.FactsDB))
	require.NoError(RemoveAll(policy, paths.FactsDB+"-wal"))
	require.NoError(RemoveAll(policy, paths.LogDir))
	require.NoFileExists(paths.StateFile)
	require.NoDirExists(paths.LogDir)

	// removing what is already gone is fine
	require.NoError(RemoveAll(policy, paths.StateFile))
}

func TestResetKeepsKeysAndConfig(t *testing.T) {
	require := require.New(t)
	paths := testPaths(t)
	policy := ResetPolicy(paths)
	keyFile := filepath.Join(paths.KeyDir, "operator.pk")
	touch(t, keyFile)
	touch(t, paths.ConfigFile)

	for _, p := range []string{keyFile, paths.KeyDir, paths.ConfigFile, paths.BaseDir} {
		require.True(IsProtected(policy, p), p)
		require.Error(RemoveAll(policy, p))
	}
	require.FileExists(keyFile)
	require.FileExists(paths.ConfigFile)

	other := filepath.Join(paths.BaseDir, "notes.txt")
	touch(t, other)
	require.False(IsAllowed(policy, other))
	require.ErrorContains(RemoveAll(policy, other), "not in allowed list")
}

func TestStateInsideKeyDirIsProtected(t *testing.T) {
	require := require.New(t)
	paths := testPaths(t)
	paths.StateFile = filepath.Join(paths.KeyDir, "state.json")
	policy := ResetPolicy(paths)
	require.Error(RemoveAll(policy, paths.StateFile))
}
