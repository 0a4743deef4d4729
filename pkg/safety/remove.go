// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package safety guards removals so that a reset of local state never takes
// keys or configuration with it.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Policy defines which paths are allowed or denied for deletion.
type Policy struct {
	BaseDir       string   // never removed itself
	AllowPrefixes []string // absolute paths allowed to delete under
	DenyPrefixes  []string // absolute paths never deletable
}

// Paths are the locations a reset policy is built from.
type Paths struct {
	BaseDir    string
	KeyDir     string
	LogDir     string
	ConfigFile string
	StateFile  string
	FactsDB    string
}

// ResetPolicy allows removing the engine snapshot, the fact log with its SQLite
// sidecar files and the logs. Keys and the config file are never removed.
func ResetPolicy(paths Paths) Policy {
	allow := []string{
		paths.StateFile,
		paths.FactsDB,
		paths.FactsDB + "-wal",
		paths.FactsDB + "-shm",
		paths.LogDir,
	}
	deny := []string{paths.KeyDir}
	if paths.ConfigFile != "" {
		deny = append(deny, paths.ConfigFile)
	}
	p := Policy{BaseDir: absOrSelf(paths.BaseDir)}
	for _, a := range allow {
		if a != "" {
			p.AllowPrefixes = append(p.AllowPrefixes, absOrSelf(a))
		}
	}
	for _, d := range deny {
		if d != "" {
			p.DenyPrefixes = append(p.DenyPrefixes, absOrSelf(d))
		}
	}
	return p
}

// RemoveAll safely removes a directory or file, respecting the policy.
// It returns an error if the target is protected or not in an allowed path.
func RemoveAll(policy Policy, target string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if IsProtected(policy, abs) {
		return fmt.Errorf("refusing to delete protected path: %s (protected by policy)", abs)
	}
	if !IsAllowed(policy, abs) {
		return fmt.Errorf("refusing to delete path: %s (not in allowed list)", abs)
	}
	return os.RemoveAll(abs)
}

// IsProtected checks if a path is protected by the given policy.
func IsProtected(policy Policy, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return true // If we can't resolve, assume protected
	}
	if policy.BaseDir != "" && abs == filepath.Clean(policy.BaseDir) {
		return true
	}
	for _, d := range policy.DenyPrefixes {
		if isUnderOrEqual(abs, d) || isUnderOrEqual(d, abs) {
			return true
		}
	}
	return false
}

// IsAllowed checks if a path is in the allowed deletion list.
func IsAllowed(policy Policy, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, a := range policy.AllowPrefixes {
		if isUnderOrEqual(abs, a) {
			return true
		}
	}
	return false
}

// isUnderOrEqual returns true if path is equal to or under prefix.
func isUnderOrEqual(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
