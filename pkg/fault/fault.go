// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fault classifies the named error conditions returned by the launchpad
// engines so that callers can branch on the category of a failure.
//
// Every condition is a package-level sentinel created with New. Use errors.Is to
// match a specific condition and IsKind to match a whole category.
package fault

import "errors"

// Kind is a stable category for programmatic error handling.
type Kind string

const (
	// KindValidation marks malformed input: unknown ids, bad amounts, bad bounds.
	KindValidation Kind = "Validation"
	// KindAuthorization marks a missing role, a failed permit or an insufficient stake.
	KindAuthorization Kind = "Authorization"
	// KindState marks a call made in the wrong lifecycle state.
	KindState Kind = "State"
	// KindResource marks an exhausted balance. The call may succeed once funded.
	KindResource Kind = "Resource"
)

// Error is a named condition. Code is stable; do not match on Error() text.
type Error struct {
	Kind Kind
	Code string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Code
}

// New returns a sentinel for the given category and code.
func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Code returns the stable code of a classified error, or "" if unknown.
func Code(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
