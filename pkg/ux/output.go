// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ux writes command output. Messages go to the user's writer; outcomes
// are also written to the log file so a session can be reconstructed.
package ux

import (
	"fmt"
	"io"

	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

const (
	checkmark = "✓"
	redX      = "✗"
	separator = "=========================================="
)

var Logger *UserLog

type UserLog struct {
	log    luxlog.Logger
	writer io.Writer
}

// NewUserLog installs the process-wide Logger. Later calls are ignored.
func NewUserLog(log luxlog.Logger, userwriter io.Writer) {
	if Logger != nil {
		return
	}
	Logger = &UserLog{log: log, writer: userwriter}
}

// PrintToUser writes to the user only.
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	ul.println(fmt.Sprintf(msg, args...))
}

func (ul *UserLog) PrintLineSeparator() {
	ul.println(separator)
}

// RedXToUser reports a failure that did not abort the command.
func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	text := fmt.Sprintf(msg, args...)
	ul.println(redX + " " + text)
	ul.log.Warn("command step failed", zap.String("detail", text))
}

// GreenCheckmarkToUser reports a completed state change.
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	text := fmt.Sprintf(msg, args...)
	ul.println(checkmark + " " + text)
	ul.log.Info("command step done", zap.String("detail", text))
}

func (ul *UserLog) println(line string) {
	_, _ = fmt.Fprintln(ul.writer, line)
}
