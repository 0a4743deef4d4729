// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table keeps the string-slice API the commands print with on top of
// tablewriter v1.
type Table struct {
	*tablewriter.Table
}

// NewTable writes to stdout, left aligned.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

func NewTableTo(w io.Writer, headers ...string) *Table {
	t := &Table{Table: tablewriter.NewTable(w)}
	t.Table.Configure(func(config *tablewriter.Config) {
		config.Row.Alignment.Global = tw.AlignLeft
	})
	anyHeaders := make([]any, len(headers))
	for i, h := range headers {
		anyHeaders[i] = h
	}
	t.Table.Header(anyHeaders...)
	return t
}

// AppendRow adds a row of already formatted cells.
func (t *Table) AppendRow(row ...string) {
	_ = t.Table.Append(row)
}
