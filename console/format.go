// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/symbolic"
	"github.com/probechain/probe-calc/lang/token"
)

// constantLabel names the constant term in tables.
const constantLabel = "(constant)"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// WriteTokens prints one token per line: position, type and literal.
func WriteTokens(w io.Writer, toks []token.Token) {
	for _, tok := range toks {
		fmt.Fprintf(w, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal)
	}
}

// WriteTerms renders the non-zero coefficients of terms as a table, constant
// first and variables in ascending order.
func WriteTerms(w io.Writer, terms symbolic.Terms) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Term", "Coefficient"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	compact := terms.Compact()
	if len(compact) == 0 {
		table.Append([]string{constantLabel, "0"})
	}
	for _, key := range compact.Keys() {
		label := key
		if key == symbolic.ConstantKey {
			label = constantLabel
		}
		table.Append([]string{label, strconv.FormatInt(compact[key], 10)})
	}
	table.Render()
}

// DumpTree writes the Go structure of an expression tree.
func DumpTree(w io.Writer, e ast.Expr) {
	dumper.Fdump(w, e)
}
