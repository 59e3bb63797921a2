// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package eval

import (
	"fmt"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/parser"
	"github.com/probechain/probe-calc/lang/token"
)

// intBuilder folds every reduction straight into an integer.
type intBuilder struct{}

func (intBuilder) Operand(tok token.Token) (int64, error) {
	if tok.Type == token.IDENT {
		return 0, fmt.Errorf("%w: %s", calcerr.ErrUnresolvedVariable, tok.Literal)
	}
	return parser.ParseInt(tok)
}

func (intBuilder) Combine(op ast.Op, left, right int64) (int64, error) {
	return Apply(op, left, right)
}

// Direct evaluates a token sequence with the parser's shunting rule but
// without building a tree. On well-formed input it yields the same value or
// error as Parse followed by Tree. Arithmetic happens while tokens are still
// being read, so on malformed input a division or overflow error may be
// reported ahead of the structural one.
func Direct(toks []token.Token) (int64, error) {
	return parser.Shunt[int64](toks, intBuilder{})
}
