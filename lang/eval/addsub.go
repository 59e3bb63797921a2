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
	"github.com/probechain/probe-calc/common/math"
	"github.com/probechain/probe-calc/lang/parser"
	"github.com/probechain/probe-calc/lang/token"
)

// AddSub evaluates a flat sum such as "12+34-56" in a single left-to-right
// pass. Operands and operators must alternate. A leading sign is accepted
// ("-5+2"); a trailing operator is not. Only + and - are understood: any
// other operator or a parenthesis fails with calcerr.ErrUnrecognizedOperator.
func AddSub(toks []token.Token) (int64, error) {
	var (
		result   int64
		negative bool
		last     *token.Token
	)
	for i := range toks {
		tok := &toks[i]
		if tok.Type == token.EOF {
			break
		}
		if last != nil && last.Type.IsOperand() == tok.Type.IsOperand() {
			return 0, fmt.Errorf("%w: '%s' and '%s' should not be adjacent",
				calcerr.ErrInvalidExpression, last.Literal, tok.Literal)
		}
		switch {
		case tok.Type.IsOperator():
			switch tok.Literal {
			case "+":
				negative = false
			case "-":
				negative = true
			default:
				return 0, fmt.Errorf("%w: '%s'", calcerr.ErrUnrecognizedOperator, tok.Literal)
			}
		case tok.Type == token.IDENT:
			return 0, fmt.Errorf("%w: %s", calcerr.ErrUnresolvedVariable, tok.Literal)
		case tok.Type == token.INT:
			v, err := parser.ParseInt(*tok)
			if err != nil {
				return 0, err
			}
			var overflow bool
			if negative {
				result, overflow = math.SafeSub(result, v)
			} else {
				result, overflow = math.SafeAdd(result, v)
			}
			if overflow {
				return 0, fmt.Errorf("%w: at %s", calcerr.ErrOverflow, tok.Pos)
			}
		default:
			return 0, fmt.Errorf("%w: unexpected %s token", calcerr.ErrInvalidExpression, tok.Type)
		}
		last = tok
	}
	if last == nil {
		return 0, fmt.Errorf("%w: empty expression", calcerr.ErrInvalidExpression)
	}
	if !last.Type.IsOperand() {
		return 0, fmt.Errorf("%w: expression ends with '%s'", calcerr.ErrInvalidExpression, last.Literal)
	}
	return result, nil
}
