// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a two-stack (shunting-yard) operator-precedence
// parser.
//
// Design overview:
//
//   - The operator stack holds + - * / and '(' but never ')'.
//   - The operand stack holds whatever a Builder produces: expression trees for
//     Parse, plain integers for the direct evaluator in package eval.
//   - Operators of equal precedence reduce before the incoming one is pushed,
//     which makes every operator left-associative.
//   - The first error aborts the run; there is no recovery.
package parser

import (
	"fmt"
	"strconv"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/token"
)

// lparen marks an open parenthesis on the operator stack.
const lparen ast.Op = '('

// ShouldPush decides whether incoming may be pushed on top of top without
// reducing first.
//
//	    + - * / ( )
//	  + F F T T T F
//	  - F F T T T F
//	  * F F F F T F
//	  / F F F F T F
//	  ( T T T T T T
func ShouldPush(top, incoming ast.Op) bool {
	if top == lparen || incoming == lparen {
		return true
	}
	if incoming == ')' {
		return false
	}
	return incoming.Precedence() > top.Precedence()
}

// Builder turns operand tokens and operator applications into values of T.
type Builder[T any] interface {
	// Operand converts an INT or IDENT token into a value.
	Operand(tok token.Token) (T, error)

	// Combine applies op to two already-built operands.
	Combine(op ast.Op, left, right T) (T, error)
}

// shunter holds the two stacks for a single run.
type shunter[T any] struct {
	b        Builder[T]
	ops      []ast.Op
	operands []T
}

// reduce pops the top operator and two operands and pushes their combination.
func (s *shunter[T]) reduce(pos token.Position) error {
	if len(s.operands) < 2 {
		return fmt.Errorf("%w: operator %s at %s is missing an operand",
			calcerr.ErrInvalidExpression, s.ops[len(s.ops)-1], pos)
	}
	op := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]

	right := s.operands[len(s.operands)-1]
	left := s.operands[len(s.operands)-2]
	s.operands = s.operands[:len(s.operands)-2]

	v, err := s.b.Combine(op, left, right)
	if err != nil {
		return err
	}
	s.operands = append(s.operands, v)
	return nil
}

func (s *shunter[T]) top() ast.Op { return s.ops[len(s.ops)-1] }

// Shunt runs the shunting-yard loop over toks, stopping at the first EOF
// token or the end of the slice, and returns the single value left on the
// operand stack.
func Shunt[T any](toks []token.Token, b Builder[T]) (T, error) {
	var (
		zero T
		s    = &shunter[T]{b: b}
		end  token.Position
	)
loop:
	for _, tok := range toks {
		end = tok.Pos
		switch tok.Type {
		case token.EOF:
			break loop

		case token.INT, token.IDENT:
			v, err := b.Operand(tok)
			if err != nil {
				return zero, err
			}
			s.operands = append(s.operands, v)

		case token.LPAREN:
			s.ops = append(s.ops, lparen)

		case token.RPAREN:
			for len(s.ops) > 0 && s.top() != lparen {
				if err := s.reduce(tok.Pos); err != nil {
					return zero, err
				}
			}
			if len(s.ops) == 0 {
				return zero, fmt.Errorf("%w: unmatched ')' at %s", calcerr.ErrInvalidExpression, tok.Pos)
			}
			s.ops = s.ops[:len(s.ops)-1]

		case token.OPERATOR:
			op, ok := ast.ParseOp(tok.Literal)
			if !ok {
				return zero, fmt.Errorf("%w: %q at %s", calcerr.ErrUnrecognizedOperator, tok.Literal, tok.Pos)
			}
			for len(s.ops) > 0 && !ShouldPush(s.top(), op) {
				if err := s.reduce(tok.Pos); err != nil {
					return zero, err
				}
			}
			s.ops = append(s.ops, op)

		default:
			return zero, fmt.Errorf("%w: unexpected %s token %q at %s",
				calcerr.ErrInvalidExpression, tok.Type, tok.Literal, tok.Pos)
		}
	}
	for len(s.ops) > 0 {
		if s.top() == lparen {
			return zero, fmt.Errorf("%w: unmatched '('", calcerr.ErrInvalidExpression)
		}
		if err := s.reduce(end); err != nil {
			return zero, err
		}
	}
	if len(s.operands) != 1 {
		return zero, fmt.Errorf("%w: %d operands left after parsing, want 1",
			calcerr.ErrInvalidExpression, len(s.operands))
	}
	return s.operands[0], nil
}

// ParseInt converts an INT literal, reporting out-of-range values as
// calcerr.ErrOverflow.
func ParseInt(tok token.Token) (int64, error) {
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, fmt.Errorf("%w: literal %s at %s", calcerr.ErrOverflow, tok.Literal, tok.Pos)
		}
		return 0, fmt.Errorf("%w: bad literal %q at %s", calcerr.ErrInvalidExpression, tok.Literal, tok.Pos)
	}
	return v, nil
}

// treeBuilder builds expression trees.
type treeBuilder struct{}

func (treeBuilder) Operand(tok token.Token) (ast.Expr, error) {
	if tok.Type == token.IDENT {
		return ast.NewVariable(tok.Literal), nil
	}
	v, err := ParseInt(tok)
	if err != nil {
		return nil, err
	}
	return ast.NewConstant(v), nil
}

func (treeBuilder) Combine(op ast.Op, left, right ast.Expr) (ast.Expr, error) {
	return ast.NewOperator(op, left, right), nil
}

// Parse builds an expression tree from a token sequence.
func Parse(toks []token.Token) (ast.Expr, error) {
	return Shunt[ast.Expr](toks, treeBuilder{})
}

// ParseString tokenizes input and parses the result.
func ParseString(input string, opts ...lexer.Option) (ast.Expr, error) {
	toks, err := lexer.Tokenize(input, opts...)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}
