// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package token defines the lexical token types of the calculator language.
//
// The language is deliberately tiny:
//   - decimal integer literals
//   - identifiers (a letter followed by letters or digits)
//   - the four binary operators + - * /
//   - parentheses
package token

import "fmt"

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return t.Literal
}

// Position tracks source location. Expressions are single-line, so only the
// byte offset and the 1-based column are kept.
type Position struct {
	Offset int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("1:%d", p.Column)
}

// Type is the set of lexical token types.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF

	// Operands
	INT   // 42
	IDENT // x, rate2

	// Operators; the literal carries the symbol
	OPERATOR // + - * /

	// Delimiters
	LPAREN // (
	RPAREN // )
)

var tokenNames = [...]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	INT:      "INT",
	IDENT:    "IDENT",
	OPERATOR: "OPERATOR",
	LPAREN:   "(",
	RPAREN:   ")",
}

// String returns the string form of a token type.
func (t Type) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsOperand returns true for integer literals and identifiers.
func (t Type) IsOperand() bool {
	return t == INT || t == IDENT
}

// IsOperator returns true for operator tokens and parentheses, i.e. every
// token the parser routes to its operator stack.
func (t Type) IsOperator() bool {
	return t == OPERATOR || t == LPAREN || t == RPAREN
}

// Operators lists the operator symbols the lexer emits as OPERATOR tokens.
const Operators = "+-*/"
