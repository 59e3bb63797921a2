// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package calcerr holds the error kinds shared by every stage of the
// expression pipeline. Stages wrap these sentinels with fmt.Errorf("%w: ...")
// so callers can classify a failure with errors.Is regardless of which stage
// produced it.
package calcerr

import "errors"

var (
	// ErrLexical is returned when the input contains a character that cannot
	// start any token.
	ErrLexical = errors.New("character not allowed in expression")

	// ErrInvalidExpression covers structural failures: unbalanced parentheses,
	// an operator without two operands, or leftover operands after parsing.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrUnrecognizedOperator is returned when operator text does not match any
	// operator the consuming stage understands.
	ErrUnrecognizedOperator = errors.New("unrecognized operator")

	// ErrUnresolvedVariable is returned when evaluation reaches a variable.
	ErrUnresolvedVariable = errors.New("cannot evaluate a variable")

	// ErrUnsupportedOperator is returned when symbolic reduction reaches an
	// operator other than + or -.
	ErrUnsupportedOperator = errors.New("operator not supported for reduction")

	// ErrDivisionByZero is returned when evaluation divides by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow is returned when a literal, an intermediate result or a
	// coefficient does not fit in an int64.
	ErrOverflow = errors.New("integer overflow")
)

// Kind returns a short stable name for the error class of err, or "internal"
// when err does not wrap any of the sentinels above.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLexical):
		return "lexical"
	case errors.Is(err, ErrInvalidExpression):
		return "invalid-expression"
	case errors.Is(err, ErrUnrecognizedOperator):
		return "unrecognized-operator"
	case errors.Is(err, ErrUnresolvedVariable):
		return "unresolved-variable"
	case errors.Is(err, ErrUnsupportedOperator):
		return "unsupported-operator"
	case errors.Is(err, ErrDivisionByZero):
		return "division-by-zero"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	default:
		return "internal"
	}
}
