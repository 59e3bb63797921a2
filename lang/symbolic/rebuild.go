// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package symbolic

import "github.com/probechain/probe-calc/lang/ast"

// Rebuild turns t back into an expression: the non-zero terms in ascending
// key order, summed left to right. The constant term becomes a bare constant
// and every variable becomes "c * x", even when c is 1. A negative
// coefficient stays a negative constant under +, e.g. "(1 + (-3 * x))".
// With no non-zero term the result is the constant 0.
func Rebuild(t Terms) ast.Expr {
	var sum ast.Expr
	for _, k := range t.Keys() {
		c := t[k]
		if c == 0 {
			continue
		}
		var term ast.Expr
		if k == ConstantKey {
			term = ast.NewConstant(c)
		} else {
			term = ast.NewOperator(ast.Mul, ast.NewConstant(c), ast.NewVariable(k))
		}
		if sum == nil {
			sum = term
		} else {
			sum = ast.NewOperator(ast.Add, sum, term)
		}
	}
	if sum == nil {
		return ast.NewConstant(0)
	}
	return sum
}
