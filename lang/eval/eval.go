// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package eval computes integer results from expressions.
//
// Three evaluators are provided:
//
//   - Tree walks a parsed expression tree.
//   - Direct runs the shunting-yard loop straight to an integer, without
//     building a tree.
//   - AddSub is a flat left-to-right evaluator that only understands + and -.
//
// All arithmetic is int64 and overflow-checked. Division truncates toward
// zero. Any error aborts the whole evaluation.
package eval

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/common/math"
	"github.com/probechain/probe-calc/lang/ast"
)

// Apply computes left op right.
func Apply(op ast.Op, left, right int64) (int64, error) {
	var (
		v        int64
		overflow bool
	)
	switch op {
	case ast.Add:
		v, overflow = math.SafeAdd(left, right)
	case ast.Sub:
		v, overflow = math.SafeSub(left, right)
	case ast.Mul:
		v, overflow = math.SafeMul(left, right)
	case ast.Div:
		if right == 0 {
			return 0, fmt.Errorf("%w: %d / 0", calcerr.ErrDivisionByZero, left)
		}
		v, overflow = math.SafeDiv(left, right)
	default:
		return 0, fmt.Errorf("%w: '%s' is not a valid operator to evaluate", calcerr.ErrUnrecognizedOperator, op)
	}
	if overflow {
		return 0, fmt.Errorf("%w: %d %s %d", calcerr.ErrOverflow, left, op, right)
	}
	return v, nil
}

// Tree evaluates an expression tree. When the tree references variables the
// error names all of them, in ascending order.
func Tree(e ast.Expr) (int64, error) {
	v, err := tree(e)
	if errors.Is(err, calcerr.ErrUnresolvedVariable) {
		return 0, fmt.Errorf("%w: %s", calcerr.ErrUnresolvedVariable, strings.Join(variableNames(e), ", "))
	}
	return v, err
}

func variableNames(e ast.Expr) []string {
	set := ast.Variables(e)
	names := make([]string, 0, set.Cardinality())
	for name := range set.Iter() {
		names = append(names, name.(string))
	}
	sort.Strings(names)
	return names
}

func tree(e ast.Expr) (int64, error) {
	switch n := e.(type) {
	case *ast.Constant:
		return n.Value, nil
	case *ast.Variable:
		return 0, fmt.Errorf("%w: %s", calcerr.ErrUnresolvedVariable, n.Name)
	case *ast.Operator:
		left, err := tree(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := tree(n.Right)
		if err != nil {
			return 0, err
		}
		return Apply(n.Op, left, right)
	}
	return 0, fmt.Errorf("%w: unknown node %T", calcerr.ErrInvalidExpression, e)
}
