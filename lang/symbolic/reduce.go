// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package symbolic

import (
	"fmt"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/ast"
)

// scaledTerm matches "c * x" and returns the variable name and coefficient.
func scaledTerm(o *ast.Operator) (string, int64, bool) {
	if o.Op != ast.Mul {
		return "", 0, false
	}
	c, ok := o.Left.(*ast.Constant)
	if !ok {
		return "", 0, false
	}
	v, ok := o.Right.(*ast.Variable)
	if !ok {
		return "", 0, false
	}
	return v.Name, c.Value, true
}

func unsupported(o *ast.Operator) error {
	return fmt.Errorf("%w: '%s' in %s", calcerr.ErrUnsupportedOperator, o.Op, o)
}

// Reduce collects e into Terms by reducing both children of every operator
// and merging the right mapping into a copy of the left one.
func Reduce(e ast.Expr) (Terms, error) {
	s, err := reduce(e)
	if err != nil {
		return nil, err
	}
	return s.terms()
}

func reduce(e ast.Expr) (sums, error) {
	switch n := e.(type) {
	case *ast.Constant:
		return sums{ConstantKey: signed(n.Value)}, nil
	case *ast.Variable:
		return sums{n.Name: signed(1)}, nil
	case *ast.Operator:
		if name, coeff, ok := scaledTerm(n); ok {
			return sums{name: signed(coeff)}, nil
		}
		if n.Op != ast.Add && n.Op != ast.Sub {
			return nil, unsupported(n)
		}
		left, err := reduce(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := reduce(n.Right)
		if err != nil {
			return nil, err
		}
		return merge(left, right, n.Op), nil
	}
	return nil, fmt.Errorf("%w: unknown node %T", calcerr.ErrInvalidExpression, e)
}

// merge returns left + right or left - right without modifying either.
func merge(left, right sums, op ast.Op) sums {
	sign := int64(1)
	if op == ast.Sub {
		sign = -1
	}
	out := left.clone()
	for k, v := range right {
		out.add(k, sign, v)
	}
	return out
}

// Flatten collects e into Terms by walking the tree once with a single shared
// mapping. The sign flips for the right operand of every subtraction.
func Flatten(e ast.Expr) (Terms, error) {
	acc := make(sums)
	if err := flatten(e, 1, acc); err != nil {
		return nil, err
	}
	return acc.terms()
}

func flatten(e ast.Expr, sign int64, acc sums) error {
	switch n := e.(type) {
	case *ast.Constant:
		acc.add(ConstantKey, sign, signed(n.Value))
		return nil
	case *ast.Variable:
		acc.add(n.Name, sign, signed(1))
		return nil
	case *ast.Operator:
		if name, coeff, ok := scaledTerm(n); ok {
			acc.add(name, sign, signed(coeff))
			return nil
		}
		if n.Op != ast.Add && n.Op != ast.Sub {
			return unsupported(n)
		}
		if err := flatten(n.Left, sign, acc); err != nil {
			return err
		}
		if n.Op == ast.Sub {
			sign = -sign
		}
		return flatten(n.Right, sign, acc)
	}
	return fmt.Errorf("%w: unknown node %T", calcerr.ErrInvalidExpression, e)
}
