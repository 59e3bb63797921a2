// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package calc evaluates integer expressions and simplifies linear ones.
//
// The package-level functions run the whole pipeline from scratch on every
// call and share no state, so they are safe for concurrent use. Engine adds
// configuration and a cache of parsed trees on top of the same pipeline.
package calc

import (
	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/eval"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/parser"
	"github.com/probechain/probe-calc/lang/symbolic"
)

// Evaluate parses expression and computes its integer value.
func Evaluate(expression string) (int64, error) {
	e, err := parser.ParseString(expression)
	if err != nil {
		return 0, err
	}
	return eval.Tree(e)
}

// EvaluateDirect computes the value of expression without building a tree.
func EvaluateDirect(expression string) (int64, error) {
	toks, err := lexer.Tokenize(expression)
	if err != nil {
		return 0, err
	}
	return eval.Direct(toks)
}

// EvaluateAddSub computes a flat sum of integers joined by + and -.
func EvaluateAddSub(expression string) (int64, error) {
	toks, err := lexer.Tokenize(expression)
	if err != nil {
		return 0, err
	}
	return eval.AddSub(toks)
}

// Simplify reduces expression by merging child coefficient mappings and
// rebuilds the result.
func Simplify(expression string) (ast.Expr, error) {
	return simplify(expression, symbolic.Reduce)
}

// SimplifyByFlattening reduces expression with a single sign-threaded walk
// and rebuilds the result.
func SimplifyByFlattening(expression string) (ast.Expr, error) {
	return simplify(expression, symbolic.Flatten)
}

// Terms returns the coefficient mapping of expression.
func Terms(expression string) (symbolic.Terms, error) {
	e, err := parser.ParseString(expression)
	if err != nil {
		return nil, err
	}
	return symbolic.Reduce(e)
}

func simplify(expression string, reduce func(ast.Expr) (symbolic.Terms, error)) (ast.Expr, error) {
	e, err := parser.ParseString(expression)
	if err != nil {
		return nil, err
	}
	terms, err := reduce(e)
	if err != nil {
		return nil, err
	}
	return symbolic.Rebuild(terms), nil
}
