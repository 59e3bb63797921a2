// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package calc

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/eval"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/parser"
	"github.com/probechain/probe-calc/lang/symbolic"
	"github.com/probechain/probe-calc/lang/token"
)

// Engine runs the expression pipeline with a fixed configuration. Parsed
// trees are immutable, so they are cached by source text and shared between
// callers. An Engine is safe for concurrent use.
type Engine struct {
	config Config
	opts   []lexer.Option
	trees  *lru.Cache // source -> ast.Expr
}

// NewEngine creates an engine. A nil config selects Defaults.
func NewEngine(config *Config) (*Engine, error) {
	cfg := Defaults
	if config != nil {
		cfg = *config
	}
	if err := cfg.Mode.Validate(); err != nil {
		return nil, err
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("invalid cache size %d", cfg.CacheSize)
	}
	e := &Engine{config: cfg}
	if cfg.AllowWhitespace {
		e.opts = append(e.opts, lexer.WithWhitespace())
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		e.trees = cache
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Tokenize splits expression into tokens, including the final EOF.
func (e *Engine) Tokenize(expression string) ([]token.Token, error) {
	return lexer.Tokenize(expression, e.opts...)
}

// Parse returns the expression tree for expression, from the cache when
// possible. Failed parses are not cached.
func (e *Engine) Parse(expression string) (ast.Expr, error) {
	if e.trees != nil {
		if tree, ok := e.trees.Get(expression); ok {
			return tree.(ast.Expr), nil
		}
	}
	tree, err := parser.ParseString(expression, e.opts...)
	if err != nil {
		return nil, err
	}
	if e.trees != nil {
		e.trees.Add(expression, tree)
	}
	return tree, nil
}

// Evaluate computes the integer value of expression.
func (e *Engine) Evaluate(expression string) (int64, error) {
	tree, err := e.Parse(expression)
	if err != nil {
		return 0, err
	}
	return eval.Tree(tree)
}

// EvaluateDirect computes the value of expression without building a tree.
func (e *Engine) EvaluateDirect(expression string) (int64, error) {
	toks, err := e.Tokenize(expression)
	if err != nil {
		return 0, err
	}
	return eval.Direct(toks)
}

// EvaluateAddSub computes a flat sum of integers joined by + and -.
func (e *Engine) EvaluateAddSub(expression string) (int64, error) {
	toks, err := e.Tokenize(expression)
	if err != nil {
		return 0, err
	}
	return eval.AddSub(toks)
}

// Reduce returns the coefficient mapping of expression using mode; an empty
// mode selects the configured one.
func (e *Engine) Reduce(expression string, mode Mode) (symbolic.Terms, error) {
	if mode == "" {
		mode = e.config.Mode
	}
	reduce, err := mode.reducer()
	if err != nil {
		return nil, err
	}
	tree, err := e.Parse(expression)
	if err != nil {
		return nil, err
	}
	return reduce(tree)
}

// Simplify reduces expression with the configured mode and rebuilds it.
func (e *Engine) Simplify(expression string) (ast.Expr, error) {
	return e.SimplifyWith(expression, "")
}

// SimplifyWith reduces expression with mode and rebuilds it.
func (e *Engine) SimplifyWith(expression string, mode Mode) (ast.Expr, error) {
	terms, err := e.Reduce(expression, mode)
	if err != nil {
		return nil, err
	}
	return symbolic.Rebuild(terms), nil
}

// CacheLen returns the number of cached trees.
func (e *Engine) CacheLen() int {
	if e.trees == nil {
		return 0
	}
	return e.trees.Len()
}
