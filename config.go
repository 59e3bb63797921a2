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

	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/symbolic"
)

// Mode selects the reduction algorithm used by Engine.Simplify.
type Mode string

const (
	// ModeMerge merges child coefficient mappings at every operator.
	ModeMerge Mode = "merge"
	// ModeFlatten accumulates into a single mapping with a threaded sign.
	ModeFlatten Mode = "flatten"
)

// reducer returns the reduction function for m.
func (m Mode) reducer() (func(ast.Expr) (symbolic.Terms, error), error) {
	switch m {
	case ModeMerge, "":
		return symbolic.Reduce, nil
	case ModeFlatten:
		return symbolic.Flatten, nil
	}
	return nil, fmt.Errorf("unknown simplification mode %q", string(m))
}

// Validate reports whether m names a known mode.
func (m Mode) Validate() error {
	_, err := m.reducer()
	return err
}

// Config contains the settings of an Engine.
type Config struct {
	// AllowWhitespace makes the tokenizer skip spaces and tabs. The language
	// itself has no whitespace, so it is off by default.
	AllowWhitespace bool

	// Mode is the reduction algorithm used by Simplify.
	Mode Mode

	// CacheSize is the number of parsed expressions kept in memory. Zero
	// disables the cache.
	CacheSize int
}

// Defaults contains the default engine settings.
var Defaults = Config{
	AllowWhitespace: false,
	Mode:            ModeMerge,
	CacheSize:       256,
}
