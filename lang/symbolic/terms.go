// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package symbolic reduces linear expressions to coefficient mappings and
// rebuilds simplified expressions from them.
//
// A reduction collects every leaf of a tree made of + and - into Terms, a
// mapping from variable name to its integer coefficient. The constant part
// lives under ConstantKey. Two reducers are provided; they return the same
// mapping, or the same error, for every tree:
//
//   - Reduce merges the mappings of the two children at every operator.
//   - Flatten threads one mapping through the walk together with a sign.
//
// Coefficients are summed in 256-bit two's complement and only the final
// mapping must fit in int64, so the order of summation never matters.
//
// Multiplication and division are not reducible, with one exception: a
// coefficient applied to a variable, "c * x", which is exactly the shape
// Rebuild emits. That keeps Rebuild followed by a reduction lossless.
package symbolic

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/common/math"
)

// ConstantKey is the reserved key holding the constant term. The empty
// string can never be an identifier and sorts before every variable name.
const ConstantKey = ""

// Terms maps a variable name, or ConstantKey, to its coefficient.
type Terms map[string]int64

// Keys returns the keys of t in ascending order.
func (t Terms) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Constant returns the constant term.
func (t Terms) Constant() int64 { return t[ConstantKey] }

// Variables returns the names of variables with a non-zero coefficient, in
// ascending order.
func (t Terms) Variables() []string {
	var names []string
	for _, k := range t.Keys() {
		if k != ConstantKey && t[k] != 0 {
			names = append(names, k)
		}
	}
	return names
}

// Clone returns a copy of t.
func (t Terms) Clone() Terms {
	c := make(Terms, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Compact returns a copy of t without zero coefficients.
func (t Terms) Compact() Terms {
	c := make(Terms, len(t))
	for k, v := range t {
		if v != 0 {
			c[k] = v
		}
	}
	return c
}

// Equal reports whether t and o hold the same non-zero coefficients.
func (t Terms) Equal(o Terms) bool {
	for k, v := range t {
		if o[k] != v {
			return false
		}
	}
	for k, v := range o {
		if t[k] != v {
			return false
		}
	}
	return true
}

// sums holds coefficients while a tree is being reduced. Values are signed
// 256-bit integers, far wider than any sum of int64 leaves an input can hold.
type sums map[string]*uint256.Int

// signed converts v to two's complement form.
func signed(v int64) *uint256.Int {
	if v >= 0 {
		return new(uint256.Int).SetUint64(uint64(v))
	}
	z := new(uint256.Int).SetUint64(uint64(-v)) // -MinInt64 wraps to 1<<63, the right magnitude
	return z.Neg(z)
}

// add accumulates sign*value into the coefficient of key.
func (s sums) add(key string, sign int64, value *uint256.Int) {
	v, ok := s[key]
	if !ok {
		v = new(uint256.Int)
		s[key] = v
	}
	if sign < 0 {
		v.Sub(v, value)
	} else {
		v.Add(v, value)
	}
}

func (s sums) clone() sums {
	c := make(sums, len(s))
	for k, v := range s {
		c[k] = new(uint256.Int).Set(v)
	}
	return c
}

// terms narrows s to int64, failing on the first key in ascending order
// whose coefficient does not fit.
func (s sums) terms() (Terms, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := make(Terms, len(s))
	for _, k := range keys {
		v, ok := toInt64(s[k])
		if !ok {
			return nil, fmt.Errorf("%w: coefficient of %s", calcerr.ErrOverflow, describeKey(k))
		}
		t[k] = v
	}
	return t, nil
}

func toInt64(v *uint256.Int) (int64, bool) {
	if v.Sign() >= 0 {
		if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
			return 0, false
		}
		return int64(v.Uint64()), true
	}
	abs := new(uint256.Int).Neg(v)
	if !abs.IsUint64() || abs.Uint64() > 1<<63 {
		return 0, false
	}
	return int64(-abs.Uint64()), true
}

func describeKey(key string) string {
	if key == ConstantKey {
		return "the constant term"
	}
	return key
}
