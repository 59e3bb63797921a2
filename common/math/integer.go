// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package math provides overflow-checked int64 arithmetic.
package math

import "math"

// Integer limit values.
const (
	MaxInt64 = math.MaxInt64
	MinInt64 = math.MinInt64
)

// SafeAdd returns x+y and checks for overflow.
func SafeAdd(x, y int64) (int64, bool) {
	r := x + y
	return r, (x^r)&(y^r) < 0
}

// SafeSub returns x-y and checks for overflow.
func SafeSub(x, y int64) (int64, bool) {
	r := x - y
	return r, (x^y)&(x^r) < 0
}

// SafeMul returns x*y and checks for overflow.
func SafeMul(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, false
	}
	if (x == -1 && y == MinInt64) || (y == -1 && x == MinInt64) {
		return MinInt64, true
	}
	r := x * y
	return r, r/y != x
}

// SafeDiv returns x/y truncated toward zero and checks for overflow. The
// only overflowing case is MinInt64 / -1. y must not be zero.
func SafeDiv(x, y int64) (int64, bool) {
	if x == MinInt64 && y == -1 {
		return MinInt64, true
	}
	return x / y, false
}
