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
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/parser"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := parser.ParseString(src)
	require.NoError(t, err, src)
	return e
}

// reducers lists both reduction algorithms so every case runs against each.
var reducers = []struct {
	name string
	fn   func(ast.Expr) (Terms, error)
}{
	{"merge", Reduce},
	{"flatten", Flatten},
}

func TestSimplifyConcrete(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(a+b)-(a+4)-(b-5)", "1"},
		{"(a+b)+(a+4)+(b-5)", "((-1 + (2 * a)) + (2 * b))"},
		{"a-a", "0"},
		{"0", "0"},
		{"5", "5"},
		{"x", "(1 * x)"},
		{"b+a", "((1 * a) + (1 * b))"},
		{"1-x", "(1 + (-1 * x))"},
		{"x-(y-(x-3))", "((-3 + (2 * x)) + (-1 * y))"},
		{"a1+a10+a2", "(((1 * a1) + (1 * a10)) + (1 * a2))"},
		{"B+a", "((1 * B) + (1 * a))"},
	}
	for _, r := range reducers {
		for _, tt := range tests {
			terms, err := r.fn(mustParse(t, tt.src))
			require.NoError(t, err, "%s %q", r.name, tt.src)
			assert.Equal(t, tt.want, Rebuild(terms).String(), "%s %q", r.name, tt.src)
		}
	}
}

func TestReduceTerms(t *testing.T) {
	terms, err := Reduce(mustParse(t, "(a+b)+(a+4)+(b-5)"))
	require.NoError(t, err)
	want := Terms{ConstantKey: -1, "a": 2, "b": 2}
	if diff := cmp.Diff(want, terms); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"", "a", "b"}, terms.Keys())
	assert.Equal(t, []string{"a", "b"}, terms.Variables())
	assert.Equal(t, int64(-1), terms.Constant())
}

func TestZeroEntriesAreKeptUntilRebuild(t *testing.T) {
	for _, r := range reducers {
		terms, err := r.fn(mustParse(t, "a-a+0"))
		require.NoError(t, err)
		assert.Contains(t, terms, "a", r.name)
		assert.Empty(t, terms.Compact(), r.name)
		assert.True(t, terms.Equal(Terms{}), r.name)
		assert.Equal(t, "0", Rebuild(terms).String(), r.name)
	}
}

func TestReduceLeavesInputUntouched(t *testing.T) {
	left := sums{"a": signed(1)}
	right := sums{"a": signed(2), "b": signed(3)}
	out, err := merge(left, right, ast.Sub).terms()
	require.NoError(t, err)
	assert.Equal(t, Terms{"a": -1, "b": -3}, out)

	l, err := left.terms()
	require.NoError(t, err)
	assert.Equal(t, Terms{"a": 1}, l)
	r, err := right.terms()
	require.NoError(t, err)
	assert.Equal(t, Terms{"a": 2, "b": 3}, r)
}

func TestUnsupportedOperators(t *testing.T) {
	for _, src := range []string{
		"a*b",
		"2*3",
		"a*2",
		"(a+1)*2",
		"(1+a)*2",
		"2*a*3",
		"2*(a+1)",
		"a/2",
		"6/3",
		"1+(x/y)",
		"a-b*c",
	} {
		for _, r := range reducers {
			_, err := r.fn(mustParse(t, src))
			assert.ErrorIs(t, err, calcerr.ErrUnsupportedOperator, "%s %q", r.name, src)
		}
	}
}

func TestScaledTermsReduce(t *testing.T) {
	for _, r := range reducers {
		terms, err := r.fn(mustParse(t, "3*x-2*x+4*y"))
		require.NoError(t, err, r.name)
		assert.True(t, terms.Equal(Terms{"x": 1, "y": 4}), "%s: %v", r.name, terms)
	}
}

func TestCoefficientOverflow(t *testing.T) {
	for _, r := range reducers {
		_, err := r.fn(mustParse(t, "9223372036854775807+1"))
		assert.ErrorIs(t, err, calcerr.ErrOverflow, r.name)

		_, err = r.fn(mustParse(t, "0-(0-9223372036854775807-1)"))
		assert.ErrorIs(t, err, calcerr.ErrOverflow, r.name)
	}
	big := ast.NewOperator(ast.Sub, ast.NewVariable("a"),
		ast.NewOperator(ast.Mul, ast.NewConstant(-9223372036854775808), ast.NewVariable("a")))
	for _, r := range reducers {
		_, err := r.fn(big)
		assert.ErrorIs(t, err, calcerr.ErrOverflow, r.name)
	}
}

func TestReducersAgreeNearInt64Limits(t *testing.T) {
	tests := []struct {
		src  string
		want Terms
	}{
		{"1+(9223372036854775807-1)", Terms{ConstantKey: 9223372036854775807}},
		{"a+1+(9223372036854775807-1)", Terms{ConstantKey: 9223372036854775807, "a": 1}},
		{"9223372036854775807+1-1", Terms{ConstantKey: 9223372036854775807}},
		{"0-9223372036854775807-1", Terms{ConstantKey: -9223372036854775808}},
		{"(0-1)-9223372036854775807", Terms{ConstantKey: -9223372036854775808}},
		{"9223372036854775807+9223372036854775807-9223372036854775807", Terms{ConstantKey: 9223372036854775807}},
		{"9223372036854775807*a+a-a", Terms{"a": 9223372036854775807}},
	}
	for _, tt := range tests {
		for _, r := range reducers {
			terms, err := r.fn(mustParse(t, tt.src))
			require.NoError(t, err, "%s %q", r.name, tt.src)
			assert.True(t, terms.Equal(tt.want), "%s %q: %v", r.name, tt.src, terms)
		}
	}

	for _, src := range []string{
		"9223372036854775807+1",
		"0-9223372036854775807-2",
		"a+9223372036854775807*a",
	} {
		merged, mergeErr := Reduce(mustParse(t, src))
		flat, flatErr := Flatten(mustParse(t, src))
		assert.ErrorIs(t, mergeErr, calcerr.ErrOverflow, src)
		assert.ErrorIs(t, flatErr, calcerr.ErrOverflow, src)
		assert.Equal(t, mergeErr.Error(), flatErr.Error(), src)
		assert.Nil(t, merged)
		assert.Nil(t, flat)
	}
}

func TestIdempotence(t *testing.T) {
	for _, src := range []string{"x", "7", "a+b", "(a+b)+(a+4)+(b-5)", "1-x"} {
		first, err := Reduce(mustParse(t, src))
		require.NoError(t, err)
		once := Rebuild(first)

		second, err := Reduce(once)
		require.NoError(t, err)
		twice := Rebuild(second)

		assert.True(t, first.Equal(second), src)
		assert.Equal(t, once.String(), twice.String(), src)
	}
}

// linearOp is a gofuzz-filled instruction used to grow a random tree of +
// and - over a handful of variables and constants. One constant in eight is
// drawn from the full int64 range.
type linearOp struct {
	Kind  uint8
	Leaf  uint8
	Wide  uint8
	Small int16
	Value int64
}

var names = []string{"a", "b", "c", "x1", "y"}

func buildLinear(ops []linearOp) ast.Expr {
	var stack []ast.Expr
	for _, op := range ops {
		if op.Kind%3 == 0 || len(stack) < 2 {
			if i := int(op.Leaf) % (len(names) + 1); i < len(names) {
				stack = append(stack, ast.NewVariable(names[i]))
			} else {
				v := int64(op.Small)
				if op.Wide%8 == 0 {
					v = op.Value
				}
				stack = append(stack, ast.NewConstant(v))
			}
			continue
		}
		l, r := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]
		o := ast.Add
		if op.Kind%2 == 1 {
			o = ast.Sub
		}
		stack = append(stack, ast.NewOperator(o, l, r))
	}
	if len(stack) == 0 {
		return ast.NewConstant(0)
	}
	e := stack[0]
	for _, s := range stack[1:] {
		e = ast.NewOperator(ast.Sub, e, s)
	}
	return e
}

// evalAt substitutes small distinct values for the variables.
func evalAt(e ast.Expr) int64 {
	switch n := e.(type) {
	case *ast.Constant:
		return n.Value
	case *ast.Variable:
		for i, name := range names {
			if name == n.Name {
				return int64(i*7 + 3)
			}
		}
	case *ast.Operator:
		l, r := evalAt(n.Left), evalAt(n.Right)
		switch n.Op {
		case ast.Add:
			return l + r
		case ast.Sub:
			return l - r
		case ast.Mul:
			return l * r
		}
	}
	panic(fmt.Sprintf("unexpected node %v", e))
}

func TestReducersAgreeOnRandomTrees(t *testing.T) {
	for seed := int64(0); seed < 300; seed++ {
		var ops []linearOp
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(1, 60).Fuzz(&ops)
		e := buildLinear(ops)

		merged, mergeErr := Reduce(e)
		flat, flatErr := Flatten(e)
		if mergeErr != nil || flatErr != nil {
			require.Error(t, mergeErr, "seed %d: only flatten failed on %s", seed, e)
			require.Error(t, flatErr, "seed %d: only merge failed on %s", seed, e)
			assert.ErrorIs(t, mergeErr, calcerr.ErrOverflow)
			assert.Equal(t, mergeErr.Error(), flatErr.Error(), "seed %d", seed)
			continue
		}

		if diff := cmp.Diff(merged, flat); diff != "" {
			t.Fatalf("seed %d: reducers disagree on %s (-merge +flatten):\n%s", seed, e, diff)
		}
		rebuilt := Rebuild(merged)
		assert.Equal(t, rebuilt.String(), Rebuild(flat).String())

		// Rebuilding then reducing again is lossless.
		again, err := Reduce(rebuilt)
		require.NoError(t, err, rebuilt.String())
		assert.True(t, merged.Equal(again), "seed %d: round trip of %s", seed, rebuilt)
		againFlat, err := Flatten(rebuilt)
		require.NoError(t, err)
		assert.True(t, merged.Equal(againFlat), "seed %d", seed)

		// The simplified form denotes the same linear function.
		assert.Equal(t, evalAt(e), evalAt(rebuilt), "seed %d: %s vs %s", seed, e, rebuilt)
	}
}
