// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the expression tree produced by the parser and the
// rebuilder.
//
// Design overview:
//
//   - Expr is a closed sum type: *Constant, *Variable and *Operator are its
//     only implementations, enforced by the unexported exprNode marker.
//   - Operator nodes always own exactly two non-nil children and no node is
//     shared between parents. Trees are never mutated after construction.
//   - String renders a fully parenthesised form, "(<left> <op> <right>)".
package ast

import (
	"fmt"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
)

// Expr is the interface implemented by every expression node.
type Expr interface {
	// String returns the fully parenthesised rendering of the node.
	String() string

	exprNode()
}

// Op is a binary arithmetic operator.
type Op byte

const (
	Add Op = '+'
	Sub Op = '-'
	Mul Op = '*'
	Div Op = '/'
)

// ParseOp maps operator text to an Op. The second result is false when the
// text is not one of + - * /.
func ParseOp(s string) (Op, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch op := Op(s[0]); op {
	case Add, Sub, Mul, Div:
		return op, true
	}
	return 0, false
}

func (op Op) String() string { return string(rune(op)) }

// Precedence returns the binding strength of op: 2 for * and /, 1 for + and -.
func (op Op) Precedence() int {
	switch op {
	case Mul, Div:
		return 2
	case Add, Sub:
		return 1
	}
	return 0
}

// Constant is an integer leaf.
type Constant struct {
	Value int64
}

// Variable is a named leaf.
type Variable struct {
	Name string
}

// Operator is an interior node applying Op to Left and Right.
type Operator struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (*Constant) exprNode() {}
func (*Variable) exprNode() {}
func (*Operator) exprNode() {}

func (c *Constant) String() string { return strconv.FormatInt(c.Value, 10) }
func (v *Variable) String() string { return v.Name }

func (o *Operator) String() string {
	var b strings.Builder
	o.write(&b)
	return b.String()
}

// write renders the subtree into b without building intermediate strings
// for every nested operator.
func (o *Operator) write(b *strings.Builder) {
	b.WriteByte('(')
	writeExpr(b, o.Left)
	b.WriteByte(' ')
	b.WriteByte(byte(o.Op))
	b.WriteByte(' ')
	writeExpr(b, o.Right)
	b.WriteByte(')')
}

func writeExpr(b *strings.Builder, e Expr) {
	if o, ok := e.(*Operator); ok {
		o.write(b)
		return
	}
	b.WriteString(e.String())
}

// NewConstant returns a constant leaf.
func NewConstant(v int64) *Constant { return &Constant{Value: v} }

// NewVariable returns a variable leaf.
func NewVariable(name string) *Variable { return &Variable{Name: name} }

// NewOperator returns an operator node. Both children must be non-nil.
func NewOperator(op Op, left, right Expr) *Operator {
	if left == nil || right == nil {
		panic(fmt.Sprintf("ast: operator %s built with a nil child", op))
	}
	return &Operator{Op: op, Left: left, Right: right}
}

// Equal reports whether two trees have the same shape, operators and leaves.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Constant:
		y, ok := b.(*Constant)
		return ok && x.Value == y.Value
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Operator:
		y, ok := b.(*Operator)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	}
	return false
}

// Variables returns the set of variable names referenced by e.
func Variables(e Expr) mapset.Set {
	set := mapset.NewThreadUnsafeSet()
	collectVariables(e, set)
	return set
}

func collectVariables(e Expr, set mapset.Set) {
	switch n := e.(type) {
	case *Variable:
		set.Add(n.Name)
	case *Operator:
		collectVariables(n.Left, set)
		collectVariables(n.Right, set)
	}
}
