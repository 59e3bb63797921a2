// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/calcerr"
)

// runProbecalc runs the app in-process and returns what it printed.
func runProbecalc(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app.Writer = &out
	defer func() { app.Writer = os.Stdout }()

	err := app.Run(append([]string{clientIdentifier, "--verbosity", "0"}, args...))
	return out.String(), err
}

func TestBareExpression(t *testing.T) {
	out, err := runProbecalc(t, "(12-34)*56")
	require.NoError(t, err)
	assert.Equal(t, "-1232\n", out)
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "12+34-56", "(0-7)/2", "7/(0-2)"}, "-10\n-3\n-3\n"},
		{[]string{"eval", "--direct", "2*(3+4)"}, "14\n"},
		{[]string{"eval", "--addsub", "1-2-3"}, "-4\n"},
		{[]string{"eval", "--whitespace", "1 + 2 * 3"}, "7\n"},
	}
	for _, tt := range tests {
		out, err := runProbecalc(t, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, out, tt.args)
	}
}

func TestEvalErrors(t *testing.T) {
	out, err := runProbecalc(t, "eval", "1+1", "1/0", "2+2")
	require.Error(t, err)
	assert.ErrorIs(t, err, calcerr.ErrDivisionByZero)
	assert.True(t, strings.HasPrefix(err.Error(), "1/0: "), err.Error())
	assert.Equal(t, "2\n", out, "evaluation stops at the first failure")

	_, err = runProbecalc(t, "eval", "1 + 2")
	assert.ErrorIs(t, err, calcerr.ErrLexical)

	_, err = runProbecalc(t, "eval", "x")
	assert.ErrorIs(t, err, calcerr.ErrUnresolvedVariable)
}

func TestSimplifyCommand(t *testing.T) {
	for _, flags := range [][]string{nil, {"--flatten"}, {"--mode", "flatten"}} {
		args := append(append([]string{"simplify"}, flags...), "(a+b)-(a+4)-(b-5)", "(a+b)+(a+4)+(b-5)")
		out, err := runProbecalc(t, args...)
		require.NoError(t, err, flags)
		assert.Equal(t, "1\n((-1 + (2 * a)) + (2 * b))\n", out, flags)
	}

	_, err := runProbecalc(t, "simplify", "a*b")
	assert.ErrorIs(t, err, calcerr.ErrUnsupportedOperator)
}

func TestTermsCommand(t *testing.T) {
	out, err := runProbecalc(t, "terms", "x-(y-(x-3))")
	require.NoError(t, err)
	assert.Regexp(t, `\| \(constant\) +\| +-3 \|`, out)
	assert.Regexp(t, `\| x +\| +2 \|`, out)
	assert.Regexp(t, `\| y +\| +-1 \|`, out)
}

func TestTokensCommand(t *testing.T) {
	out, err := runProbecalc(t, "tokens", "(a1+2)")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "1:1\t(\t\"(\"", lines[0])
	assert.Equal(t, "1:2\tIDENT\t\"a1\"", lines[1])
	assert.Equal(t, "1:4\tOPERATOR\t\"+\"", lines[2])
	assert.Equal(t, "1:5\tINT\t\"2\"", lines[3])
	assert.Contains(t, lines[5], "EOF")
}

func TestAstCommand(t *testing.T) {
	out, err := runProbecalc(t, "ast", "1+2*3-4")
	require.NoError(t, err)
	assert.Equal(t, "((1 + (2 * 3)) - 4)\n", out)

	out, err = runProbecalc(t, "ast", "--dump", "a-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "(a - 1)\n"))
	assert.Contains(t, out, "ast.Operator")
}

func TestDumpConfigRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "probecalc.toml")
	_, err := runProbecalc(t, "dumpconfig", "--whitespace", "--mode", "flatten", "--http.corsdomain", "a.example, b.example", file)
	require.NoError(t, err)

	want := defaultConfig()
	want.Calc.AllowWhitespace = true
	want.Calc.Mode = calc.ModeFlatten
	want.API.CorsOrigins = []string{"a.example", "b.example"}
	want.Log.Verbosity = 0

	got := defaultConfig()
	require.NoError(t, loadConfig(file, &got))
	assert.Equal(t, want, got)

	out, err := runProbecalc(t, "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[Calc]")
	assert.Contains(t, out, `Mode = "merge"`)
	assert.Contains(t, out, "[API]")
}

func TestConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "probecalc.toml")
	require.NoError(t, os.WriteFile(file, []byte("[Calc]\nAllowWhitespace = true\n"), 0644))

	out, err := runProbecalc(t, "--config", file, "eval", "( 1 + 2 ) * 3")
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(file, []byte("[Calc]\nPrecision = 3\n"), 0644))

	cfg := defaultConfig()
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Precision")
}
