// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(format Format) (Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	l := New("module", "test")
	l.SetHandler(StreamHandler(buf, format))
	return l, buf
}

func TestLogfmtOutput(t *testing.T) {
	l, buf := testLogger(LogfmtFormat())
	l.Info("Evaluated expression", "expr", "(12-34)*56", "result", int64(-1232))

	out := buf.String()
	assert.Contains(t, out, "lvl=info")
	assert.Contains(t, out, `msg="Evaluated expression"`)
	assert.Contains(t, out, "module=test")
	assert.Contains(t, out, "expr=(12-34)*56")
	assert.Contains(t, out, "result=-1232")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestLogfmtQuoting(t *testing.T) {
	l, buf := testLogger(LogfmtFormat())
	l.Warn("x", "err", errors.New("invalid expression: unmatched '('"), "empty", "")

	out := buf.String()
	assert.Contains(t, out, `err="invalid expression: unmatched '('"`)
	assert.Contains(t, out, `empty=""`)
}

func TestOddContextIsNormalized(t *testing.T) {
	l, buf := testLogger(LogfmtFormat())
	l.Info("odd", "dangling")
	assert.Contains(t, buf.String(), "dangling=nil")
	assert.Contains(t, buf.String(), errorKey)
}

func TestLvlFilter(t *testing.T) {
	buf := new(bytes.Buffer)
	l := New()
	l.SetHandler(LvlFilterHandler(LvlWarn, StreamHandler(buf, LogfmtFormat())))

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestChildInheritsContextAndHandler(t *testing.T) {
	parent, buf := testLogger(LogfmtFormat())
	child := parent.New("reqid", "abc")
	child.Info("request")
	assert.Contains(t, buf.String(), "module=test reqid=abc")
}

func TestJSONFormat(t *testing.T) {
	l, buf := testLogger(JSONFormat())
	l.Error("Evaluation failed", "err", errors.New("division by zero"), "kind", "division-by-zero")

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "eror", m[lvlKey])
	assert.Equal(t, "Evaluation failed", m[msgKey])
	assert.Equal(t, "division by zero", m["err"])
	assert.Equal(t, "division-by-zero", m["kind"])
	assert.Equal(t, "test", m["module"])
}

func TestTerminalFormat(t *testing.T) {
	l, buf := testLogger(TerminalFormat(false))
	l.Info("Simplified", "result", "1")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO ["), out)
	assert.Contains(t, out, "] Simplified ")
	assert.Contains(t, out, "result=1")
	assert.NotContains(t, out, "\x1b[")

	buf.Reset()
	l.SetHandler(StreamHandler(buf, TerminalFormat(true)))
	l.Error("Failed")
	assert.True(t, strings.HasPrefix(buf.String(), "\x1b[31mERROR\x1b[0m["), buf.String())
}

func TestPrintOrigins(t *testing.T) {
	PrintOrigins(true)
	defer PrintOrigins(false)

	l, buf := testLogger(TerminalFormat(false))
	l.Info("here")
	assert.Contains(t, buf.String(), "log_test.go:")
}

func TestLvlFromString(t *testing.T) {
	for in, want := range map[string]Lvl{
		"trace": LvlTrace, "5": LvlTrace,
		"debug": LvlDebug, "info": LvlInfo, "3": LvlInfo,
		"warn": LvlWarn, "error": LvlError, "crit": LvlCrit, "0": LvlCrit,
	} {
		lvl, err := LvlFromString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, lvl, in)
	}
	_, err := LvlFromString("loud")
	assert.Error(t, err)
}

func TestRootDiscardsByDefault(t *testing.T) {
	assert.NotPanics(t, func() { Info("nobody listens", "k", 1) })
}
