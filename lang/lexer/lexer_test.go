// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package lexer_test

import (
	"errors"
	"testing"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/token"
)

// tokenCase is a single expected token in a table-driven test.
type tokenCase struct {
	typ     token.Type
	literal string
}

// runTokenize lexes input and checks that it produces exactly the expected
// sequence (plus a final EOF).
func runTokenize(t *testing.T, name, input string, want []tokenCase, opts ...lexer.Option) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		toks, err := lexer.Tokenize(input, opts...)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", input, err)
		}
		if len(toks) == 0 {
			t.Fatal("Tokenize returned empty slice")
		}
		last := toks[len(toks)-1]
		if last.Type != token.EOF {
			t.Errorf("last token is %s, want EOF", last.Type)
		}
		body := toks[:len(toks)-1]

		if len(body) != len(want) {
			t.Errorf("got %d tokens (excl. EOF), want %d", len(body), len(want))
			for i, tok := range body {
				t.Logf("  [%d] %s %q", i, tok.Type, tok.Literal)
			}
			return
		}
		for i, w := range want {
			got := body[i]
			if got.Type != w.typ {
				t.Errorf("token[%d]: type = %s, want %s (literal %q)", i, got.Type, w.typ, got.Literal)
			}
			if got.Literal != w.literal {
				t.Errorf("token[%d]: literal = %q, want %q", i, got.Literal, w.literal)
			}
		}
	})
}

func TestSingleCharTokens(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantTyp token.Type
	}{
		{"plus", "+", token.OPERATOR},
		{"minus", "-", token.OPERATOR},
		{"star", "*", token.OPERATOR},
		{"slash", "/", token.OPERATOR},
		{"lparen", "(", token.LPAREN},
		{"rparen", ")", token.RPAREN},
	}
	for _, c := range cases {
		runTokenize(t, c.name, c.input, []tokenCase{{c.wantTyp, c.input}})
	}
}

func TestOperatorSet(t *testing.T) {
	for _, op := range token.Operators {
		runTokenize(t, "operator "+string(op), string(op), []tokenCase{{token.OPERATOR, string(op)}})
	}
	for _, ch := range []string{"%", "^", "=", "<"} {
		if _, err := lexer.Tokenize(ch); !errors.Is(err, calcerr.ErrLexical) {
			t.Errorf("Tokenize(%q): err = %v, want ErrLexical", ch, err)
		}
	}
	for _, typ := range []token.Type{token.INT, token.IDENT} {
		if !typ.IsOperand() || typ.IsOperator() {
			t.Errorf("%s should be an operand only", typ)
		}
	}
	for _, typ := range []token.Type{token.OPERATOR, token.LPAREN, token.RPAREN, token.EOF} {
		if typ.IsOperand() {
			t.Errorf("%s should not be an operand", typ)
		}
	}
}

func TestOperands(t *testing.T) {
	runTokenize(t, "zero", "0", []tokenCase{{token.INT, "0"}})
	runTokenize(t, "multi-digit", "1234", []tokenCase{{token.INT, "1234"}})
	runTokenize(t, "leading zeros", "007", []tokenCase{{token.INT, "007"}})
	runTokenize(t, "ident", "a", []tokenCase{{token.IDENT, "a"}})
	runTokenize(t, "ident with digits", "rate2x", []tokenCase{{token.IDENT, "rate2x"}})
	runTokenize(t, "mixed case", "Total", []tokenCase{{token.IDENT, "Total"}})
	// A digit run ends where a letter starts; the letter run then begins a
	// fresh identifier.
	runTokenize(t, "number then ident", "2a", []tokenCase{{token.INT, "2"}, {token.IDENT, "a"}})
}

func TestExpressions(t *testing.T) {
	runTokenize(t, "add sub", "12+34-56", []tokenCase{
		{token.INT, "12"}, {token.OPERATOR, "+"}, {token.INT, "34"},
		{token.OPERATOR, "-"}, {token.INT, "56"},
	})
	runTokenize(t, "parens", "(12-34)*56", []tokenCase{
		{token.LPAREN, "("}, {token.INT, "12"}, {token.OPERATOR, "-"}, {token.INT, "34"},
		{token.RPAREN, ")"}, {token.OPERATOR, "*"}, {token.INT, "56"},
	})
	runTokenize(t, "symbolic", "(a+b)-(a+4)", []tokenCase{
		{token.LPAREN, "("}, {token.IDENT, "a"}, {token.OPERATOR, "+"}, {token.IDENT, "b"},
		{token.RPAREN, ")"}, {token.OPERATOR, "-"}, {token.LPAREN, "("}, {token.IDENT, "a"},
		{token.OPERATOR, "+"}, {token.INT, "4"}, {token.RPAREN, ")"},
	})
	runTokenize(t, "empty", "", nil)
}

func TestWhitespaceOption(t *testing.T) {
	runTokenize(t, "spaces", " 1 +\tx ", []tokenCase{
		{token.INT, "1"}, {token.OPERATOR, "+"}, {token.IDENT, "x"},
	}, lexer.WithWhitespace())
	runTokenize(t, "splits literals", "12 34", []tokenCase{
		{token.INT, "12"}, {token.INT, "34"},
	}, lexer.WithWhitespace())
}

func TestIllegalCharacters(t *testing.T) {
	cases := []struct {
		input  string
		char   byte
		column int
	}{
		{"1 + 2", ' ', 2},
		{"a%b", '%', 2},
		{"3.5", '.', 2},
		{"x_y", '_', 2},
		{"\t", '\t', 1},
		{"1+2\n", '\n', 4},
		{"a\x00", 0, 2},
	}
	for _, c := range cases {
		_, err := lexer.Tokenize(c.input)
		if err == nil {
			t.Errorf("Tokenize(%q): expected error", c.input)
			continue
		}
		if !errors.Is(err, calcerr.ErrLexical) {
			t.Errorf("Tokenize(%q): error %v does not match ErrLexical", c.input, err)
		}
		var lexErr *lexer.Error
		if !errors.As(err, &lexErr) {
			t.Fatalf("Tokenize(%q): error %T is not *lexer.Error", c.input, err)
		}
		if lexErr.Char != c.char || lexErr.Pos.Column != c.column {
			t.Errorf("Tokenize(%q): got %q at column %d, want %q at column %d",
				c.input, lexErr.Char, lexErr.Pos.Column, c.char, c.column)
		}
	}
}

func TestPositions(t *testing.T) {
	toks, err := lexer.Tokenize("12+abc")
	if err != nil {
		t.Fatal(err)
	}
	wantOffsets := []int{0, 2, 3, 6}
	for i, off := range wantOffsets {
		if toks[i].Pos.Offset != off {
			t.Errorf("token[%d] %q offset = %d, want %d", i, toks[i].Literal, toks[i].Pos.Offset, off)
		}
	}
}

func TestNextTokenAfterEOF(t *testing.T) {
	l := lexer.New("7")
	if tok := l.NextToken(); tok.Type != token.INT {
		t.Fatalf("first token = %s, want INT", tok.Type)
	}
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.EOF {
			t.Fatalf("call %d after end = %s, want EOF", i, tok.Type)
		}
	}
}
