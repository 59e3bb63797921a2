// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package lexer implements a single-pass, no-backtracking tokenizer for
// integer expressions.
//
// Design principles:
//   - ASCII-only input
//   - Digits group maximally into one INT token
//   - A letter followed by letters/digits groups maximally into one IDENT token
//   - The lexer owns number/identifier disambiguation, so the parser never has
//     to guess from the literal text
//   - Whitespace is not part of the language; it is rejected unless the lexer
//     is created with WithWhitespace
package lexer

import (
	"fmt"
	"strings"

	"github.com/probechain/probe-calc/calcerr"
	"github.com/probechain/probe-calc/lang/token"
)

// Error reports a character that cannot start any token.
type Error struct {
	Char byte
	Pos  token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v %q", e.Pos, calcerr.ErrLexical, e.Char)
}

// Unwrap lets errors.Is match calcerr.ErrLexical.
func (e *Error) Unwrap() error { return calcerr.ErrLexical }

// Option configures a Lexer.
type Option func(*Lexer)

// WithWhitespace makes the lexer skip spaces and tabs between tokens.
func WithWhitespace() Option {
	return func(l *Lexer) { l.whitespace = true }
}

// Lexer holds the state for a single-pass tokenization run.
type Lexer struct {
	input      []byte
	whitespace bool

	// pos is the index into input of the next byte to be loaded into ch.
	// After advance(), ch == input[pos-1] and pos points one past it.
	pos int
	ch  byte // current character; 0 when past end
}

// New creates a new Lexer for the given input string.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: []byte(input)}
	for _, opt := range opts {
		opt(l)
	}
	l.advance() // prime l.ch with the first byte
	return l
}

// advance moves to the next byte in the input. When the end of input is
// reached, ch is set to 0.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input) + 1
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

// currentPos returns the position of l.ch.
func (l *Lexer) currentPos() token.Position {
	return token.Position{Offset: l.pos - 1, Column: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos > len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for l.whitespace && (l.ch == ' ' || l.ch == '\t') {
		l.advance()
	}
}

// NextToken scans and returns the next token from the input. A character
// that cannot start a token yields an ILLEGAL token holding that character.
// After EOF is reached, subsequent calls continue returning EOF tokens.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()
	if l.atEnd() {
		return token.Token{Type: token.EOF, Pos: pos}
	}
	ch := l.ch
	l.advance() // consume ch; from here on, l.ch is the character AFTER ch

	switch {
	case isLetter(ch):
		return token.Token{Type: token.IDENT, Literal: l.readFrom(ch, isAlnum), Pos: pos}
	case isDigit(ch):
		return token.Token{Type: token.INT, Literal: l.readFrom(ch, isDigit), Pos: pos}
	case strings.IndexByte(token.Operators, ch) >= 0:
		return token.Token{Type: token.OPERATOR, Literal: string(ch), Pos: pos}
	case ch == '(':
		return token.Token{Type: token.LPAREN, Literal: "(", Pos: pos}
	case ch == ')':
		return token.Token{Type: token.RPAREN, Literal: ")", Pos: pos}
	}
	return token.Token{Type: token.ILLEGAL, Literal: string([]byte{ch}), Pos: pos}
}

// Tokenize returns all tokens, including the final EOF, produced by repeated
// calls to NextToken. The first ILLEGAL token aborts the run with an *Error.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, &Error{Char: tok.Literal[0], Pos: tok.Pos}
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// Tokenize is a shorthand for New(input, opts...).Tokenize().
func Tokenize(input string, opts ...Option) ([]token.Token, error) {
	return New(input, opts...).Tokenize()
}

// readFrom builds a literal starting with the already-consumed byte first,
// then consuming subsequent bytes accepted by cont.
func (l *Lexer) readFrom(first byte, cont func(byte) bool) string {
	buf := make([]byte, 1, 16)
	buf[0] = first
	for !l.atEnd() && cont(l.ch) {
		buf = append(buf, l.ch)
		l.advance()
	}
	return string(buf)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlnum(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
