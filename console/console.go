// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package console implements the interactive expression shell.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/calcerr"
)

// DefaultPrompt is the default prompt line prefix to use for user input querying.
const DefaultPrompt = "> "

var (
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
	kindColor   = color.New(color.Faint)
)

// Config is the collection of configurations to fine tune the behavior of the
// console.
type Config struct {
	Engine      *calc.Engine // Engine evaluating the entered expressions
	Prompt      string       // Input prompt prefix string (defaults to DefaultPrompt)
	Prompter    UserPrompter // Input prompter to allow interactive user feedback
	Printer     io.Writer    // Output writer to serialize any display strings to (defaults to os.Stdout)
	HistoryPath string       // Path of the history file, empty to disable persistence
}

// Console is an interactive shell around an Engine: plain lines are
// evaluated, lines starting with ':' are commands.
type Console struct {
	engine   *calc.Engine
	prompt   string
	prompter UserPrompter
	printer  io.Writer
	histPath string
	history  []string
}

// command is a console directive such as ":simplify a+a".
type command struct {
	usage string
	run   func(c *Console, arg string) error
}

var commands = map[string]command{
	"simplify": {"<expr>  merge-reduce a linear expression", func(c *Console, arg string) error {
		return c.simplify(arg, calc.ModeMerge)
	}},
	"flatten": {"<expr>  reduce a linear expression in a single pass", func(c *Console, arg string) error {
		return c.simplify(arg, calc.ModeFlatten)
	}},
	"terms": {"<expr>  show the coefficient of every term", func(c *Console, arg string) error {
		terms, err := c.engine.Reduce(arg, "")
		if err != nil {
			return err
		}
		WriteTerms(c.printer, terms)
		return nil
	}},
	"tokens": {"<expr>  show the tokens of an expression", func(c *Console, arg string) error {
		toks, err := c.engine.Tokenize(arg)
		if err != nil {
			return err
		}
		WriteTokens(c.printer, toks)
		return nil
	}},
	"ast": {"<expr>  dump the expression tree", func(c *Console, arg string) error {
		tree, err := c.engine.Parse(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.printer, tree)
		DumpTree(c.printer, tree)
		return nil
	}},
	"direct": {"<expr>  evaluate without building a tree", func(c *Console, arg string) error {
		v, err := c.engine.EvaluateDirect(arg)
		if err != nil {
			return err
		}
		resultColor.Fprintln(c.printer, v)
		return nil
	}},
	"addsub": {"<expr>  evaluate a flat sum of + and - terms", func(c *Console, arg string) error {
		v, err := c.engine.EvaluateAddSub(arg)
		if err != nil {
			return err
		}
		resultColor.Fprintln(c.printer, v)
		return nil
	}},
}

// New initializes a console. A missing engine is an error; other fields have
// defaults.
func New(config Config) (*Console, error) {
	if config.Engine == nil {
		return nil, errors.New("console: no engine")
	}
	if config.Prompter == nil {
		return nil, errors.New("console: no prompter")
	}
	if config.Prompt == "" {
		config.Prompt = DefaultPrompt
	}
	if config.Printer == nil {
		config.Printer = color.Output
	}
	c := &Console{
		engine:   config.Engine,
		prompt:   config.Prompt,
		prompter: config.Prompter,
		printer:  config.Printer,
		histPath: config.HistoryPath,
	}
	if c.histPath != "" {
		if content, err := os.ReadFile(c.histPath); err == nil {
			if lines := strings.TrimSpace(string(content)); lines != "" {
				c.history = strings.Split(lines, "\n")
			}
			c.prompter.SetHistory(c.history)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("console: failed to read history: %w", err)
		}
	}
	c.prompter.SetWordCompleter(c.complete)
	return c, nil
}

// Welcome shows a summary of the engine settings.
func (c *Console) Welcome() {
	cfg := c.engine.Config()
	message := "Welcome to the probecalc console!\n\n"
	message += fmt.Sprintf("simplification mode: %s\n", cfg.Mode)
	if cfg.AllowWhitespace {
		message += "whitespace between tokens is ignored\n"
	}
	message += "type :help for commands, exit or Ctrl-D to quit\n"
	fmt.Fprintln(c.printer, message)
}

// Evaluate runs a single console line and prints its outcome. Failures are
// printed rather than returned.
func (c *Console) Evaluate(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	var err error
	if strings.HasPrefix(line, ":") {
		name, arg := splitCommand(line[1:])
		if cmd, ok := commands[name]; ok {
			err = cmd.run(c, arg)
		} else if name == "help" {
			c.printHelp()
		} else {
			err = fmt.Errorf("unknown command %q, try :help", name)
		}
	} else {
		err = c.evaluate(line)
	}
	if err != nil {
		c.printError(err)
	}
}

// evaluate computes a plain line. Lines with variables are simplified
// instead, since they have no single value.
func (c *Console) evaluate(line string) error {
	v, err := c.engine.Evaluate(line)
	if errors.Is(err, calcerr.ErrUnresolvedVariable) {
		return c.simplify(line, "")
	}
	if err != nil {
		return err
	}
	resultColor.Fprintln(c.printer, v)
	return nil
}

func (c *Console) simplify(src string, mode calc.Mode) error {
	e, err := c.engine.SimplifyWith(src, mode)
	if err != nil {
		return err
	}
	resultColor.Fprintln(c.printer, e)
	return nil
}

func (c *Console) printError(err error) {
	errorColor.Fprint(c.printer, "Error: ", err)
	if kind := calcerr.Kind(err); kind != "" && kind != "internal" {
		kindColor.Fprintf(c.printer, " [%s]", kind)
	}
	fmt.Fprintln(c.printer)
}

func (c *Console) printHelp() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(c.printer, "Enter an expression to evaluate it, or one of:")
	fmt.Fprintf(c.printer, "  :%-9s %s\n", "help", "show this help")
	for _, name := range names {
		fmt.Fprintf(c.printer, "  :%-9s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(c.printer, "  exit       leave the console")
}

// Interactive reads lines from the prompter until exit or end of input.
func (c *Console) Interactive() {
	for {
		line, err := c.prompter.PromptInput(c.prompt)
		if err == liner.ErrPromptAborted {
			// Ctrl-C drops the current line.
			continue
		}
		if err != nil {
			fmt.Fprintln(c.printer)
			return
		}
		input := strings.TrimSpace(line)
		if input == "exit" || input == ":exit" || input == ":quit" {
			return
		}
		if input != "" && (len(c.history) == 0 || input != c.history[len(c.history)-1]) {
			c.history = append(c.history, input)
			c.prompter.AppendHistory(input)
		}
		c.Evaluate(input)
	}
}

// Stop persists the history, if a history file was configured.
func (c *Console) Stop() error {
	if c.histPath == "" {
		return nil
	}
	if err := os.WriteFile(c.histPath, []byte(strings.Join(c.history, "\n")), 0600); err != nil {
		return err
	}
	return os.Chmod(c.histPath, 0600)
}

// complete offers command names after a leading ':'.
func (c *Console) complete(line string, pos int) (string, []string, string) {
	if pos > len(line) {
		pos = len(line)
	}
	head, tail := line[:pos], line[pos:]
	if !strings.HasPrefix(head, ":") || strings.ContainsAny(head, " \t") {
		return line, nil, ""
	}
	var candidates []string
	if strings.HasPrefix("help", head[1:]) {
		candidates = append(candidates, ":help")
	}
	for name := range commands {
		if strings.HasPrefix(name, head[1:]) {
			candidates = append(candidates, ":"+name)
		}
	}
	sort.Strings(candidates)
	return "", candidates, tail
}

func splitCommand(s string) (name, arg string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}
