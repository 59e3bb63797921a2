// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// probecalc evaluates integer expressions and simplifies linear ones.
//
// Usage:
//
//	probecalc [flags] <expression>
//	probecalc <command> [flags] [<expression>...]
//
// Commands read expressions from standard input when none are given.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/cmd/utils"
	"github.com/probechain/probe-calc/console"
	"github.com/probechain/probe-calc/log"
)

const (
	clientIdentifier = "probecalc"
	version          = "0.1.0"
)

var (
	app = cli.NewApp()

	calcFlags = []cli.Flag{
		configFileFlag,
		utils.WhitespaceFlag,
		utils.ModeFlag,
		utils.CacheSizeFlag,
		utils.VerbosityFlag,
		utils.LogJSONFlag,
	}

	apiFlags = []cli.Flag{
		utils.HTTPListenAddrFlag,
		utils.HTTPCORSDomainFlag,
		utils.HTTPBatchWorkersFlag,
		utils.HTTPRateLimitFlag,
	}

	consoleFlags = []cli.Flag{
		utils.HistoryFileFlag,
	}

	directFlag = cli.BoolFlag{
		Name:  "direct",
		Usage: "Evaluate with the operand stack, without building a tree",
	}
	addSubFlag = cli.BoolFlag{
		Name:  "addsub",
		Usage: "Evaluate a flat sum of integers joined by + and -",
	}
	flattenFlag = cli.BoolFlag{
		Name:  "flatten",
		Usage: "Reduce with a single sign-threaded pass instead of merging",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "Dump the Go structure of the tree",
	}

	evalCommand = cli.Command{
		Action:    utils.MigrateFlags(evaluate),
		Name:      "eval",
		Usage:     "Evaluate integer expressions",
		ArgsUsage: "[<expression>...]",
		Flags:     append(calcFlags, directFlag, addSubFlag),
		Category:  "EXPRESSION COMMANDS",
		Description: `
The eval command prints the integer value of every expression, one per line.
Operands are integer literals; variables cannot be evaluated. Division
truncates toward zero and overflow is an error.`,
	}
	simplifyCommand = cli.Command{
		Action:    utils.MigrateFlags(simplify),
		Name:      "simplify",
		Usage:     "Simplify linear expressions",
		ArgsUsage: "[<expression>...]",
		Flags:     append(calcFlags, flattenFlag),
		Category:  "EXPRESSION COMMANDS",
		Description: `
The simplify command collects the coefficient of every variable and the
constant term, then prints the canonical form: the constant first, then one
"c * x" term per variable in ascending name order.`,
	}
	termsCommand = cli.Command{
		Action:    utils.MigrateFlags(showTerms),
		Name:      "terms",
		Usage:     "Show the coefficients of linear expressions",
		ArgsUsage: "[<expression>...]",
		Flags:     append(calcFlags, flattenFlag),
		Category:  "EXPRESSION COMMANDS",
	}
	tokensCommand = cli.Command{
		Action:    utils.MigrateFlags(showTokens),
		Name:      "tokens",
		Usage:     "Show the tokens of expressions",
		ArgsUsage: "[<expression>...]",
		Flags:     calcFlags,
		Category:  "EXPRESSION COMMANDS",
	}
	astCommand = cli.Command{
		Action:    utils.MigrateFlags(showTree),
		Name:      "ast",
		Usage:     "Show the parenthesised tree of expressions",
		ArgsUsage: "[<expression>...]",
		Flags:     append(calcFlags, dumpFlag),
		Category:  "EXPRESSION COMMANDS",
	}
)

func init() {
	// Initialize the CLI app and start probecalc
	app.Name = clientIdentifier
	app.Usage = "integer expression evaluator and linear simplifier"
	app.Version = version
	app.ArgsUsage = "<expression>"
	app.Action = utils.MigrateFlags(evaluate)
	app.Commands = []cli.Command{
		evalCommand,
		simplifyCommand,
		termsCommand,
		tokensCommand,
		astCommand,
		consoleCommand,
		serveCommand,
		dumpConfigCommand,
	}
	app.Flags = append(app.Flags, calcFlags...)
	app.Flags = append(app.Flags, apiFlags...)
	app.Flags = append(app.Flags, consoleFlags...)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// forEach runs fn on every expression named by the command, stopping at the
// first failure.
func forEach(ctx *cli.Context, fn func(expr string) error) error {
	exprs, err := utils.Expressions(ctx, os.Stdin)
	if err != nil {
		return err
	}
	for _, expr := range exprs {
		if err := fn(expr); err != nil {
			log.Debug("Expression failed", "expr", expr, "err", err)
			return fmt.Errorf("%s: %w", expr, err)
		}
	}
	return nil
}

// evaluate is the eval command, also run when probecalc is given a bare
// expression.
func evaluate(ctx *cli.Context) error {
	if ctx.Command.Name == "" && ctx.NArg() == 0 {
		return cli.ShowAppHelp(ctx)
	}
	engine, _ := makeEngine(ctx)
	eval := engine.Evaluate
	switch {
	case ctx.Bool(directFlag.Name):
		eval = engine.EvaluateDirect
	case ctx.Bool(addSubFlag.Name):
		eval = engine.EvaluateAddSub
	}
	return forEach(ctx, func(expr string) error {
		v, err := eval(expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, v)
		return nil
	})
}

func reductionMode(ctx *cli.Context) calc.Mode {
	if ctx.Bool(flattenFlag.Name) {
		return calc.ModeFlatten
	}
	return ""
}

// simplify is the simplify command.
func simplify(ctx *cli.Context) error {
	engine, _ := makeEngine(ctx)
	mode := reductionMode(ctx)
	return forEach(ctx, func(expr string) error {
		e, err := engine.SimplifyWith(expr, mode)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, e)
		return nil
	})
}

// showTerms is the terms command.
func showTerms(ctx *cli.Context) error {
	engine, _ := makeEngine(ctx)
	mode := reductionMode(ctx)
	return forEach(ctx, func(expr string) error {
		terms, err := engine.Reduce(expr, mode)
		if err != nil {
			return err
		}
		console.WriteTerms(ctx.App.Writer, terms)
		return nil
	})
}

// showTokens is the tokens command.
func showTokens(ctx *cli.Context) error {
	engine, _ := makeEngine(ctx)
	return forEach(ctx, func(expr string) error {
		toks, err := engine.Tokenize(expr)
		if err != nil {
			return err
		}
		console.WriteTokens(ctx.App.Writer, toks)
		return nil
	})
}

// showTree is the ast command.
func showTree(ctx *cli.Context) error {
	engine, _ := makeEngine(ctx)
	return forEach(ctx, func(expr string) error {
		tree, err := engine.Parse(expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, tree)
		if ctx.Bool(dumpFlag.Name) {
			console.DumpTree(ctx.App.Writer, tree)
		}
		return nil
	})
}
