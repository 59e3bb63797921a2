// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probe-calc/cmd/utils"
	"github.com/probechain/probe-calc/console"
	"github.com/probechain/probe-calc/internal/calcapi"
	"github.com/probechain/probe-calc/log"
)

var (
	consoleCommand = cli.Command{
		Action:   utils.MigrateFlags(localConsole),
		Name:     "console",
		Usage:    "Start an interactive expression console",
		Flags:    append(calcFlags, consoleFlags...),
		Category: "CONSOLE COMMANDS",
		Description: `
The console evaluates every line entered. Lines with variables are simplified
instead. Type :help for the list of commands.`,
	}

	serveCommand = cli.Command{
		Action:   utils.MigrateFlags(serve),
		Name:     "serve",
		Usage:    "Serve evaluation and simplification over HTTP",
		Flags:    append(calcFlags, apiFlags...),
		Category: "API COMMANDS",
		Description: `
The serve command starts the HTTP API:

  POST /v1/evaluate   {"expression": "..."}
  POST /v1/simplify   {"expression": "...", "mode": "merge" | "flatten"}
  POST /v1/batch      {"expressions": ["...", ...]}
  GET  /v1/ws         websocket, one JSON request per text frame
  GET  /v1/health`,
	}
)

// localConsole starts an interactive console on the terminal.
func localConsole(ctx *cli.Context) error {
	engine, cfg := makeEngine(ctx)

	prompter := console.NewTerminalPrompter()
	defer prompter.Close()

	c, err := console.New(console.Config{
		Engine:      engine,
		Prompt:      cfg.Console.Prompt,
		Prompter:    prompter,
		HistoryPath: cfg.Console.HistoryPath,
	})
	if err != nil {
		utils.Fatalf("Failed to start the console: %v", err)
	}
	c.Welcome()
	c.Interactive()
	return c.Stop()
}

// serve runs the HTTP API until interrupted.
func serve(ctx *cli.Context) error {
	engine, cfg := makeEngine(ctx)

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := calcapi.NewServer(engine, cfg.API)
	if err := server.ListenAndServe(sigctx); err != nil {
		log.Error("HTTP API failed", "err", err)
		return err
	}
	return nil
}
