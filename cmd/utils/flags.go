// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package utils

import (
	"os"
	"strings"

	"gopkg.in/urfave/cli.v1"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/internal/calcapi"
	"github.com/probechain/probe-calc/log"
)

var (
	// Engine settings
	WhitespaceFlag = cli.BoolFlag{
		Name:  "whitespace",
		Usage: "Ignore spaces and tabs between tokens",
	}
	ModeFlag = cli.StringFlag{
		Name:  "mode",
		Usage: `Simplification algorithm ("merge" or "flatten")`,
		Value: string(calc.Defaults.Mode),
	}
	CacheSizeFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "Number of parsed expressions kept in memory (0 disables the cache)",
		Value: calc.Defaults.CacheSize,
	}

	// Logging
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: int(log.LvlInfo),
	}
	LogJSONFlag = cli.BoolFlag{
		Name:  "log.json",
		Usage: "Format logs with JSON",
	}

	// HTTP API settings
	HTTPListenAddrFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP API listening address",
		Value: calcapi.DefaultConfig.ListenAddr,
	}
	HTTPCORSDomainFlag = cli.StringFlag{
		Name:  "http.corsdomain",
		Usage: "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
		Value: "",
	}
	HTTPBatchWorkersFlag = cli.IntFlag{
		Name:  "http.batchworkers",
		Usage: "Number of batch expressions evaluated concurrently",
		Value: calcapi.DefaultConfig.BatchWorkers,
	}
	HTTPRateLimitFlag = cli.Float64Flag{
		Name:  "http.ratelimit",
		Usage: "Requests per second accepted by the HTTP API (0 means no limit)",
		Value: calcapi.DefaultConfig.RateLimit,
	}

	// Console settings
	HistoryFileFlag = cli.StringFlag{
		Name:  "history",
		Usage: "File keeping the console history",
	}
)

// SetCalcConfig applies engine-related command line flags to the config.
func SetCalcConfig(ctx *cli.Context, cfg *calc.Config) {
	if ctx.GlobalIsSet(WhitespaceFlag.Name) {
		cfg.AllowWhitespace = ctx.GlobalBool(WhitespaceFlag.Name)
	}
	if ctx.GlobalIsSet(ModeFlag.Name) {
		cfg.Mode = calc.Mode(ctx.GlobalString(ModeFlag.Name))
	}
	if ctx.GlobalIsSet(CacheSizeFlag.Name) {
		cfg.CacheSize = ctx.GlobalInt(CacheSizeFlag.Name)
	}
	if err := cfg.Mode.Validate(); err != nil {
		Fatalf("Invalid --%s: %v", ModeFlag.Name, err)
	}
}

// SetAPIConfig applies HTTP API command line flags to the config.
func SetAPIConfig(ctx *cli.Context, cfg *calcapi.Config) {
	if ctx.GlobalIsSet(HTTPListenAddrFlag.Name) {
		cfg.ListenAddr = ctx.GlobalString(HTTPListenAddrFlag.Name)
	}
	if ctx.GlobalIsSet(HTTPCORSDomainFlag.Name) {
		cfg.CorsOrigins = SplitAndTrim(ctx.GlobalString(HTTPCORSDomainFlag.Name))
	}
	if ctx.GlobalIsSet(HTTPBatchWorkersFlag.Name) {
		cfg.BatchWorkers = ctx.GlobalInt(HTTPBatchWorkersFlag.Name)
	}
	if ctx.GlobalIsSet(HTTPRateLimitFlag.Name) {
		cfg.RateLimit = ctx.GlobalFloat64(HTTPRateLimitFlag.Name)
	}
}

// SetupLogging installs the root log handler on standard error.
func SetupLogging(verbosity int, json bool) {
	handler := log.TerminalHandler(os.Stderr)
	if json {
		handler = log.StreamHandler(os.Stderr, log.JSONFormat())
	}
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(verbosity), handler))
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}
