// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	calc "github.com/probechain/probe-calc"
	"github.com/probechain/probe-calc/cmd/utils"
	"github.com/probechain/probe-calc/console"
	"github.com/probechain/probe-calc/internal/calcapi"
	"github.com/probechain/probe-calc/log"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      utils.MigrateFlags(dumpConfig),
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[<file>]",
		Flags:       append(append(calcFlags, apiFlags...), consoleFlags...),
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values, or writes them to <file>.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type consoleConfig struct {
	Prompt      string
	HistoryPath string `toml:",omitempty"`
}

type logConfig struct {
	Verbosity int
	JSON      bool
}

type probecalcConfig struct {
	Calc    calc.Config
	API     calcapi.Config
	Console consoleConfig
	Log     logConfig
}

func defaultConfig() probecalcConfig {
	return probecalcConfig{
		Calc:    calc.Defaults,
		API:     calcapi.DefaultConfig,
		Console: consoleConfig{Prompt: console.DefaultPrompt},
		Log:     logConfig{Verbosity: int(log.LvlInfo)},
	}
}

func loadConfig(file string, cfg *probecalcConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads probecalc configuration: defaults, then the config file,
// then command line flags. Logging is set up from the result.
func makeConfig(ctx *cli.Context) probecalcConfig {
	// Load defaults.
	cfg := defaultConfig()

	// Load config file.
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			utils.Fatalf("%v", err)
		}
	}

	// Apply flags.
	utils.SetCalcConfig(ctx, &cfg.Calc)
	utils.SetAPIConfig(ctx, &cfg.API)
	if ctx.GlobalIsSet(utils.HistoryFileFlag.Name) {
		cfg.Console.HistoryPath = ctx.GlobalString(utils.HistoryFileFlag.Name)
	}
	if ctx.GlobalIsSet(utils.VerbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.GlobalInt(utils.VerbosityFlag.Name)
	}
	if ctx.GlobalIsSet(utils.LogJSONFlag.Name) {
		cfg.Log.JSON = ctx.GlobalBool(utils.LogJSONFlag.Name)
	}
	utils.SetupLogging(cfg.Log.Verbosity, cfg.Log.JSON)
	return cfg
}

// makeEngine loads the configuration and creates the expression engine.
func makeEngine(ctx *cli.Context) (*calc.Engine, probecalcConfig) {
	cfg := makeConfig(ctx)
	engine, err := calc.NewEngine(&cfg.Calc)
	if err != nil {
		utils.Fatalf("Failed to create the expression engine: %v", err)
	}
	log.Debug("Expression engine ready", "mode", cfg.Calc.Mode, "whitespace", cfg.Calc.AllowWhitespace, "cache", cfg.Calc.CacheSize)
	return engine, cfg
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	var dump io.Writer = ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
