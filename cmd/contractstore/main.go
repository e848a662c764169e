// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// contractstore is the command-line shell around the contract storage
// service. It constructs contract records and change bundles from JSON
// files and runs the store's operations against a configured database pair.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/uvmlabs/contractstore/config"
	"github.com/uvmlabs/contractstore/storage"
)

func main() {
	app := &cli.App{
		Name:  "contractstore",
		Usage: "versioned state store for smart-contract execution",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "TOML config `FILE`; flags override its values",
			},
			&cli.StringFlag{
				Name:  "store-dir",
				Usage: "directory of the key-value store",
			},
			&cli.StringFlag{
				Name:  "commit-log",
				Usage: "file path of the commit-log database",
			},
			&cli.UintFlag{
				Name:  "magic",
				Usage: "chain magic number",
			},
			&cli.Uint64Flag{
				Name:  "height",
				Usage: "current block height mixed into new commit ids",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			&saveCommand,
			&commitCommand,
			&infoCommand,
			&balancesCommand,
			&storageCommand,
			&eventsCommand,
			&rollbackCommand,
			&resetCommand,
			&rootCommand,
			&addressCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openService builds the storage service from the config file and the
// command-line overrides.
func openService(ctx *cli.Context) (*storage.Service, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir := ctx.String("store-dir"); dir != "" {
		cfg.StoreDir = dir
	}
	if path := ctx.String("commit-log"); path != "" {
		cfg.CommitLogPath = path
	}
	if ctx.IsSet("magic") {
		cfg.MagicNumber = uint32(ctx.Uint("magic"))
	}

	logger, err := newLogger(ctx.Bool("verbose"))
	if err != nil {
		return nil, err
	}

	service, err := storage.New(storage.Config{
		MagicNumber:   cfg.MagicNumber,
		StoreDir:      cfg.StoreDir,
		CommitLogPath: cfg.CommitLogPath,
	}, storage.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	service.SetCurrentBlockHeight(ctx.Uint64("height"))
	return service, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
