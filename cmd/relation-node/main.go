// Copyright 2026 The relation-node Authors
// This file is part of relation-node.
//
// relation-node is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// relation-node is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with relation-node. If not, see <http://www.gnu.org/licenses/>.

// relation-node is a subgraph indexing node gated by a deployment allowlist.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RelationLab/relation-node/allowlist"
	"github.com/RelationLab/relation-node/internal/flags"
	"github.com/RelationLab/relation-node/node"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: "NODE",
	}
	nodeIDFlag = &cli.StringFlag{
		Name:     "node.id",
		Usage:    "Index node identity deployments are assigned to",
		Value:    node.DefaultConfig.NodeID,
		Category: "NODE",
	}
	queryAddrFlag = &cli.StringFlag{
		Name:     "query.addr",
		Usage:    "Listen address of the subgraph query endpoint",
		Value:    node.DefaultConfig.QueryAddr,
		Category: "NODE",
	}
	adminAddrFlag = &cli.StringFlag{
		Name:     "admin.addr",
		Usage:    "Listen address of the subgraph admin JSON-RPC endpoint",
		Value:    node.DefaultConfig.AdminAddr,
		Category: "NODE",
	}
	corsDomainFlag = &cli.StringSliceFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests",
		Category: "NODE",
	}

	allowlistFileFlag = &cli.StringFlag{
		Name:     "allowlist.file",
		Usage:    `JSON file holding the subgraph allowlist ({"allowlist": [...]})`,
		EnvVars:  []string{"SUBGRAPH_ALLOWLIST_FILEPATH"},
		Category: "ALLOWLIST",
	}
	allowlistInlineFlag = &cli.StringFlag{
		Name:     "allowlist.inline",
		Usage:    "Comma separated subgraph allowlist (an empty value denies everything)",
		EnvVars:  []string{"SUBGRAPH_ALLOWEDLIST"},
		Category: "ALLOWLIST",
	}
	allowlistWatchFlag = &cli.BoolFlag{
		Name:     "allowlist.watch",
		Usage:    "Reload the allowlist file when it changes",
		Value:    node.DefaultConfig.WatchAllowlist,
		Category: "ALLOWLIST",
	}
	allowlistPollFlag = &cli.DurationFlag{
		Name:     "allowlist.poll",
		Usage:    "Polling fallback interval of the allowlist reload trigger",
		Value:    allowlist.DefaultPollInterval,
		Category: "ALLOWLIST",
	}

	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: "LOGGING",
	}
	logJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs with JSON",
		Category: "LOGGING",
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to a rotated file instead of stderr",
		Category: "LOGGING",
	}

	metricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and reporting",
		Category: "METRICS",
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:     "metrics.addr",
		Usage:    "Enable stand-alone metrics HTTP server listening address",
		Value:    "127.0.0.1:6060",
		Category: "METRICS",
	}
)

var app = flags.NewApp("the relation-node command line interface")

func init() {
	app.Action = relationNode
	app.Flags = flags.Merge(
		[]cli.Flag{configFileFlag, nodeIDFlag, queryAddrFlag, adminAddrFlag, corsDomainFlag},
		[]cli.Flag{allowlistFileFlag, allowlistInlineFlag, allowlistWatchFlag, allowlistPollFlag},
		[]cli.Flag{verbosityFlag, logJSONFlag, logFileFlag},
		[]cli.Flag{metricsEnabledFlag, metricsAddrFlag},
	)
	flags.AutoEnvVars(app.Flags, "RELATION")
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func relationNode(ctx *cli.Context) error {
	setupLogging(ctx)
	setupMetrics(ctx)

	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	stack, err := node.New(&cfg)
	if err != nil {
		// A failed bootstrap load lands here: the node must not come up in an
		// ambiguous access-control state.
		return err
	}
	if err := stack.Start(); err != nil {
		return err
	}
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)

		<-sigc
		log.Info("Got interrupt, shutting down...")
		stack.Stop()
	}()
	stack.Wait()
	return nil
}

func setupLogging(ctx *cli.Context) {
	var (
		output   = io.Writer(os.Stderr)
		format   log.Format
		usecolor = isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	)
	switch {
	case ctx.String(logFileFlag.Name) != "":
		output = &lumberjack.Logger{
			Filename:   ctx.String(logFileFlag.Name),
			MaxSize:    100,
			MaxBackups: 10,
			Compress:   true,
		}
		format = log.LogfmtFormat()
	case ctx.Bool(logJSONFlag.Name):
		format = log.JSONFormat()
	default:
		if usecolor {
			output = colorable.NewColorableStderr()
		}
		format = log.TerminalFormat(usecolor)
	}
	handler := log.StreamHandler(output, format)
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(ctx.Int(verbosityFlag.Name)), handler))
}

func setupMetrics(ctx *cli.Context) {
	if !ctx.Bool(metricsEnabledFlag.Name) && !metrics.Enabled {
		return
	}
	log.Info("Enabling metrics collection")
	go metrics.CollectProcessMetrics(3 * time.Second)

	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		log.Info("Enabling stand-alone metrics HTTP endpoint", "address", addr)
		exp.Setup(addr)
	}
}
