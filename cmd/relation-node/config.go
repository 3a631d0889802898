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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/RelationLab/relation-node/node"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

// relationConfig is the TOML layout of the --config file.
type relationConfig struct {
	Node node.Config
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		if deprecated(id) {
			return nil
		}
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func deprecated(field string) bool {
	return false
}

func loadConfigFile(file string, cfg *relationConfig) error {
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

// makeConfig assembles the node configuration: defaults, then the config
// file, then command line flags, most specific last.
func makeConfig(ctx *cli.Context) (node.Config, error) {
	cfg := relationConfig{Node: node.DefaultConfig}

	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return node.Config{}, err
		}
	}
	if ctx.IsSet(nodeIDFlag.Name) {
		cfg.Node.NodeID = ctx.String(nodeIDFlag.Name)
	}
	if ctx.IsSet(queryAddrFlag.Name) {
		cfg.Node.QueryAddr = ctx.String(queryAddrFlag.Name)
	}
	if ctx.IsSet(adminAddrFlag.Name) {
		cfg.Node.AdminAddr = ctx.String(adminAddrFlag.Name)
	}
	if ctx.IsSet(corsDomainFlag.Name) {
		cfg.Node.CORSOrigins = ctx.StringSlice(corsDomainFlag.Name)
	}
	if ctx.IsSet(allowlistFileFlag.Name) {
		cfg.Node.AllowlistFile = ctx.String(allowlistFileFlag.Name)
	}
	// An inline allowlist that is set but empty is a deliberate deny-all
	// policy, so presence matters, not just the value.
	if ctx.IsSet(allowlistInlineFlag.Name) {
		cfg.Node.AllowlistInline = ctx.String(allowlistInlineFlag.Name)
		cfg.Node.AllowlistInlineSet = true
	}
	if ctx.IsSet(allowlistWatchFlag.Name) {
		cfg.Node.WatchAllowlist = ctx.Bool(allowlistWatchFlag.Name)
	}
	if ctx.IsSet(allowlistPollFlag.Name) {
		cfg.Node.AllowlistPollInterval = ctx.Duration(allowlistPollFlag.Name)
	}
	return cfg.Node, nil
}
