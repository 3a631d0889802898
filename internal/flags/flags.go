// Package flags contains helpers for assembling the relation-node command
// line interface.
package flags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/RelationLab/relation-node/internal/version"
	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Name = filepath.Base(os.Args[0])
	app.Version = version.WithCommit(gitCommit, gitDate)
	app.Usage = usage
	app.Copyright = "Copyright 2026 The relation-node Authors"
	return app
}

// Set via linker flags at build time.
var (
	gitCommit string
	gitDate   string
)

// Merge merges the given flag slices.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, group := range groups {
		ret = append(ret, group...)
	}
	return ret
}

// AutoEnvVars extends all the specific CLI flags with automatically generated
// env vars by capitalizing the flag, replacing . with _ and prefixing it with
// the specified string. Flags that already carry explicit env vars are left
// untouched, so external surfaces with fixed variable names keep them.
func AutoEnvVars(flags []cli.Flag, prefix string) {
	for _, flag := range flags {
		envvar := strings.ToUpper(prefix + "_" + strings.ReplaceAll(flag.Names()[0], ".", "_"))

		switch flag := flag.(type) {
		case *cli.StringFlag:
			if len(flag.EnvVars) == 0 {
				flag.EnvVars = append(flag.EnvVars, envvar)
			}
		case *cli.BoolFlag:
			if len(flag.EnvVars) == 0 {
				flag.EnvVars = append(flag.EnvVars, envvar)
			}
		case *cli.IntFlag:
			if len(flag.EnvVars) == 0 {
				flag.EnvVars = append(flag.EnvVars, envvar)
			}
		case *cli.DurationFlag:
			if len(flag.EnvVars) == 0 {
				flag.EnvVars = append(flag.EnvVars, envvar)
			}
		case *cli.StringSliceFlag:
			if len(flag.EnvVars) == 0 {
				flag.EnvVars = append(flag.EnvVars, envvar)
			}
		}
	}
}
