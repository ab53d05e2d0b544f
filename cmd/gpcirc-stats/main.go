// Copyright 2024 The gpcirculation Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	circulation "github.com/jpolanco/gpcirculation"
	"github.com/jpolanco/gpcirculation/internal/config"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	log := logrus.New()

	app := cli.NewApp()
	app.Name = "gpcirc-stats"
	app.Usage = "compute velocity circulation statistics over GP wave-function slices"
	app.Version = VERSION
	app.ArgsUsage = "<config.toml>"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "threads",
			Usage:  "override the worker thread count from the config file (0 keeps the config value)",
			EnvVar: "GPCIRC_THREADS",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug-level logging",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.Bool("verbose") {
			log.SetLevel(logrus.DebugLevel)
		}
		if c.NArg() != 1 {
			cli.ShowAppHelp(c)
			return cli.NewExitError("exactly one config file argument is required", 1)
		}

		cfg, err := config.Load(c.Args().Get(0))
		if err != nil {
			return reportAndExit(log, err)
		}
		if t := c.Int("threads"); t > 0 {
			cfg.Threads = t
		}

		pipeline, err := circulation.NewPipeline(cfg, log)
		if err != nil {
			return reportAndExit(log, err)
		}

		log.WithFields(logrus.Fields{
			"input":  cfg.InputDir,
			"output": cfg.OutputPath,
			"d":      cfg.D,
		}).Info("starting run")

		if err := pipeline.Run(context.Background()); err != nil {
			return reportAndExit(log, err)
		}
		log.Info("run complete")
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// reportAndExit logs the abstract error kind (spec.md §7) to stderr and
// returns a cli.ExitError so Run's own exit-code handling takes over.
func reportAndExit(log *logrus.Logger, err error) error {
	if kind, ok := circulation.AsKind(err); ok {
		log.WithField("kind", kind.String()).Error(err)
		return cli.NewExitError(fmt.Sprintf("%s: %v", kind, err), 1)
	}
	log.Error(err)
	return cli.NewExitError(err.Error(), 1)
}
