/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/headcircle/cmd"
	"github.com/humaidq/headcircle/logging"
)

func main() {
	app := &cli.Command{
		Name:  "headcircle",
		Usage: "headcircle - Infant head circumference tracking",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdGrowth,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.Logger(logging.SourceApp).Fatal("headcircle exited", "error", err)
	}
}
