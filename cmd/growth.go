/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/headcircle/growth"
)

var CmdGrowth = newGrowthCommand()

func newGrowthCommand() *cli.Command {
	return &cli.Command{
		Name:  "growth",
		Usage: "Head circumference reference tools",
		Commands: []*cli.Command{
			{
				Name:  "curve",
				Usage: "Print the expected head circumference by month",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "months",
						Value: 36,
						Usage: "last month to print (at least 12)",
					},
				},
				Action: growthCurve,
			},
			{
				Name:  "classify",
				Usage: "Assess a single measurement against the reference curve",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "birth-date",
						Required: true,
						Usage:    "date of birth (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "measurement date (YYYY-MM-DD), defaults to today",
					},
					&cli.FloatFlag{
						Name:     "size",
						Required: true,
						Usage:    "head circumference in centimeters",
					},
					&cli.FloatFlag{
						Name:  "birth-size",
						Usage: "recorded head circumference at birth in centimeters",
					},
				},
				Action: growthClassify,
			},
		},
	}
}

func growthCurve(_ context.Context, cmd *cli.Command) error {
	return writeCurve(cmd.Root().Writer, cmd.Int("months"))
}

func writeCurve(out io.Writer, months int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tEXPECTED (CM)")

	for _, point := range growth.Curve(months) {
		fmt.Fprintf(w, "%d\t%.1f\n", point.AgeInMonths, point.ExpectedSize)
	}

	return w.Flush()
}

func growthClassify(_ context.Context, cmd *cli.Command) error {
	birth, err := time.ParseInLocation(time.DateOnly, cmd.String("birth-date"), time.Local)
	if err != nil {
		return fmt.Errorf("invalid birth-date: %w", err)
	}

	date := time.Now()
	if cmd.String("date") != "" {
		date, err = time.ParseInLocation(time.DateOnly, cmd.String("date"), time.Local)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	}

	if date.Before(birth) {
		return errDateBeforeBirth
	}

	size := cmd.Float("size")
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return errInvalidSize
	}

	var recorded *float64
	if cmd.IsSet("birth-size") {
		birthSize := cmd.Float("birth-size")
		if birthSize <= 0 || math.IsNaN(birthSize) || math.IsInf(birthSize, 0) {
			return errInvalidSize
		}
		recorded = &birthSize
	}

	return writeAssessment(cmd.Root().Writer, growth.Assess(birth, date, size, recorded))
}

func writeAssessment(out io.Writer, a growth.Assessment) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Age:\t%d months (%d days)\n", a.AgeInMonths, a.AgeInDays)
	fmt.Fprintf(w, "Head circumference:\t%.1f cm\n", a.Size)
	fmt.Fprintf(w, "Expected:\t%.1f cm\n", a.ExpectedSize)
	fmt.Fprintf(w, "Difference:\t%+.1f cm\n", a.Difference)
	fmt.Fprintf(w, "Percentile:\t%s (%s)\n", a.Percentile, a.Percentile.Severity())

	if a.HasRecordedBirthSize() {
		fmt.Fprintf(w, "Recorded birth size:\t%.1f cm\n", *a.RecordedBirthSize)
	} else {
		fmt.Fprintf(w, "Estimated birth size:\t%.1f cm\n", a.EstimatedBirthSize)
	}

	return w.Flush()
}
