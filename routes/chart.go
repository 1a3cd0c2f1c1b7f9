/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"math"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/headcircle/db"
	"github.com/humaidq/headcircle/growth"
)

// growthSeries holds the chart data for one patient, indexed by month.
type growthSeries struct {
	Months   []string
	Expected []float64
	// Measured has one entry per month; nil where nothing was measured.
	Measured []*float64
}

// buildGrowthSeries places the patient's measurements on a monthly axis
// alongside the reference curve. The birth point is estimated from the
// earliest measurement. Measurements taken before birth are skipped, and
// within a month the most recent measurement wins.
func buildGrowthSeries(patient db.Patient) growthSeries {
	maxAge := 0
	for _, m := range patient.Measurements {
		if age := patient.AgeInMonths(m.Date); age > maxAge {
			maxAge = age
		}
	}

	curve := growth.Curve(maxAge)

	series := growthSeries{
		Months:   make([]string, len(curve)),
		Expected: make([]float64, len(curve)),
		Measured: make([]*float64, len(curve)),
	}

	for i, point := range curve {
		series.Months[i] = strconv.Itoa(point.AgeInMonths)
		series.Expected[i] = round1(point.ExpectedSize)
	}

	birth := round1(patient.EstimatedBirthSize())
	series.Measured[0] = &birth

	// Oldest first so later readings in the same month overwrite earlier ones.
	measurements := slices.Clone(patient.Measurements)
	slices.SortStableFunc(measurements, func(a, b db.Measurement) int {
		return a.Date.Compare(b.Date)
	})

	for _, m := range measurements {
		age := patient.AgeInMonths(m.Date)
		if age < 0 || age >= len(series.Measured) {
			continue
		}

		size := round1(m.Size)
		series.Measured[age] = &size
	}

	return series
}

// generateGrowthChart renders the patient's growth chart to HTML. It returns
// an empty string when there is nothing to plot.
func generateGrowthChart(patient db.Patient) (string, error) {
	if len(patient.Measurements) == 0 {
		return "", nil
	}

	series := buildGrowthSeries(patient)

	expected := make([]opts.LineData, len(series.Expected))
	for i, size := range series.Expected {
		expected[i] = opts.LineData{Value: size}
	}

	measured := make([]opts.LineData, len(series.Measured))
	for i, size := range series.Measured {
		if size == nil {
			measured[i] = opts.LineData{Value: "-"}
			continue
		}

		measured[i] = opts.LineData{Value: *size}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "360px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Head circumference",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Age (months)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "cm",
			Min:  math.Floor(minSize(series)) - 1,
		}),
	)

	line.SetXAxis(series.Months).
		AddSeries("Expected (50th)", expected,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: "rgba(128, 128, 128, 0.6)",
				Type:  "dashed",
				Width: 1.5,
			}),
		).
		AddSeries(patient.FullName(), measured,
			charts.WithLineChartOpts(opts.LineChart{
				ConnectNulls: opts.Bool(true),
				ShowSymbol:   opts.Bool(true),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: "#14b8a6",
				Width: 2,
			}),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func minSize(series growthSeries) float64 {
	smallest := series.Expected[0]

	for _, size := range series.Measured {
		if size != nil && *size < smallest {
			smallest = *size
		}
	}

	return smallest
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
