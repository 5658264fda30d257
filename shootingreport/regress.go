// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/fit"

	"github.com/citydatalab/nypd-shootings/internal/agg"
)

// A quadFit summarizes an ordinary least squares fit of incident
// counts on a degree-2 polynomial basis over the time-of-day bucket.
type quadFit struct {
	// Coeff holds the intercept, linear, and quadratic
	// coefficients, in that order.
	Coeff [3]float64

	R2 float64

	// N is the number of (borough, time bucket) aggregates fitted.
	N int
}

// fitTimeOfDay builds the time-of-day regression chart and its fit
// summary. Incidents are aggregated per borough per 10-minute time
// bucket and the aggregates are pooled into a single fit; the fit
// quality is reported, not acted on.
func fitTimeOfDay(t table.Grouping) (*gg.Plot, quadFit, error) {
	g := agg.TimeOfDay{X: "time", As: "time of day"}.F(t)
	g = agg.Count{By: []string{"borough", "time of day"}}.F(g)

	var xs, ys []float64
	for _, gid := range g.Tables() {
		gt := g.Table(gid)
		var gx, gy []float64
		slice.Convert(&gx, gt.MustColumn("time of day"))
		slice.Convert(&gy, gt.MustColumn("incidents"))
		xs = append(xs, gx...)
		ys = append(ys, gy...)
	}
	if len(xs) == 0 {
		return nil, quadFit{}, &agg.EmptyGroupError{Op: "time of day fit"}
	}

	r := fit.PolynomialRegression(xs, ys, nil, 2)

	var fs quadFit
	copy(fs.Coeff[:], r.Coefficients)
	fs.R2 = rSquared(xs, ys, r.F)
	fs.N = len(xs)

	p := gg.NewPlot(g)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerPoints{X: "time of day", Y: "incidents"})
	p.Stat(ggstat.LeastSquares{X: "time of day", Y: "incidents", Degree: 2})
	p.Add(gg.LayerLines{X: "time of day", Y: "incidents"})
	return p, fs, nil
}

// rSquared is the coefficient of determination of f over the points
// (xs, ys).
func rSquared(xs, ys []float64, f func(float64) float64) float64 {
	mean := 0.0
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	var ssRes, ssTot float64
	for i, x := range xs {
		d := ys[i] - f(x)
		ssRes += d * d
		dt := ys[i] - mean
		ssTot += dt * dt
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
