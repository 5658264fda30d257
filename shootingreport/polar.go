// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/ajstarks/svgo"

	"github.com/citydatalab/nypd-shootings/internal/agg"
)

// sliceColors is the fill cycle for polar slices.
var sliceColors = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1",
}

// polarShares draws a polar bar (pie) chart of shares. Each slice's
// label sits at its angular midpoint, computed from the cumulative
// share position. Slice zero starts at twelve o'clock and slices run
// clockwise in the order given.
func polarShares(shares []agg.Share, width, height int) template.HTML {
	var buf bytes.Buffer
	s := svg.New(&buf)
	s.Start(width, height)

	cx, cy := float64(width)/2, float64(height)/2
	r := math.Min(cx, cy) - 40

	for i, sh := range shares {
		style := fmt.Sprintf("fill:%s;stroke:white;stroke-width:1", sliceColors[i%len(sliceColors)])
		if sh.Share >= 1 {
			s.Circle(int(cx), int(cy), int(r), style)
		} else {
			a0 := angleAt(sh.Pos - sh.Share/2)
			a1 := angleAt(sh.Pos + sh.Share/2)
			large := 0
			if sh.Share > 0.5 {
				large = 1
			}
			s.Path(fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f Z",
				cx, cy,
				cx+r*math.Cos(a0), cy+r*math.Sin(a0),
				r, r, large,
				cx+r*math.Cos(a1), cy+r*math.Sin(a1)), style)
		}

		mid := angleAt(sh.Pos)
		lx := cx + 0.65*r*math.Cos(mid)
		ly := cy + 0.65*r*math.Sin(mid)
		s.Text(int(lx), int(ly),
			fmt.Sprintf("%s %.0f%%", sh.Label, 100*sh.Share),
			"text-anchor:middle;font-size:12px;fill:white")
	}

	s.End()
	return template.HTML(buf.String())
}

// angleAt maps a cumulative share position in [0, 1) to radians,
// with 0 at twelve o'clock running clockwise.
func angleAt(pos float64) float64 {
	return 2*math.Pi*pos - math.Pi/2
}
