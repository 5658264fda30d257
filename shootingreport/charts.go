// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"html/template"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/citydatalab/nypd-shootings/internal/agg"
)

// renderSVG renders p at the given pixel size and returns the SVG
// markup for inline embedding.
func renderSVG(p *gg.Plot, width, height int) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.WriteSVG(&buf, width, height); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// nonEmpty returns an *agg.EmptyGroupError if g has no rows at all.
func nonEmpty(op string, g table.Grouping) error {
	for _, gid := range g.Tables() {
		if g.Table(gid).Len() > 0 {
			return nil
		}
	}
	return &agg.EmptyGroupError{Op: op}
}

func incidentsByYear(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("incidents by year", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Count{By: []string{"year"}})
	p.SortBy("year")
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "year", Y: "incidents"})
	p.Add(gg.LayerPoints{X: "year", Y: "incidents"})
	return p, nil
}

func incidentsByYearByBorough(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("incidents by year by borough", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Count{By: []string{"year", "borough"}})
	p.SortBy("year")
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "year", Y: "incidents", Color: "borough"})
	return p, nil
}

func incidentsByMonth(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("incidents by month", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Count{By: []string{"month"}})
	p.SortBy("month")
	// time.Month's Stringer labels the ticks.
	p.SetScale("x", gg.NewLinearScaler().SetMin(1).SetMax(12))
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "month", Y: "incidents"})
	p.Add(gg.LayerPoints{X: "month", Y: "incidents"})
	return p, nil
}

func incidentsByWeekday(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("incidents by weekday", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Count{By: []string{"weekday"}})
	p.SortBy("weekday")
	p.SetScale("x", gg.NewLinearScaler().SetMin(0).SetMax(6))
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "weekday", Y: "incidents"})
	p.Add(gg.LayerPoints{X: "weekday", Y: "incidents"})
	return p, nil
}

func incidentsByHour(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("incidents by hour", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Count{By: []string{"hour"}})
	p.SortBy("hour")
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "hour", Y: "incidents"})
	return p, nil
}

func hourWeekdayHeatmap(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("hour/weekday heatmap", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Count{By: []string{"hour", "weekday"}})
	p.Add(gg.LayerTiles{X: "hour", Y: "weekday", Fill: "incidents"})
	return p, nil
}

func murderRateByBorough(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("murder rate by borough", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Rate{Of: "murder", By: []string{"borough"}, As: "murder rate"})
	p.SortBy("borough")
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerPoints{X: "borough", Y: "murder rate"})
	return p, nil
}

func murderRateByYear(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("murder rate by year", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Rate{Of: "murder", By: []string{"year"}, As: "murder rate"})
	p.SortBy("year")
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "year", Y: "murder rate"})
	return p, nil
}

func descriptionRateByYear(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("description rate by year", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.Stat(agg.Rate{Of: "perp described", By: []string{"year"}, As: "description rate"})
	p.SortBy("year")
	p.SetScale("y", gg.NewLinearScaler().Include(0).Include(1))
	p.Add(gg.LayerLines{X: "year", Y: "description rate"})
	return p, nil
}

func timeOfDayRidge(t table.Grouping) (*gg.Plot, error) {
	if err := nonEmpty("time of day ridge", t); err != nil {
		return nil, err
	}
	p := gg.NewPlot(t)
	p.GroupBy("weekday")
	p.Stat(
		agg.TimeOfDay{X: "time", As: "time of day"},
		ggstat.Density{X: "time of day", BoundaryMin: 0, BoundaryMax: 24},
	)
	p.Add(gg.FacetY{Col: "weekday"})
	p.Add(gg.LayerLines{X: "time of day", Y: "probability density"})
	return p, nil
}

func incidentMap(t table.Grouping) (*gg.Plot, error) {
	g := table.Filter(t, func(lat, lon float64) bool {
		return !math.IsNaN(lat) && !math.IsNaN(lon)
	}, "latitude", "longitude")
	if err := nonEmpty("incident map", g); err != nil {
		return nil, err
	}
	p := gg.NewPlot(g)
	p.Stat(outcomeLabels{})
	p.Add(gg.LayerPoints{X: "longitude", Y: "latitude", Color: "outcome"})
	return p, nil
}

// outcomeLabels adds an "outcome" column naming the murder flag, so
// the map's color scale gets two labeled levels instead of raw bools.
type outcomeLabels struct{}

func (outcomeLabels) F(g table.Grouping) table.Grouping {
	return table.MapCols(g, func(murder []bool, outcome []string) {
		for i, m := range murder {
			if m {
				outcome[i] = "murder"
			} else {
				outcome[i] = "non-fatal"
			}
		}
	}, "murder")("outcome")
}
