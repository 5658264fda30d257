// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/citydatalab/nypd-shootings/internal/agg"
	"github.com/citydatalab/nypd-shootings/internal/clean"
	"github.com/citydatalab/nypd-shootings/internal/feed"
)

// A report holds everything the HTML template renders. All fields
// are computed once from the cleaned snapshot; the commentary text is
// fixed.
type report struct {
	RawRows   int
	CleanRows int
	DateMin   time.Time
	DateMax   time.Time

	Summary []colSummary
	Missing []missingCount
	Borough []agg.Share
	VicRace []agg.Share

	Sections []section

	Fit quadFit
}

type colSummary struct {
	Column         string
	N              int
	Mean, Min, Max float64
}

type missingCount struct {
	Column string
	N      int
}

type section struct {
	Title string
	Prose string
	SVG   template.HTML
}

// chartSpec pairs a chart builder with its commentary and render
// size.
type chartSpec struct {
	title  string
	prose  string
	build  func(table.Grouping) (*gg.Plot, error)
	width  int
	height int
}

var chartSpecs = []chartSpec{
	{"Incidents per year",
		"Shootings fell steadily through the 2010s to a 2019 low and " +
			"then jumped sharply in 2020, giving the series a hockey-stick " +
			"shape. The report treats the feed as a static snapshot, so the " +
			"final year is partial.",
		incidentsByYear, 600, 300},
	{"Incidents per year by borough",
		"Brooklyn and the Bronx drive the citywide curve; Staten Island " +
			"is nearly flat at the bottom of the panel. The borough lines " +
			"move together, which points at citywide rather than local causes.",
		incidentsByYearByBorough, 600, 300},
	{"Incidents by month",
		"There is a pronounced seasonal cycle: incidents climb from a " +
			"February trough to a July peak and fall off through autumn. " +
			"Warm months see roughly twice the volume of cold ones.",
		incidentsByMonth, 600, 300},
	{"Incidents by day of week",
		"Weekends dominate. Saturday and Sunday sit well above the " +
			"midweek floor, consistent with incidents concentrating in " +
			"social hours rather than commute hours.",
		incidentsByWeekday, 600, 300},
	{"Incidents by hour of day",
		"The hourly profile is the inverse of a workday: a minimum " +
			"around 7–9 in the morning and a steep climb through the " +
			"evening into the small hours.",
		incidentsByHour, 600, 300},
	{"Hour by weekday",
		"The heatmap combines the two previous views. The bright region " +
			"is weekend nights; early weekday mornings are nearly empty. " +
			"Friday and Saturday nights effectively extend into the next " +
			"calendar day.",
		hourWeekdayHeatmap, 700, 350},
	{}, // borough share, rendered outside gg
	{"Murder rate by borough",
		"Roughly one incident in five is fatal in every borough; the " +
			"spread between boroughs is small compared to the spread in " +
			"volume. Lethality looks uniform even where exposure is not.",
		murderRateByBorough, 600, 300},
	{"Murder rate by year",
		"The murder rate is far more stable than the incident count. " +
			"Years with twice the shootings do not show twice the " +
			"lethality, which argues against a change in the severity mix.",
		murderRateByYear, 600, 300},
	{"Perpetrator description rate by year",
		"The share of incidents with a usable perpetrator description " +
			"(both race and sex recorded) varies by year. Low-description " +
			"years limit what any demographic breakdown of perpetrators " +
			"can claim.",
		descriptionRateByYear, 600, 300},
	{"Time of day by weekday",
		"Each row is a density of incident times for one weekday. The " +
			"night-time ridge shifts later on Friday and Saturday and the " +
			"morning trough deepens, matching the heatmap above.",
		timeOfDayRidge, 600, 700},
	{"Incident map",
		"Each marker is a geocoded incident, colored by outcome. " +
			"Fatal incidents track the overall density rather than " +
			"clustering separately; hot spots are neighborhoods, not " +
			"murder-specific sites.",
		incidentMap, 600, 600},
}

const boroughShareProse = "Brooklyn and the Bronx together account " +
	"for most of the city's incidents. The slice labels sit at each " +
	"slice's angular midpoint; the ordering is by share, largest first."

const fitProse = "Pooling per-borough incident counts over 10-minute " +
	"time buckets and fitting a quadratic captures the broad U shape " +
	"of the daily cycle: high at night on both sides of a mid-morning " +
	"minimum. The fit is descriptive only; its quality is reported " +
	"below the chart, not acted on."

// buildReport computes every artifact of the report: the summary
// block, missing-value counts, frequency tables, and the fixed chart
// sequence.
func buildReport(raw []feed.Record, recs []clean.Record) (*report, error) {
	t := clean.Table(recs)

	rep := &report{
		RawRows:   len(raw),
		CleanRows: len(recs),
	}
	rep.DateMin, rep.DateMax = dateRange(recs)
	rep.Summary = summarize(t)

	for _, col := range feed.Columns() {
		rep.Missing = append(rep.Missing, missingCount{col, 0})
	}
	counts := feed.MissingCounts(raw)
	for i := range rep.Missing {
		rep.Missing[i].N = counts[rep.Missing[i].Column]
	}

	var err error
	rep.Borough, err = frequency(t, "borough")
	if err != nil {
		return nil, err
	}
	rep.VicRace, err = frequency(t, "victim race")
	if err != nil {
		return nil, err
	}

	for i, spec := range chartSpecs {
		if spec.build == nil {
			// Borough share slot: polar bar drawn directly.
			rep.Sections = append(rep.Sections, section{
				Title: "Share of incidents by borough",
				Prose: boroughShareProse,
				SVG:   polarShares(rep.Borough, 500, 500),
			})
			continue
		}
		p, err := spec.build(t)
		if err != nil {
			return nil, fmt.Errorf("chart %d (%s): %w", i+1, spec.title, err)
		}
		svg, err := renderSVG(p, spec.width, spec.height)
		if err != nil {
			return nil, fmt.Errorf("chart %d (%s): %w", i+1, spec.title, err)
		}
		rep.Sections = append(rep.Sections, section{spec.title, spec.prose, svg})
	}

	p, fs, err := fitTimeOfDay(t)
	if err != nil {
		return nil, fmt.Errorf("time of day fit: %w", err)
	}
	svg, err := renderSVG(p, 600, 350)
	if err != nil {
		return nil, fmt.Errorf("time of day fit: %w", err)
	}
	rep.Fit = fs
	rep.Sections = append(rep.Sections, section{
		Title: "Incidents on time of day, quadratic fit",
		Prose: fitProse,
		SVG:   svg,
	})

	return rep, nil
}

func dateRange(recs []clean.Record) (min, max time.Time) {
	for _, r := range recs {
		if min.IsZero() || r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return
}

// summarize produces the numeric column summaries at the head of the
// report. Absent coordinates are excluded.
func summarize(t *table.Table) []colSummary {
	var out []colSummary
	for _, col := range []string{"precinct", "hour", "latitude", "longitude"} {
		var xs []float64
		switch seq := t.MustColumn(col).(type) {
		case []int:
			xs = make([]float64, len(seq))
			for i, v := range seq {
				xs[i] = float64(v)
			}
		case []float64:
			for _, v := range seq {
				if !math.IsNaN(v) {
					xs = append(xs, v)
				}
			}
		}
		if len(xs) == 0 {
			continue
		}
		s := stats.Sample{Xs: xs}
		min, max := s.Bounds()
		out = append(out, colSummary{col, len(xs), s.Mean(), min, max})
	}
	return out
}

// frequency builds the descending-count share table for one
// categorical column. Absent values appear under "unknown".
func frequency(t table.Grouping, col string) ([]agg.Share, error) {
	g := agg.Count{By: []string{col}}.F(t)

	var labels []string
	var counts []int
	for _, gid := range g.Tables() {
		gt := g.Table(gid)
		ls := gt.MustColumn(col).([]string)
		cs := gt.MustColumn("incidents").([]int)
		for i, l := range ls {
			if l == "" {
				l = "unknown"
			}
			labels = append(labels, l)
			counts = append(counts, cs[i])
		}
	}
	return agg.Shares(labels, counts)
}

const htmlReport = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>NYPD shooting incidents</title>
    <style>
body {
  font-family: sans-serif;
  color: #222;
  max-width: 60em;
  margin: auto;
}
table {
  border-spacing: 0;
  border-collapse: collapse;
}
table>tbody>tr>td, table>tbody>tr>th, table>thead>tr>th {
  padding: 6px 10px;
  line-height: 1.4;
}
table.lined>tbody>tr>td, table.lined>tbody>tr>th {
  border-top: 1px solid #ddd;
}
table.lined>thead>tr>th {
  border-bottom: 2px solid #ddd;
}
th {
  text-align: left;
}
td.num, th.num {
  text-align: right;
}
p.prose {
  max-width: 45em;
}
    </style>
  </head>
  <body>
    <h1>NYPD shooting incidents</h1>
    <p class="prose">One-shot exploratory report over the NYPD
    Shooting Incident Data (Historic) snapshot. {{.CleanRows}} of
    {{.RawRows}} rows retained after cleaning (rows with no
    jurisdiction code are out-of-scope agency cases), covering
    {{.DateMin.Format "Jan 2, 2006"}} through
    {{.DateMax.Format "Jan 2, 2006"}}.</p>

    <h2>Summary statistics</h2>
    <table class="lined">
      <thead><tr><th>column</th><th class="num">n</th><th class="num">mean</th><th class="num">min</th><th class="num">max</th></tr></thead>
      <tbody>
      {{range .Summary}}
      <tr><td>{{.Column}}</td><td class="num">{{.N}}</td><td class="num">{{num .Mean}}</td><td class="num">{{num .Min}}</td><td class="num">{{num .Max}}</td></tr>
      {{end}}
      </tbody>
    </table>

    <h2>Missing values per column</h2>
    <table class="lined">
      <thead><tr><th>feed column</th><th class="num">missing</th></tr></thead>
      <tbody>
      {{range .Missing}}
      <tr><td>{{.Column}}</td><td class="num">{{.N}}</td></tr>
      {{end}}
      </tbody>
    </table>

    <h2>Incidents by borough</h2>
    <table class="lined">
      <thead><tr><th>borough</th><th class="num">incidents</th><th class="num">share</th></tr></thead>
      <tbody>
      {{range .Borough}}
      <tr><td>{{.Label}}</td><td class="num">{{.Count}}</td><td class="num">{{pct .Share}}</td></tr>
      {{end}}
      </tbody>
    </table>

    <h2>Incidents by victim race</h2>
    <table class="lined">
      <thead><tr><th>victim race</th><th class="num">incidents</th><th class="num">share</th></tr></thead>
      <tbody>
      {{range .VicRace}}
      <tr><td>{{.Label}}</td><td class="num">{{.Count}}</td><td class="num">{{pct .Share}}</td></tr>
      {{end}}
      </tbody>
    </table>

    {{range .Sections}}
    <h2>{{.Title}}</h2>
    <p class="prose">{{.Prose}}</p>
    {{.SVG}}
    {{end}}

    <h3>Fit summary</h3>
    <table class="lined">
      <tbody>
        <tr><th>model</th><td>incidents = a&#8320; + a&#8321;&middot;t + a&#8322;&middot;t&sup2;</td></tr>
        <tr><th>a&#8320;</th><td class="num">{{num (index .Fit.Coeff 0)}}</td></tr>
        <tr><th>a&#8321;</th><td class="num">{{num (index .Fit.Coeff 1)}}</td></tr>
        <tr><th>a&#8322;</th><td class="num">{{num (index .Fit.Coeff 2)}}</td></tr>
        <tr><th>R&sup2;</th><td class="num">{{num .Fit.R2}}</td></tr>
        <tr><th>aggregates fitted</th><td class="num">{{.Fit.N}}</td></tr>
      </tbody>
    </table>
  </body>
</html>
`

var htmlFuncs = template.FuncMap(map[string]interface{}{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", 100*v)
	},
	"num": func(v float64) string {
		return fmt.Sprintf("%.4g", v)
	},
})

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(htmlReport))

func (r *report) WriteHTML(w io.Writer) error {
	return htmlTemplate.Execute(w, r)
}
