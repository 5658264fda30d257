// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citydatalab/nypd-shootings/internal/agg"
	"github.com/citydatalab/nypd-shootings/internal/clean"
	"github.com/citydatalab/nypd-shootings/internal/feed"
)

// fixtureRecords spreads incidents over three years, all five
// boroughs, every weekday, and a range of times of day, so every
// chart has data.
func fixtureRecords() []clean.Record {
	boroughs := []string{"BROOKLYN", "BRONX", "QUEENS", "MANHATTAN", "STATEN ISLAND"}
	races := []string{"BLACK", "WHITE HISPANIC", "", "BLACK HISPANIC"}

	var recs []clean.Record
	base := time.Date(2019, time.January, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 300; i++ {
		date := base.AddDate(0, 0, (i*3)%1000)
		tod := time.Duration(i%24)*time.Hour + time.Duration((i*7)%60)*time.Minute
		recs = append(recs, clean.Record{
			Date:          date,
			TimeOfDay:     tod,
			Borough:       boroughs[i%len(boroughs)],
			Murder:        i%5 == 0,
			PerpRace:      races[i%len(races)],
			VictimRace:    races[(i+1)%len(races)],
			Precinct:      40 + i%40,
			Jurisdiction:  clean.Patrol,
			Latitude:      40.55 + float64(i%90)/200,
			Longitude:     -74.05 + float64(i%90)/200,
			Year:          date.Year(),
			Month:         date.Month(),
			Weekday:       date.Weekday(),
			Hour:          int(tod / time.Hour),
			PerpDescribed: i%3 != 0,
		})
	}
	return recs
}

func fixtureRaw(n int) []feed.Record {
	raw := make([]feed.Record, n)
	for i := range raw {
		raw[i] = feed.Record{
			OccurDate:    "01/05/2019",
			OccurTime:    "00:00:00",
			Borough:      "BROOKLYN",
			MurderFlag:   "false",
			Precinct:     "79",
			Jurisdiction: "0",
		}
	}
	return raw
}

func TestBuildReport(t *testing.T) {
	recs := fixtureRecords()
	rep, err := buildReport(fixtureRaw(len(recs)+5), recs)
	require.NoError(t, err)

	assert.Equal(t, len(recs)+5, rep.RawRows)
	assert.Equal(t, len(recs), rep.CleanRows)
	assert.False(t, rep.DateMin.IsZero())
	assert.True(t, rep.DateMax.After(rep.DateMin))

	// The fixed chart sequence: 12 charts plus the fit summary.
	require.Len(t, rep.Sections, 13)
	for _, s := range rep.Sections {
		assert.NotEmpty(t, s.Title)
		assert.Contains(t, string(s.SVG), "<svg", "section %q has no SVG", s.Title)
	}

	// Frequency tables are ordered by descending count.
	require.NotEmpty(t, rep.Borough)
	for i := 1; i < len(rep.Borough); i++ {
		assert.GreaterOrEqual(t, rep.Borough[i-1].Count, rep.Borough[i].Count)
	}

	assert.Greater(t, rep.Fit.N, 0)
	assert.LessOrEqual(t, rep.Fit.R2, 1.0)
}

func TestWriteHTML(t *testing.T) {
	recs := fixtureRecords()
	rep, err := buildReport(fixtureRaw(len(recs)), recs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteHTML(&buf))
	out := buf.String()

	for _, want := range []string{
		"<h2>Summary statistics</h2>",
		"<h2>Missing values per column</h2>",
		"<h2>Incidents by borough</h2>",
		"<h2>Incidents by victim race</h2>",
		"<h2>Incidents per year</h2>",
		"<h2>Share of incidents by borough</h2>",
		"<h2>Incident map</h2>",
		"<h3>Fit summary</h3>",
	} {
		assert.Contains(t, out, want)
	}

	// The headings appear in the report's fixed order.
	last := -1
	for _, want := range []string{
		"Summary statistics", "Missing values per column",
		"Incidents per year", "Share of incidents by borough",
		"Fit summary",
	} {
		i := strings.Index(out, want)
		require.Greater(t, i, last, "%q out of order", want)
		last = i
	}
}

func TestChartsEmptyInput(t *testing.T) {
	empty := clean.Table(nil)
	_, err := incidentsByYear(empty)
	var ege *agg.EmptyGroupError
	require.ErrorAs(t, err, &ege)

	_, err = incidentMap(empty)
	assert.ErrorAs(t, err, &ege)

	_, _, err = fitTimeOfDay(empty)
	assert.ErrorAs(t, err, &ege)
}

func TestRSquared(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}

	// A perfect fit explains all variance.
	f := func(x float64) float64 { return 2*x + 1 }
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	assert.Equal(t, 1.0, rSquared(xs, ys, f))

	// Predicting the mean explains none of it.
	mean := func(float64) float64 { return 5 }
	assert.Equal(t, 0.0, rSquared(xs, []float64{5, 3, 7, 4, 6}, mean))
}

func TestFitTimeOfDay(t *testing.T) {
	p, fs, err := fitTimeOfDay(clean.Table(fixtureRecords()))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Greater(t, fs.N, 0)
	assert.LessOrEqual(t, fs.R2, 1.0)

	svg, err := renderSVG(p, 600, 350)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestPolarShares(t *testing.T) {
	shares, err := agg.Shares(
		[]string{"BROOKLYN", "BRONX", "QUEENS"},
		[]int{50, 30, 20},
	)
	require.NoError(t, err)

	out := string(polarShares(shares, 500, 500))
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 3, strings.Count(out, "<path"))
	for _, s := range shares {
		assert.Contains(t, out, s.Label)
	}

	// A single group fills the whole circle.
	whole, err := agg.Shares([]string{"BROOKLYN"}, []int{10})
	require.NoError(t, err)
	out = string(polarShares(whole, 500, 500))
	assert.Contains(t, out, "<circle")
	assert.Contains(t, out, "100%")
}
