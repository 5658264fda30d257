// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package agg implements the grouped aggregations behind the report's
// charts as table statistics.
//
// Each aggregation consumes a grouped or ungrouped table and produces
// one row per distinct key combination present in the data. Absent
// combinations are not zero-filled; a chart simply omits them.
package agg

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/aclements/go-gg/table"
)

// An EmptyGroupError reports an aggregation or fit attempted over
// zero rows.
type EmptyGroupError struct {
	Op string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("%s: no rows to aggregate", e.Op)
}

// Count is a table.Grouping statistic that counts rows by key.
//
// The result has one row per distinct combination of the By columns,
// with the key columns and an "incidents" int column.
type Count struct {
	// By names the key columns to group by.
	By []string
}

func (c Count) F(g table.Grouping) table.Grouping {
	return aggregate(g, c.By, func(t *table.Table, b *table.Builder) {
		b.Add("incidents", []int{t.Len()})
	})
}

// Rate is a table.Grouping statistic that computes the mean of a
// boolean column by key.
//
// The result has one row per distinct combination of the By columns,
// with the key columns and a float64 As column holding the fraction
// of rows in the group whose Of value is true. The fraction is always
// in [0, 1].
type Rate struct {
	// Of names a []bool column to average.
	Of string

	// By names the key columns to group by.
	By []string

	// As names the result column.
	As string
}

func (r Rate) F(g table.Grouping) table.Grouping {
	return aggregate(g, r.By, func(t *table.Table, b *table.Builder) {
		flags := t.MustColumn(r.Of).([]bool)
		n := 0
		for _, f := range flags {
			if f {
				n++
			}
		}
		b.Add(r.As, []float64{float64(n) / float64(len(flags))})
	})
}

// aggregate groups g by the key columns and emits one row per group,
// carrying the group's key values plus whatever columns f adds.
func aggregate(g table.Grouping, by []string, f func(t *table.Table, b *table.Builder)) table.Grouping {
	g = table.GroupBy(g, by...)

	gids := g.Tables()
	rows := make([]table.Grouping, 0, len(gids))
	for _, gid := range gids {
		t := g.Table(gid)
		if t.Len() == 0 {
			continue
		}
		var b table.Builder
		for _, col := range by {
			seq := reflect.ValueOf(t.MustColumn(col))
			key := reflect.MakeSlice(seq.Type(), 1, 1)
			key.Index(0).Set(seq.Index(0))
			b.Add(col, key.Interface())
		}
		f(t, &b)
		rows = append(rows, b.Done())
	}
	if len(rows) == 0 {
		return new(table.Table)
	}
	return table.Concat(rows...)
}

// TimeDecimal converts an offset from midnight to the 10-minute time
// bucket used by the time-of-day charts: the offset is rounded to the
// nearest 10-minute mark and expressed as hour + minute/60, a value
// in [0, 24). Rounding keeps near-duplicate timestamps in one bucket.
func TimeDecimal(d time.Duration) float64 {
	const bucket = 10 * time.Minute
	d = d.Round(bucket)
	if d >= 24*time.Hour {
		// 23:55 and later round up to midnight.
		d -= 24 * time.Hour
	}
	return float64(d) / float64(time.Hour)
}

// TimeOfDay is a table.Grouping statistic that adds an As float64
// column holding the TimeDecimal bucket of the X duration column.
type TimeOfDay struct {
	// X names a []time.Duration column of offsets from midnight.
	X string

	// As names the added column.
	As string
}

func (s TimeOfDay) F(g table.Grouping) table.Grouping {
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		times := t.MustColumn(s.X).([]time.Duration)
		buckets := make([]float64, len(times))
		for i, d := range times {
			buckets[i] = TimeDecimal(d)
		}
		return table.NewBuilder(t).Add(s.As, buckets).Done()
	})
}

// A Share is one slice of a share-of-total breakdown.
type Share struct {
	Label string

	Count int

	// Share is Count over the total, in [0, 1].
	Share float64

	// Pos is the cumulative share at this slice's angular
	// midpoint: the running sum of shares through this slice minus
	// half this slice's share. Charts place slice labels at
	// 2π·Pos.
	Pos float64
}

// Shares computes the share-of-total breakdown of counts, ordered by
// descending count with ties broken by label. It returns an
// *EmptyGroupError if the total is zero.
func Shares(labels []string, counts []int) ([]Share, error) {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, &EmptyGroupError{"shares"}
	}

	out := make([]Share, len(labels))
	for i, l := range labels {
		out[i] = Share{Label: l, Count: counts[i]}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})

	cum := 0.0
	for i := range out {
		out[i].Share = float64(out[i].Count) / float64(total)
		cum += out[i].Share
		out[i].Pos = cum - out[i].Share/2
	}
	return out, nil
}
