// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agg

import (
	"math"
	"testing"
	"time"

	"github.com/aclements/go-gg/table"
)

// fixture builds a small incident-shaped table: 100 rows over two
// boroughs, 40 with the murder flag set.
func fixture() *table.Table {
	n := 100
	boroughs := make([]string, n)
	murders := make([]bool, n)
	times := make([]time.Duration, n)
	for i := 0; i < n; i++ {
		if i%4 == 0 {
			boroughs[i] = "QUEENS"
		} else {
			boroughs[i] = "BROOKLYN"
		}
		murders[i] = i < 40
		times[i] = time.Duration(i%24)*time.Hour + time.Duration(i%60)*time.Minute
	}
	return new(table.Builder).
		Add("borough", boroughs).
		Add("murder", murders).
		Add("time", times).
		Done()
}

func TestCount(t *testing.T) {
	g := Count{By: []string{"borough"}}.F(fixture())

	total := 0
	seen := map[string]int{}
	for _, gid := range g.Tables() {
		gt := g.Table(gid)
		labels := gt.MustColumn("borough").([]string)
		counts := gt.MustColumn("incidents").([]int)
		for i := range labels {
			seen[labels[i]] = counts[i]
			total += counts[i]
		}
	}

	// Group counts reconcile with the input row count.
	if total != 100 {
		t.Fatalf("want counts summing to 100; got %d", total)
	}
	if seen["QUEENS"] != 25 || seen["BROOKLYN"] != 75 {
		t.Fatalf("want QUEENS=25 BROOKLYN=75; got %v", seen)
	}
	// No zero-fill: only keys present in the data appear.
	if len(seen) != 2 {
		t.Fatalf("want 2 groups; got %d", len(seen))
	}
}

func TestCountEmpty(t *testing.T) {
	g := Count{By: []string{"borough"}}.F(new(table.Table))
	for _, gid := range g.Tables() {
		if g.Table(gid).Len() != 0 {
			t.Fatal("count of empty table should have no rows")
		}
	}
}

func TestRate(t *testing.T) {
	// 40 of 100 murder flags set: the pooled rate is exactly 0.40.
	g := Rate{Of: "murder", By: nil, As: "murder rate"}.F(fixture())

	var rates []float64
	for _, gid := range g.Tables() {
		rates = append(rates, g.Table(gid).MustColumn("murder rate").([]float64)...)
	}
	if len(rates) != 1 {
		t.Fatalf("want one pooled rate; got %d", len(rates))
	}
	if rates[0] != 0.40 {
		t.Fatalf("want rate 0.40; got %v", rates[0])
	}
}

func TestRateBounds(t *testing.T) {
	g := Rate{Of: "murder", By: []string{"borough"}, As: "murder rate"}.F(fixture())
	for _, gid := range g.Tables() {
		for _, r := range g.Table(gid).MustColumn("murder rate").([]float64) {
			if r < 0 || r > 1 {
				t.Fatalf("rate %v outside [0, 1]", r)
			}
		}
	}
}

func TestTimeDecimal(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want float64
	}{
		// 13:47 rounds to the 13:50 bucket.
		{13*time.Hour + 47*time.Minute, 13 + 50.0/60},
		{13*time.Hour + 50*time.Minute, 13 + 50.0/60},
		{0, 0},
		{4 * time.Minute, 0},
		// 23:57 rounds up to midnight, which wraps to 0.
		{23*time.Hour + 57*time.Minute, 0},
	}
	for _, c := range cases {
		got := TimeDecimal(c.d)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("TimeDecimal(%v): want %v; got %v", c.d, c.want, got)
		}
		if got < 0 || got >= 24 {
			t.Errorf("TimeDecimal(%v) = %v outside [0, 24)", c.d, got)
		}
	}
}

func TestTimeOfDayStat(t *testing.T) {
	g := TimeOfDay{X: "time", As: "time of day"}.F(fixture())
	for _, gid := range g.Tables() {
		gt := g.Table(gid)
		times := gt.MustColumn("time").([]time.Duration)
		buckets := gt.MustColumn("time of day").([]float64)
		for i := range times {
			if want := TimeDecimal(times[i]); buckets[i] != want {
				t.Fatalf("row %d: want bucket %v; got %v", i, want, buckets[i])
			}
		}
	}
}

func TestShares(t *testing.T) {
	shares, err := Shares(
		[]string{"BRONX", "BROOKLYN", "QUEENS", "MANHATTAN"},
		[]int{30, 50, 10, 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	// Descending by count, ties broken by label.
	wantOrder := []string{"BROOKLYN", "BRONX", "MANHATTAN", "QUEENS"}
	for i, w := range wantOrder {
		if shares[i].Label != w {
			t.Fatalf("slice %d: want %s; got %s", i, w, shares[i].Label)
		}
	}

	sum := 0.0
	cum := 0.0
	for _, s := range shares {
		sum += s.Share
		// Pos is the angular midpoint of the slice.
		if want := cum + s.Share/2; math.Abs(s.Pos-want) > 1e-9 {
			t.Fatalf("%s: want pos %v; got %v", s.Label, want, s.Pos)
		}
		cum += s.Share
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("shares sum to %v; want 1", sum)
	}

	if shares[0].Share != 0.5 || shares[0].Pos != 0.25 {
		t.Fatalf("BROOKLYN: want share 0.5 pos 0.25; got %v %v", shares[0].Share, shares[0].Pos)
	}
}

func TestSharesEmpty(t *testing.T) {
	_, err := Shares(nil, nil)
	if _, ok := err.(*EmptyGroupError); !ok {
		t.Fatalf("want *EmptyGroupError; got %v", err)
	}

	_, err = Shares([]string{"BRONX"}, []int{0})
	if _, ok := err.(*EmptyGroupError); !ok {
		t.Fatalf("want *EmptyGroupError; got %v", err)
	}
}
