// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clean

import (
	"time"

	"github.com/aclements/go-gg/table"
)

// Table builds the columnar projection of recs consumed by the
// report's aggregations. It has one column per Record field, in the
// fixed schema order.
func Table(recs []Record) *table.Table {
	n := len(recs)
	var (
		dates     = make(byTime, n)
		times     = make([]time.Duration, n)
		boroughs  = make([]string, n)
		murders   = make([]bool, n)
		perpRaces = make([]string, n)
		vicRaces  = make([]string, n)
		precincts = make([]int, n)
		juris     = make([]string, n)
		lats      = make([]float64, n)
		lons      = make([]float64, n)
		years     = make([]int, n)
		months    = make([]time.Month, n)
		weekdays  = make([]time.Weekday, n)
		hours     = make([]int, n)
		described = make([]bool, n)
	)
	for i, r := range recs {
		dates[i] = r.Date
		times[i] = r.TimeOfDay
		boroughs[i] = r.Borough
		murders[i] = r.Murder
		perpRaces[i] = r.PerpRace
		vicRaces[i] = r.VictimRace
		precincts[i] = r.Precinct
		juris[i] = string(r.Jurisdiction)
		lats[i] = r.Latitude
		lons[i] = r.Longitude
		years[i] = r.Year
		months[i] = r.Month
		weekdays[i] = r.Weekday
		hours[i] = r.Hour
		described[i] = r.PerpDescribed
	}
	return new(table.Builder).
		Add("date", dates).
		Add("time", times).
		Add("borough", boroughs).
		Add("murder", murders).
		Add("perp race", perpRaces).
		Add("victim race", vicRaces).
		Add("precinct", precincts).
		Add("jurisdiction", juris).
		Add("latitude", lats).
		Add("longitude", lons).
		Add("year", years).
		Add("month", months).
		Add("weekday", weekdays).
		Add("hour", hours).
		Add("perp described", described).
		Done()
}

type byTime []time.Time

func (s byTime) Len() int {
	return len(s)
}

func (s byTime) Less(i, j int) bool {
	return s[i].Before(s[j])
}

func (s byTime) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
