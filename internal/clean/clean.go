// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clean types and recodes raw feed rows.
//
// Cleaning is a pure, order-preserving transformation: rows with an
// absent jurisdiction code are dropped (they are federal or other
// out-of-scope agency cases), every other row maps one-to-one to a
// Record. It never adds rows and running it over already-clean data
// changes nothing.
package clean

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/citydatalab/nypd-shootings/internal/feed"
)

// Jurisdiction identifies the policing body responsible for an
// incident's location.
type Jurisdiction string

const (
	Patrol  Jurisdiction = "Patrol"
	Transit Jurisdiction = "Transit"
	Housing Jurisdiction = "Housing"
)

// A Record is one cleaned incident.
//
// Optional attributes use in-band absence markers: PerpRace and
// VictimRace are "" when the feed carried no usable value, and
// Latitude/Longitude are NaN when the incident was not geocoded.
type Record struct {
	Date         time.Time     // calendar date of the incident
	TimeOfDay    time.Duration // offset from midnight
	Borough      string
	Murder       bool
	PerpRace     string
	VictimRace   string
	Precinct     int
	Jurisdiction Jurisdiction
	Latitude     float64
	Longitude    float64

	// Derived from Date and TimeOfDay.
	Year    int
	Month   time.Month
	Weekday time.Weekday // week starts Sunday
	Hour    int

	// PerpDescribed reports whether the raw row carried both a
	// perpetrator race and a perpetrator sex.
	PerpDescribed bool
}

// A ParseError reports a malformed value in the raw feed. Malformed
// values indicate upstream corruption, so cleaning propagates them
// rather than dropping the row.
type ParseError struct {
	Row   int // 0-based index into the raw record slice
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: bad %s %q: %s", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const dateLayout = "01/02/2006"

// absent reports whether a raw categorical cell carries no usable
// value. The feed uses several placeholders interchangeably.
func absent(v string, placeholders ...string) bool {
	if v == "" || v == "(null)" {
		return true
	}
	for _, p := range placeholders {
		if v == p {
			return true
		}
	}
	return false
}

// Clean converts raw feed rows into Records. Rows whose jurisdiction
// code is absent are dropped; any other malformed value aborts
// cleaning with a *ParseError.
func Clean(raw []feed.Record) ([]Record, error) {
	out := make([]Record, 0, len(raw))
	for i, r := range raw {
		if absent(r.Jurisdiction) {
			continue
		}

		var rec Record
		var err error

		rec.Date, err = time.Parse(dateLayout, r.OccurDate)
		if err != nil {
			return nil, &ParseError{i, "occur date", r.OccurDate, err}
		}
		rec.TimeOfDay, err = parseTimeOfDay(r.OccurTime)
		if err != nil {
			return nil, &ParseError{i, "occur time", r.OccurTime, err}
		}

		rec.Year = rec.Date.Year()
		rec.Month = rec.Date.Month()
		rec.Weekday = rec.Date.Weekday()
		rec.Hour = int(rec.TimeOfDay / time.Hour)

		switch r.Jurisdiction {
		case "0":
			rec.Jurisdiction = Patrol
		case "1":
			rec.Jurisdiction = Transit
		case "2":
			rec.Jurisdiction = Housing
		default:
			// The feed has never carried other codes, but a
			// silent mislabel would poison every chart.
			return nil, &ParseError{i, "jurisdiction code", r.Jurisdiction, fmt.Errorf("unknown code")}
		}

		rec.Borough = r.Borough
		rec.Murder = strings.EqualFold(r.MurderFlag, "true") || r.MurderFlag == "Y"

		rec.Precinct, err = strconv.Atoi(r.Precinct)
		if err != nil {
			return nil, &ParseError{i, "precinct", r.Precinct, err}
		}

		perpRace, perpSex := r.PerpRace, r.PerpSex
		if absent(perpRace, "UNKNOWN") {
			perpRace = ""
		}
		if absent(perpSex, "U") {
			perpSex = ""
		}
		rec.PerpRace = perpRace
		rec.PerpDescribed = perpRace != "" && perpSex != ""

		if vic := r.VicRace; absent(vic, "UNKNOWN") {
			rec.VictimRace = ""
		} else {
			rec.VictimRace = vic
		}

		rec.Latitude, err = parseCoord(r.Latitude)
		if err != nil {
			return nil, &ParseError{i, "latitude", r.Latitude, err}
		}
		rec.Longitude, err = parseCoord(r.Longitude)
		if err != nil {
			return nil, &ParseError{i, "longitude", r.Longitude, err}
		}

		out = append(out, rec)
	}
	return out, nil
}

func parseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

func parseCoord(s string) (float64, error) {
	if s == "" || s == "(null)" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
