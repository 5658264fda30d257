// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feed loads the NYPD Shooting Incident Data (Historic) CSV
// feed into memory.
//
// The feed is a single CSV document published by NYC Open Data. Each
// row is one shooting incident. feed performs no interpretation of
// the data beyond column binding; see package clean for typing and
// recoding.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
)

// URL is the endpoint of the NYPD Shooting Incident Data (Historic)
// CSV export.
const URL = "https://data.cityofnewyork.us/api/views/833y-fsy8/rows.csv?accessType=DOWNLOAD"

// A Record is one incident row as delivered by the feed. All fields
// are the raw CSV cell text; empty string means the cell was empty.
type Record struct {
	OccurDate    string
	OccurTime    string
	Borough      string
	MurderFlag   string
	PerpRace     string
	PerpSex      string
	VicRace      string
	VicSex       string
	Precinct     string
	Jurisdiction string
	Latitude     string
	Longitude    string
}

// columns maps feed header names to offsets in a Record's bound
// column set. The feed carries more columns than these; the rest are
// ignored.
var columns = []string{
	"OCCUR_DATE",
	"OCCUR_TIME",
	"BORO",
	"STATISTICAL_MURDER_FLAG",
	"PERP_RACE",
	"PERP_SEX",
	"VIC_RACE",
	"VIC_SEX",
	"PRECINCT",
	"JURISDICTION_CODE",
	"Latitude",
	"Longitude",
}

// Columns returns the feed header names of the bound columns, in
// schema order.
func Columns() []string {
	return append([]string(nil), columns...)
}

// A FetchError reports a failure to retrieve or decode the feed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetch retrieves the feed at url and parses it. It makes a single
// attempt: there is no retry and no caching. Any transport or decode
// failure is returned as a *FetchError.
func Fetch(url string) ([]Record, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, &FetchError{url, err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{url, fmt.Errorf("unexpected status %s", resp.Status)}
	}

	recs, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, &FetchError{url, err}
	}
	return recs, nil
}

// ParseCSV decodes the feed's CSV encoding. The first row must be a
// header containing every column named in the raw schema; column
// order is not significant.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	offs := make([]int, len(columns))
	for i, name := range columns {
		off, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("feed is missing column %q", name)
		}
		offs[i] = off
	}

	var recs []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, Record{
			OccurDate:    row[offs[0]],
			OccurTime:    row[offs[1]],
			Borough:      row[offs[2]],
			MurderFlag:   row[offs[3]],
			PerpRace:     row[offs[4]],
			PerpSex:      row[offs[5]],
			VicRace:      row[offs[6]],
			VicSex:       row[offs[7]],
			Precinct:     row[offs[8]],
			Jurisdiction: row[offs[9]],
			Latitude:     row[offs[10]],
			Longitude:    row[offs[11]],
		})
	}
	return recs, nil
}

// MissingCounts returns, for each raw column, the number of records
// whose cell is empty or carries the feed's "(null)" placeholder.
// The keys are the feed's own header names.
func MissingCounts(recs []Record) map[string]int {
	counts := make(map[string]int, len(columns))
	for _, name := range columns {
		counts[name] = 0
	}
	for _, r := range recs {
		for i, v := range [...]string{
			r.OccurDate, r.OccurTime, r.Borough, r.MurderFlag,
			r.PerpRace, r.PerpSex, r.VicRace, r.VicSex,
			r.Precinct, r.Jurisdiction, r.Latitude, r.Longitude,
		} {
			if v == "" || v == "(null)" {
				counts[columns[i]]++
			}
		}
	}
	return counts
}
