// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command shootingreport renders an exploratory report over the NYPD
// Shooting Incident Data (Historic) feed.
//
// shootingreport fetches the feed's CSV snapshot, cleans it, and
// writes a self-contained HTML document: summary statistics, missing
// value counts, frequency tables, and a fixed sequence of charts with
// commentary, ending with a quadratic model of incident volume over
// time of day. Charts are embedded as inline SVG.
//
// The run is one shot: a single fetch, no retry, no cache, and any
// failure in any stage aborts the whole render.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/citydatalab/nypd-shootings/internal/clean"
	"github.com/citydatalab/nypd-shootings/internal/feed"
)

func main() {
	log.SetPrefix("shootingreport: ")
	log.SetFlags(0)

	var (
		flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to `file`")
		flagOut        = flag.String("o", "", "write report to `file` (default: stdout)")
		flagURL        = flag.String("url", feed.URL, "fetch incident CSV from `url`")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	raw, err := feed.Fetch(*flagURL)
	if err != nil {
		log.Fatal("loading feed: ", err)
	}

	recs, err := clean.Clean(raw)
	if err != nil {
		log.Fatal("cleaning feed: ", err)
	}
	if len(recs) == 0 {
		log.Fatal("cleaning feed: no rows with a jurisdiction code")
	}

	rep, err := buildReport(raw, recs)
	if err != nil {
		log.Fatal("building report: ", err)
	}

	f := os.Stdout
	if *flagOut != "" {
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}
	if err := rep.WriteHTML(f); err != nil {
		log.Fatal("writing report: ", err)
	}
}
